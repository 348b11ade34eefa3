package model

import (
	"slices"
	"time"

	"dining-status-backend/internal/schedule"
)

// Location is a dining location as published by the upstream feed.
type Location struct {
	ID                  int64  `gorm:"primaryKey"` // Upstream concept ID
	Name                string `gorm:"size:256;not null"`
	ShortDescription    string `gorm:"size:512"`
	Description         string `gorm:"type:text"`
	Address             string `gorm:"size:256"`
	URL                 string `gorm:"size:512"`
	MenuURL             string `gorm:"size:512"`
	AcceptsOnlineOrders bool
	// HoursValid is false when the published hours failed validation and
	// were dropped.
	HoursValid bool `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Associations
	Ranges []OpeningRange `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`
}

// OpeningRange is one weekly open interval, stored in minutes since Sunday
// 00:00 campus time.
type OpeningRange struct {
	ID          int64 `gorm:"primaryKey"`
	LocationID  int64 `gorm:"index;not null"`
	Seq         int   `gorm:"not null"`
	StartMinute int   `gorm:"not null"`
	EndMinute   int   `gorm:"not null"`
}

// TimeRange converts the row to the engine's representation.
func (r OpeningRange) TimeRange() schedule.TimeRange {
	return schedule.TimeRange{
		Start: schedule.WeekInstant(r.StartMinute),
		End:   schedule.WeekInstant(r.EndMinute),
	}
}

// Schedule returns the location's ranges in published order.
func (l Location) Schedule() []schedule.TimeRange {
	rows := slices.Clone(l.Ranges)
	slices.SortFunc(rows, func(a, b OpeningRange) int { return a.Seq - b.Seq })

	ranges := make([]schedule.TimeRange, len(rows))
	for i, row := range rows {
		ranges[i] = row.TimeRange()
	}
	return ranges
}

// Status evaluates the location at now. A schedule that fails validation
// degrades to "closed until further notice" and the error is returned for
// logging.
func (l Location) Status(now time.Time) (schedule.StatusResult, error) {
	result, err := schedule.Evaluate(l.Schedule(), now)
	if err != nil {
		return schedule.ClosedLongTerm(), err
	}
	return result, nil
}

// RangesFrom builds rows for a validated schedule.
func RangesFrom(locationID int64, ranges []schedule.TimeRange) []OpeningRange {
	rows := make([]OpeningRange, len(ranges))
	for i, r := range ranges {
		rows[i] = OpeningRange{
			LocationID:  locationID,
			Seq:         i,
			StartMinute: int(r.Start),
			EndMinute:   int(r.End),
		}
	}
	return rows
}
