package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dining-status-backend/internal/model"
	"dining-status-backend/internal/schedule"
)

// ErrNotFound is returned when a location does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all database operations.
type Store interface {
	UpsertLocations(ctx context.Context, items []FeedLocation) error
	ListLocations(ctx context.Context) ([]model.Location, error)
	GetLocation(ctx context.Context, id int64) (model.Location, error)
	RecordStatuses(ctx context.Context, now time.Time, statuses map[int64]schedule.StatusResult) ([]StatusChange, error)
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ListLocations returns every location with its opening ranges.
func (s *gormStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	if err := s.db.WithContext(ctx).Preload("Ranges").Order("id").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// GetLocation returns one location with its opening ranges.
func (s *gormStore) GetLocation(ctx context.Context, id int64) (model.Location, error) {
	var location model.Location
	err := s.db.WithContext(ctx).Preload("Ranges").First(&location, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Location{}, ErrNotFound
	}
	if err != nil {
		return model.Location{}, fmt.Errorf("failed to get location %d: %w", id, err)
	}
	return location, nil
}

// RecordStatuses compares the freshly evaluated statuses with the stored
// current states, archives every state that ended and returns the changes.
func (s *gormStore) RecordStatuses(ctx context.Context, now time.Time, statuses map[int64]schedule.StatusResult) ([]StatusChange, error) {
	currentRecords, err := s.fetchAllOpenStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current status records: %w", err)
	}

	ids := make([]int64, 0, len(statuses))
	for id := range statuses {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var changes []StatusChange
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			status := statuses[id]
			oldRecord, exists := currentRecords[id]
			delete(currentRecords, id)

			if !exists {
				record := prepareStatus(id, status, now)
				if err := tx.Create(&record).Error; err != nil {
					return fmt.Errorf("failed to create status record for location %d: %w", id, err)
				}
				continue
			}
			if oldRecord.State == status.State.String() {
				continue
			}

			if err := archiveRecord(tx, oldRecord, now); err != nil {
				return err
			}
			record := prepareStatus(id, status, now)
			if err := tx.Save(&record).Error; err != nil {
				return fmt.Errorf("failed to update status record for location %d: %w", id, err)
			}

			var from schedule.LocationState
			if err := from.UnmarshalText([]byte(oldRecord.State)); err != nil {
				from = schedule.StateClosedLongTerm
			}
			changes = append(changes, StatusChange{LocationID: id, From: from, To: status.State})
		}

		// Locations that vanished from the feed.
		for _, remaining := range currentRecords {
			if err := archiveRecord(tx, remaining, now); err != nil {
				return err
			}
			if err := tx.Delete(&model.LocationStatusOpen{}, remaining.LocationID).Error; err != nil {
				return fmt.Errorf("failed to delete status record for location %d: %w", remaining.LocationID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// archiveRecord moves a finished state into the history table.
func archiveRecord(tx *gorm.DB, record model.LocationStatusOpen, observedAt time.Time) error {
	// The predicted change time bounds the period when it was known and
	// consistent; otherwise the state ended when we noticed.
	periodEnd := observedAt
	if record.ChangesAt != nil && record.ChangesAt.After(record.ObservedAt) && record.ChangesAt.Before(observedAt) {
		periodEnd = *record.ChangesAt
	}

	history := model.LocationStatusHistory{
		LocationID:  record.LocationID,
		ObservedAt:  observedAt,
		State:       record.State,
		Message:     record.Message,
		PeriodStart: record.ObservedAt,
		PeriodEnd:   periodEnd,
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to archive status record for location %d: %w", record.LocationID, err)
	}
	return nil
}

func prepareStatus(id int64, status schedule.StatusResult, now time.Time) model.LocationStatusOpen {
	return model.LocationStatusOpen{
		LocationID: id,
		ObservedAt: now,
		State:      status.State.String(),
		Message:    status.Message.Long,
		ChangesAt:  status.ChangesAt,
	}
}

func (s *gormStore) fetchAllOpenStatuses(ctx context.Context) (map[int64]model.LocationStatusOpen, error) {
	var records []model.LocationStatusOpen
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	recordMap := make(map[int64]model.LocationStatusOpen, len(records))
	for _, r := range records {
		recordMap[r.LocationID] = r
	}
	return recordMap, nil
}

// UpsertLocations writes location metadata and replaces the opening ranges
// of every location whose data changed.
func (s *gormStore) UpsertLocations(ctx context.Context, items []FeedLocation) error {
	existing, err := s.ListLocations(ctx)
	if err != nil {
		return err
	}
	existingMap := make(map[int64]model.Location, len(existing))
	for _, l := range existing {
		existingMap[l.ID] = l
	}

	var toUpsert []model.Location
	for _, item := range items {
		location, needsUpsert := prepareLocation(item, existingMap)
		if needsUpsert {
			toUpsert = append(toUpsert, location)
		}
	}
	if len(toUpsert) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return batchUpsertLocations(tx, toUpsert)
	})
}

func prepareLocation(item FeedLocation, existing map[int64]model.Location) (model.Location, bool) {
	location := model.Location{
		ID:                  item.ConceptID,
		Name:                item.Name,
		ShortDescription:    item.ShortDescription,
		Description:         item.Description,
		Address:             item.Location,
		URL:                 item.URL,
		MenuURL:             item.Menu,
		AcceptsOnlineOrders: item.AcceptsOnlineOrders,
		HoursValid:          item.HoursValid,
		Ranges:              model.RangesFrom(item.ConceptID, item.Ranges),
	}

	if old, ok := existing[location.ID]; ok {
		if old.Name == location.Name &&
			old.ShortDescription == location.ShortDescription &&
			old.Description == location.Description &&
			old.Address == location.Address &&
			old.URL == location.URL &&
			old.MenuURL == location.MenuURL &&
			old.AcceptsOnlineOrders == location.AcceptsOnlineOrders &&
			old.HoursValid == location.HoursValid &&
			slices.Equal(old.Schedule(), item.Ranges) {
			return location, false
		}
	}
	return location, true
}

func batchUpsertLocations(tx *gorm.DB, locations []model.Location) error {
	ids := make([]int64, len(locations))
	var ranges []model.OpeningRange
	for i := range locations {
		ids[i] = locations[i].ID
		ranges = append(ranges, locations[i].Ranges...)
		locations[i].Ranges = nil
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "short_description", "description", "address", "url", "menu_url",
			"accepts_online_orders", "hours_valid", "updated_at",
		}),
	}).Create(&locations).Error; err != nil {
		return fmt.Errorf("batch upsert locations failed: %w", err)
	}

	if err := tx.Where("location_id IN ?", ids).Delete(&model.OpeningRange{}).Error; err != nil {
		return fmt.Errorf("failed to clear opening ranges: %w", err)
	}
	if len(ranges) > 0 {
		if err := tx.Create(&ranges).Error; err != nil {
			return fmt.Errorf("failed to insert opening ranges: %w", err)
		}
	}
	return nil
}
