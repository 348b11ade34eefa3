package store

import (
	"dining-status-backend/internal/parse"
	"dining-status-backend/internal/schedule"
)

// FeedLocation is a single location record from the upstream feed.
type FeedLocation struct {
	ConceptID           int64            `json:"conceptId"`
	Name                string           `json:"name"`
	ShortDescription    string           `json:"shortDescription"`
	Description         string           `json:"description"`
	Location            string           `json:"location"`
	URL                 string           `json:"url"`
	Menu                string           `json:"menu"`
	AcceptsOnlineOrders bool             `json:"acceptsOnlineOrders"`
	Times               []parse.RawRange `json:"times"`

	// Filled in by the feed after parsing and validating Times.
	Ranges     []schedule.TimeRange `json:"-"`
	HoursValid bool                 `json:"-"`
}

// StatusChange is a location whose display state changed in a poll.
type StatusChange struct {
	LocationID int64
	From       schedule.LocationState
	To         schedule.LocationState
}

// Notifies reports whether subscribers should hear about the change: the
// location is about to open, or opened without passing through OPENS_SOON.
func (c StatusChange) Notifies() bool {
	switch c.To {
	case schedule.StateOpensSoon:
		return true
	case schedule.StateOpen:
		return c.From == schedule.StateClosed || c.From == schedule.StateClosedLongTerm
	}
	return false
}
