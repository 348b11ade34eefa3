package schedule

import (
	"cmp"
	"slices"
	"strings"
)

// DisplayEntry is what the location grid sorts on.
type DisplayEntry struct {
	Name   string
	Status StatusResult
}

// CompareDisplay orders locations for the grid. State priority comes first.
// Within OPEN and CLOSES_SOON the location that stays open longest sorts
// first (descending minutes); within OPENS_SOON and CLOSED the soonest to
// open sorts first (ascending minutes). Long-term closures fall back to name.
func CompareDisplay(a, b DisplayEntry) int {
	if a.Status.State != b.Status.State {
		return cmp.Compare(a.Status.State, b.Status.State)
	}
	if a.Status.ClosedLongTerm || b.Status.ClosedLongTerm {
		return strings.Compare(a.Name, b.Name)
	}
	switch a.Status.State {
	case StateOpen, StateClosesSoon:
		return cmp.Compare(b.Status.MinutesUntilChange, a.Status.MinutesUntilChange)
	default:
		return cmp.Compare(a.Status.MinutesUntilChange, b.Status.MinutesUntilChange)
	}
}

// SortForDisplay sorts entries in place; equal entries keep their order.
func SortForDisplay(entries []DisplayEntry) {
	slices.SortStableFunc(entries, CompareDisplay)
}
