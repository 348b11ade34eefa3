package schedule

import "time"

// Contains reports whether the instant falls inside the range, both ends
// inclusive.
func (r TimeRange) Contains(at WeekInstant) bool {
	if r.Wraps() {
		return at >= r.Start || at <= r.End
	}
	return at >= r.Start && at <= r.End
}

// CurrentlyOpen reports whether now falls inside the range.
func CurrentlyOpen(r TimeRange, now time.Time) bool {
	return r.Contains(WeekInstantOf(now))
}

// FindGoverningRange returns the range that is open at now or, failing that,
// the next one to open. After the last range of the week it wraps to the
// first. ok is false only for an empty schedule.
//
// The schedule must have passed Validate.
func FindGoverningRange(ranges []TimeRange, now time.Time) (TimeRange, bool) {
	return governingAt(ranges, WeekInstantOf(now))
}

func governingAt(ranges []TimeRange, at WeekInstant) (TimeRange, bool) {
	if len(ranges) == 0 {
		return TimeRange{}, false
	}
	for _, r := range ranges {
		if r.Contains(at) {
			return r, true
		}
	}
	// A wrapping last range can be open before the first range starts, so
	// upcoming ranges are only considered once nothing is open.
	for _, r := range ranges {
		if r.Start > at {
			return r, true
		}
	}
	return ranges[0], true
}
