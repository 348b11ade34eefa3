package schedule

import "time"

// TimeRange is one contiguous open interval of the weekly cycle. A range
// whose End is numerically before its Start wraps past Saturday midnight.
type TimeRange struct {
	Start WeekInstant `json:"start"`
	End   WeekInstant `json:"end"`
}

// NewRange builds a range from two legacy moments.
func NewRange(start, end Moment) (TimeRange, error) {
	s, err := start.WeekInstant()
	if err != nil {
		return TimeRange{}, err
	}
	e, err := end.WeekInstant()
	if err != nil {
		return TimeRange{}, err
	}
	return normalizeEnd(TimeRange{Start: s, End: e}), nil
}

// RangeFromTimes builds a range from two absolute instants, such as the
// epoch-millisecond intervals published by the upstream feed. An interval
// spanning a full calendar week or more covers the whole cycle.
func RangeFromTimes(start, end time.Time) TimeRange {
	if !end.In(campus).Before(start.In(campus).AddDate(0, 0, 7)) {
		return TimeRange{Start: 0, End: EndOfWeek}
	}
	return normalizeEnd(TimeRange{Start: WeekInstantOf(start), End: WeekInstantOf(end)})
}

// A close at exactly Sunday 00:00 belongs to the week that is ending, so the
// range does not wrap and the following Sunday midnight is not "open".
func normalizeEnd(r TimeRange) TimeRange {
	if r.End == 0 && r.Start != 0 {
		r.End = EndOfWeek
	}
	return r
}

// Wraps reports whether the range crosses the end of the week.
func (r TimeRange) Wraps() bool {
	return r.End < r.Start
}

// Duration is the length of the range in minutes.
func (r TimeRange) Duration() int {
	if r.End == EndOfWeek {
		return int(r.End - r.Start)
	}
	return MinutesUntil(r.End, r.Start)
}

func validInstant(w WeekInstant, isEnd bool) bool {
	if isEnd && w == EndOfWeek {
		return true
	}
	return w >= 0 && w < MinutesPerWeek
}

// IsValidRange checks both endpoints and, unless allowWrap is set, that the
// range does not cross the end of the week.
func IsValidRange(r TimeRange, allowWrap bool) bool {
	return checkRange(r, allowWrap) == nil
}

func checkRange(r TimeRange, allowWrap bool) error {
	if !validInstant(r.Start, false) {
		return invalidComponent("start", int(r.Start), MinutesPerWeek-1)
	}
	if !validInstant(r.End, true) {
		return invalidComponent("end", int(r.End), MinutesPerWeek)
	}
	if !allowWrap && r.Wraps() {
		return invalidSchedule("range %d-%d wraps but is not the last range", r.Start, r.End)
	}
	return nil
}

// IsValidSchedule reports whether the ranges describe one predictable weekly
// cycle. An empty schedule is valid and means "no published hours".
func IsValidSchedule(ranges []TimeRange) bool {
	return Validate(ranges) == nil
}

// Validate returns an InvalidInputError describing the first broken rule:
// ranges sorted by start, strictly non-overlapping (touching counts as
// overlap), only the last may wrap, and a wrapping last range must end
// strictly before the first range starts.
func Validate(ranges []TimeRange) error {
	for i, r := range ranges {
		last := i == len(ranges)-1
		if err := checkRange(r, last); err != nil {
			return err
		}
		if i > 0 && ranges[i-1].End >= r.Start {
			return invalidSchedule("range %d starts at %d, not after previous end %d", i, r.Start, ranges[i-1].End)
		}
	}
	if n := len(ranges); n > 0 {
		last := ranges[n-1]
		if last.Wraps() && last.End >= ranges[0].Start {
			return invalidSchedule("wrapping range ends at %d, not before first start %d", last.End, ranges[0].Start)
		}
	}
	return nil
}
