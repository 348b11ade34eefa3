package parse

import (
	"bytes"
	"fmt"
	"slices"
	"time"

	"github.com/goccy/go-json"

	"dining-status-backend/internal/schedule"
)

// RawRange is one element of a location's "times" array. Each endpoint is
// either a legacy {day, hour, minute} object or epoch milliseconds.
type RawRange struct {
	Start json.RawMessage `json:"start"`
	End   json.RawMessage `json:"end"`
}

type endpoint struct {
	moment  schedule.Moment
	instant time.Time
	isEpoch bool
}

func parseEndpoint(raw json.RawMessage) (endpoint, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return endpoint{}, fmt.Errorf("missing endpoint")
	}

	if trimmed[0] == '{' {
		var m schedule.Moment
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return endpoint{}, fmt.Errorf("invalid {day,hour,minute} endpoint %s: %w", trimmed, err)
		}
		return endpoint{moment: m}, nil
	}

	var ms int64
	if err := json.Unmarshal(trimmed, &ms); err != nil {
		return endpoint{}, fmt.Errorf("invalid epoch-millisecond endpoint %s: %w", trimmed, err)
	}
	return endpoint{instant: time.UnixMilli(ms), isEpoch: true}, nil
}

// Range converts one raw range. Both endpoints must use the same form.
func Range(raw RawRange) (schedule.TimeRange, bool, error) {
	start, err := parseEndpoint(raw.Start)
	if err != nil {
		return schedule.TimeRange{}, false, fmt.Errorf("start: %w", err)
	}
	end, err := parseEndpoint(raw.End)
	if err != nil {
		return schedule.TimeRange{}, false, fmt.Errorf("end: %w", err)
	}
	if start.isEpoch != end.isEpoch {
		return schedule.TimeRange{}, false, fmt.Errorf("start and end use different forms")
	}

	if start.isEpoch {
		if end.instant.Before(start.instant) {
			return schedule.TimeRange{}, true, fmt.Errorf("end %s precedes start %s", end.instant, start.instant)
		}
		return schedule.RangeFromTimes(start.instant, end.instant), true, nil
	}
	r, err := schedule.NewRange(start.moment, end.moment)
	return r, false, err
}

// Ranges converts a whole "times" array. Epoch-millisecond entries are dated
// intervals listed from today onwards, so when every entry uses that form
// the result is re-ordered into week order. Legacy entries keep their order
// and are left for schedule.Validate to judge.
func Ranges(raws []RawRange) ([]schedule.TimeRange, error) {
	ranges := make([]schedule.TimeRange, 0, len(raws))
	allEpoch := len(raws) > 0
	for i, raw := range raws {
		r, isEpoch, err := Range(raw)
		if err != nil {
			return nil, fmt.Errorf("times[%d]: %w", i, err)
		}
		allEpoch = allEpoch && isEpoch
		ranges = append(ranges, r)
	}

	if allEpoch {
		slices.SortStableFunc(ranges, func(a, b schedule.TimeRange) int {
			return int(a.Start - b.Start)
		})
	}
	return ranges, nil
}
