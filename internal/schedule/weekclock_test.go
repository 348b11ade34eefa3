package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToWeekInstant(t *testing.T) {
	testCases := []struct {
		name      string
		day       int
		hour      int
		minute    int
		expected  WeekInstant
		expectErr bool
	}{
		{name: "Sunday midnight", day: 0, hour: 0, minute: 0, expected: 0},
		{name: "Monday 01:01", day: 1, hour: 1, minute: 1, expected: 1501},
		{name: "Last minute of the week", day: 6, hour: 23, minute: 59, expected: MinutesPerWeek - 1},
		{name: "Day too large", day: 7, expectErr: true},
		{name: "Negative day", day: -1, expectErr: true},
		{name: "Hour too large", day: 1, hour: 24, expectErr: true},
		{name: "Minute too large", day: 1, hour: 1, minute: 60, expectErr: true},
		{name: "Negative minute", day: 1, hour: 1, minute: -1, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := ToWeekInstant(tc.day, tc.hour, tc.minute)
			if tc.expectErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				var inputErr *InvalidInputError
				assert.ErrorAs(t, err, &inputErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, w)
			}
		})
	}
}

func TestWeekInstantOf_UsesCampusTimeZone(t *testing.T) {
	// 05:30 UTC on Monday 2024-01-08 is 00:30 Monday in New York.
	utc := time.Date(2024, time.January, 8, 5, 30, 45, 0, time.UTC)
	assert.Equal(t, WeekInstant(MinutesPerDay+30), WeekInstantOf(utc))

	// 03:00 UTC on Monday is still Sunday evening on campus.
	utc = time.Date(2024, time.January, 8, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, WeekInstant(22*MinutesPerHour), WeekInstantOf(utc))

	assert.Equal(t, WeekInstant(6*MinutesPerDay+23*MinutesPerHour+59), WeekInstantOf(at(6, 23, 59)))
}

func TestWeekInstant_Components(t *testing.T) {
	w, err := ToWeekInstant(3, 14, 5)
	assert.NoError(t, err)
	assert.Equal(t, time.Wednesday, w.Weekday())
	assert.Equal(t, 14, w.Hour())
	assert.Equal(t, 5, w.Minute())

	assert.Equal(t, time.Sunday, EndOfWeek.Weekday())
	assert.Equal(t, 0, EndOfWeek.Hour())
}

func TestMinutesUntil_Ring(t *testing.T) {
	samples := []WeekInstant{0, 1, 59, 60, 1439, 1440, 5000, MinutesPerWeek - 1}
	for _, a := range samples {
		assert.Equal(t, 0, MinutesUntil(a, a))
		for _, b := range samples {
			m := MinutesUntil(a, b)
			assert.GreaterOrEqual(t, m, 0)
			assert.Less(t, m, MinutesPerWeek)
			if a != b {
				assert.Equal(t, MinutesPerWeek, m+MinutesUntil(b, a), "distances around the ring should add up to a week")
			}
		}
	}

	assert.Equal(t, 1, MinutesUntil(0, MinutesPerWeek-1))
	assert.Equal(t, 1, MinutesUntil(EndOfWeek, MinutesPerWeek-1))
	assert.Equal(t, MinutesPerWeek-1, MinutesUntil(0, 1))
}
