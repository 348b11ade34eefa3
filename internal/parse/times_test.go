package parse

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-status-backend/internal/schedule"
)

func decode(t *testing.T, body string) []RawRange {
	t.Helper()
	var raws []RawRange
	require.NoError(t, json.Unmarshal([]byte(body), &raws))
	return raws
}

func epochMs(day, hour, minute int) int64 {
	// Week of Sunday 2024-01-07 on campus.
	return time.Date(2024, time.January, 7+day, hour, minute, 0, 0, schedule.Location()).UnixMilli()
}

func TestRanges_LegacyForm(t *testing.T) {
	raws := decode(t, `[
		{"start": {"day": 1, "hour": 7, "minute": 30}, "end": {"day": 1, "hour": 10, "minute": 0}},
		{"start": {"day": 6, "hour": 23, "minute": 0}, "end": {"day": 0, "hour": 1, "minute": 0}}
	]`)

	ranges, err := Ranges(raws)
	require.NoError(t, err)
	assert.Equal(t, []schedule.TimeRange{
		{Start: 1440 + 450, End: 1440 + 600},
		{Start: 6*1440 + 1380, End: 60},
	}, ranges)
	assert.True(t, schedule.IsValidSchedule(ranges))
}

func TestRanges_EpochFormIsPutInWeekOrder(t *testing.T) {
	// Listed from Thursday onwards, as the feed publishes them.
	body := fmt.Sprintf(`[
		{"start": %d, "end": %d},
		{"start": %d, "end": %d},
		{"start": %d, "end": %d}
	]`,
		epochMs(4, 8, 0), epochMs(4, 20, 0),
		epochMs(6, 10, 0), epochMs(6, 14, 0),
		epochMs(8, 8, 0), epochMs(8, 20, 0), // next Monday
	)

	ranges, err := Ranges(decode(t, body))
	require.NoError(t, err)
	require.Len(t, ranges, 3)
	assert.Equal(t, schedule.WeekInstant(1440+480), ranges[0].Start)
	assert.Equal(t, schedule.WeekInstant(4*1440+480), ranges[1].Start)
	assert.Equal(t, schedule.WeekInstant(6*1440+600), ranges[2].Start)
	assert.True(t, schedule.IsValidSchedule(ranges))
}

func TestRanges_EpochClosingAtSundayMidnight(t *testing.T) {
	body := fmt.Sprintf(`[{"start": %d, "end": %d}]`, epochMs(6, 0, 0), epochMs(7, 0, 0))

	ranges, err := Ranges(decode(t, body))
	require.NoError(t, err)
	assert.Equal(t, schedule.EndOfWeek, ranges[0].End)
}

func TestRanges_EpochFullWeekIsAlwaysOpen(t *testing.T) {
	wednesdayNoon := time.Date(2024, time.June, 5, 12, 0, 0, 0, schedule.Location())
	testCases := []struct {
		name       string
		start, end time.Time
	}{
		{"sunday to sunday", time.Date(2024, time.June, 2, 0, 0, 0, 0, schedule.Location()), time.Date(2024, time.June, 9, 0, 0, 0, 0, schedule.Location())},
		{"monday to monday", time.Date(2024, time.June, 3, 0, 0, 0, 0, schedule.Location()), time.Date(2024, time.June, 10, 0, 0, 0, 0, schedule.Location())},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := fmt.Sprintf(`[{"start": %d, "end": %d}]`, tc.start.UnixMilli(), tc.end.UnixMilli())

			ranges, err := Ranges(decode(t, body))
			require.NoError(t, err)
			require.Len(t, ranges, 1)
			assert.Equal(t, schedule.TimeRange{Start: 0, End: schedule.EndOfWeek}, ranges[0])

			result, err := schedule.Evaluate(ranges, wednesdayNoon)
			require.NoError(t, err)
			assert.True(t, result.IsOpen)
			assert.Equal(t, schedule.StateOpen, result.State)
			assert.Equal(t, "Open 24/7", result.Message.Long)
		})
	}
}

func TestRanges_Errors(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "Missing end", body: `[{"start": {"day": 1, "hour": 1, "minute": 0}}]`},
		{name: "Mixed forms", body: fmt.Sprintf(`[{"start": {"day": 1, "hour": 1, "minute": 0}, "end": %d}]`, epochMs(1, 2, 0))},
		{name: "Out of range hour", body: `[{"start": {"day": 1, "hour": 24, "minute": 0}, "end": {"day": 1, "hour": 2, "minute": 0}}]`},
		{name: "Epoch end before start", body: fmt.Sprintf(`[{"start": %d, "end": %d}]`, epochMs(1, 9, 0), epochMs(1, 8, 0))},
		{name: "Not a number", body: `[{"start": "9am", "end": "5pm"}]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Ranges(decode(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestRanges_OutOfRangeIsInvalidInput(t *testing.T) {
	_, err := Ranges(decode(t, `[{"start": {"day": 9, "hour": 1, "minute": 0}, "end": {"day": 1, "hour": 2, "minute": 0}}]`))
	assert.True(t, errors.Is(err, schedule.ErrInvalidInput))
}

func TestRanges_Empty(t *testing.T) {
	ranges, err := Ranges(nil)
	require.NoError(t, err)
	assert.Empty(t, ranges)
}
