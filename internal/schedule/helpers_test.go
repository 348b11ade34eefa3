package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// at returns wall-clock time in the week starting Sunday 2024-01-07 (EST).
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, 7+day, hour, minute, 0, 0, Location())
}

func mustRange(t *testing.T, start, end Moment) TimeRange {
	t.Helper()
	r, err := NewRange(start, end)
	require.NoError(t, err)
	return r
}
