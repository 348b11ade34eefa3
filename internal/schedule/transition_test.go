package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentlyOpen_WrappingRange(t *testing.T) {
	lateNight := mustRange(t, Moment{Day: 6, Hour: 23}, Moment{Day: 0, Hour: 1})

	assert.True(t, CurrentlyOpen(lateNight, at(0, 0, 30)))
	assert.True(t, CurrentlyOpen(lateNight, at(6, 23, 0)))
	assert.True(t, CurrentlyOpen(lateNight, at(0, 1, 0)), "end is inclusive")
	assert.False(t, CurrentlyOpen(lateNight, at(6, 22, 0)))
	assert.False(t, CurrentlyOpen(lateNight, at(0, 1, 1)))
}

func TestCurrentlyOpen_PlainRange(t *testing.T) {
	lunch := mustRange(t, Moment{Day: 2, Hour: 11}, Moment{Day: 2, Hour: 14})

	assert.True(t, CurrentlyOpen(lunch, at(2, 11, 0)), "start is inclusive")
	assert.True(t, CurrentlyOpen(lunch, at(2, 14, 0)), "end is inclusive")
	assert.False(t, CurrentlyOpen(lunch, at(2, 10, 59)))
	assert.False(t, CurrentlyOpen(lunch, at(3, 12, 0)))
}

func TestFindGoverningRange(t *testing.T) {
	monday := mustRange(t, Moment{Day: 1, Hour: 9}, Moment{Day: 1, Hour: 17})
	wednesday := mustRange(t, Moment{Day: 3, Hour: 9}, Moment{Day: 3, Hour: 17})
	lateNight := mustRange(t, Moment{Day: 6, Hour: 23}, Moment{Day: 0, Hour: 1})
	week := []TimeRange{monday, wednesday, lateNight}

	testCases := []struct {
		name     string
		now      [3]int
		expected TimeRange
	}{
		{name: "Open range wins", now: [3]int{1, 12, 0}, expected: monday},
		{name: "Between ranges picks the next start", now: [3]int{2, 8, 0}, expected: wednesday},
		{name: "Wrapped range open before the first start", now: [3]int{0, 0, 30}, expected: lateNight},
		{name: "Wrapped range open at its start", now: [3]int{6, 23, 30}, expected: lateNight},
		{name: "Before the first range of the week", now: [3]int{0, 5, 0}, expected: monday},
		{name: "After the last range cycles to the first", now: [3]int{6, 10, 0}, expected: lateNight},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, ok := FindGoverningRange(week, at(tc.now[0], tc.now[1], tc.now[2]))
			assert.True(t, ok)
			assert.Equal(t, tc.expected, r)
		})
	}
}

func TestFindGoverningRange_WrapsToNextWeek(t *testing.T) {
	monday := mustRange(t, Moment{Day: 1, Hour: 9}, Moment{Day: 1, Hour: 17})
	friday := mustRange(t, Moment{Day: 5, Hour: 9}, Moment{Day: 5, Hour: 17})

	r, ok := FindGoverningRange([]TimeRange{monday, friday}, at(6, 12, 0))
	assert.True(t, ok)
	assert.Equal(t, monday, r)
}

func TestFindGoverningRange_Empty(t *testing.T) {
	_, ok := FindGoverningRange(nil, at(1, 0, 0))
	assert.False(t, ok)
}
