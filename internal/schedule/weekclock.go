// Package schedule evaluates recurring weekly opening hours.
//
// Every instant is reduced to a WeekInstant, the number of minutes elapsed
// since Sunday 00:00 in the campus time zone. The package never reads the
// wall clock; callers pass "now" explicitly.
package schedule

import (
	"time"
	_ "time/tzdata"
)

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
	MinutesPerWeek = 7 * MinutesPerDay

	// TimeZone pins wall-clock hours to the campus regardless of where the
	// viewer (or the server) is.
	TimeZone = "America/New_York"
)

var campus = mustLoadLocation(TimeZone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Location returns the time zone all week instants are expressed in.
func Location() *time.Location {
	return campus
}

// WeekInstant is a coordinate on the repeating weekly cycle, in minutes
// since Sunday 00:00. Valid instants are in [0, MinutesPerWeek); a range end
// may additionally equal MinutesPerWeek (see EndOfWeek).
type WeekInstant int

// EndOfWeek is the closing bound of a range that ends exactly at the
// following Sunday 00:00.
const EndOfWeek WeekInstant = MinutesPerWeek

// Moment is the legacy {day, hour, minute} form of a week instant.
type Moment struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ToWeekInstant converts weekday (Sunday = 0), hour and minute to a
// WeekInstant.
func ToWeekInstant(day, hour, minute int) (WeekInstant, error) {
	switch {
	case day < 0 || day > 6:
		return 0, invalidComponent("day", day, 6)
	case hour < 0 || hour > 23:
		return 0, invalidComponent("hour", hour, 23)
	case minute < 0 || minute > 59:
		return 0, invalidComponent("minute", minute, 59)
	}
	return WeekInstant(day*MinutesPerDay + hour*MinutesPerHour + minute), nil
}

// WeekInstant converts the legacy form.
func (m Moment) WeekInstant() (WeekInstant, error) {
	return ToWeekInstant(m.Day, m.Hour, m.Minute)
}

// WeekInstantOf maps an absolute instant to its position in the campus week.
// Seconds are dropped.
func WeekInstantOf(t time.Time) WeekInstant {
	local := t.In(campus)
	w, _ := ToWeekInstant(int(local.Weekday()), local.Hour(), local.Minute())
	return w
}

// MinutesUntil is the forward distance from one instant to another on the
// weekly ring. The result is always in [0, MinutesPerWeek).
func MinutesUntil(target, from WeekInstant) int {
	return ((int(target-from) % MinutesPerWeek) + MinutesPerWeek) % MinutesPerWeek
}

func (w WeekInstant) normalized() int {
	return ((int(w) % MinutesPerWeek) + MinutesPerWeek) % MinutesPerWeek
}

// Weekday of the instant; EndOfWeek reports Sunday.
func (w WeekInstant) Weekday() time.Weekday {
	return time.Weekday(w.normalized() / MinutesPerDay)
}

// Hour of day, 0-23.
func (w WeekInstant) Hour() int {
	return w.normalized() % MinutesPerDay / MinutesPerHour
}

// Minute of hour, 0-59.
func (w WeekInstant) Minute() int {
	return w.normalized() % MinutesPerHour
}

func (w WeekInstant) minuteOfDay() int {
	return w.normalized() % MinutesPerDay
}
