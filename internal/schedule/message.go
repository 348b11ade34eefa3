package schedule

import (
	"fmt"
	"math"
)

// ApproximateDuration coarsens a minute count for display: minutes below an
// hour, rounded hours below a day, rounded days beyond. Zero reads as
// "0 minutes", which callers render as "now".
func ApproximateDuration(minutes int) string {
	switch {
	case minutes < MinutesPerHour:
		return plural(minutes, "minute")
	case minutes < MinutesPerDay:
		return plural(roundDiv(minutes, MinutesPerHour), "hour")
	default:
		return plural(roundDiv(minutes, MinutesPerDay), "day")
	}
}

func roundDiv(n, d int) int {
	return int(math.Round(float64(n) / float64(d)))
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatClock renders a 12-hour clock time such as "9:05 PM".
func FormatClock(hour, minute int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, suffix)
}

// dayLabel names the day of a transition minutes ahead of at. Midnight at
// the end of a day still belongs to that day.
func dayLabel(minutes int, next, at WeekInstant) string {
	remainingToday := MinutesPerDay - at.minuteOfDay()
	if minutes <= remainingToday {
		return "today"
	}
	days := (minutes - remainingToday + MinutesPerDay - 1) / MinutesPerDay
	if days == 1 {
		return "tomorrow"
	}
	weekday := next.Weekday()
	if weekday == at.Weekday() {
		return "in a week on " + weekday.String()
	}
	return weekday.String()
}

// FormatStatus renders the countdown to the next transition, e.g.
// "Closes in 2 hours (today at 9:00 PM)".
func FormatStatus(isOpen bool, minutes int, next, at WeekInstant) StatusMessage {
	action := "Opens"
	if isOpen {
		action = "Closes"
	}
	clock := FormatClock(next.Hour(), next.Minute())
	if minutes == 0 {
		headline := action + " now"
		return StatusMessage{
			Long:  fmt.Sprintf("%s (today at %s)", headline, clock),
			Short: [2]string{headline, ""},
		}
	}

	headline := fmt.Sprintf("%s in %s", action, ApproximateDuration(minutes))
	return StatusMessage{
		Long:  fmt.Sprintf("%s (%s at %s)", headline, dayLabel(minutes, next, at), clock),
		Short: [2]string{headline, "at " + clock},
	}
}
