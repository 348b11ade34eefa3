package schedule

import (
	"fmt"
	"time"
)

// ChangesSoonThreshold is the inclusive number of minutes within which a
// transition counts as "soon".
const ChangesSoonThreshold = 60

// alwaysOpenMinDuration is the length from which a single range is treated
// as open around the clock.
const alwaysOpenMinDuration = 6 * MinutesPerDay

// LocationState doubles as display priority: lower values sort first.
type LocationState int

const (
	StateOpen LocationState = iota
	StateClosesSoon
	StateOpensSoon
	StateClosed
	StateClosedLongTerm
)

var stateNames = [...]string{
	StateOpen:           "OPEN",
	StateClosesSoon:     "CLOSES_SOON",
	StateOpensSoon:      "OPENS_SOON",
	StateClosed:         "CLOSED",
	StateClosedLongTerm: "CLOSED_LONG_TERM",
}

func (s LocationState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("LocationState(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s LocationState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *LocationState) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = LocationState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown location state %q", b)
}

// StatusMessage is the rendered status in long and two-part short form.
type StatusMessage struct {
	Long  string    `json:"longStatus"`
	Short [2]string `json:"shortStatus"`
}

// StatusResult is the full evaluation of one location at one instant.
type StatusResult struct {
	IsOpen             bool          `json:"isOpen"`
	ClosedLongTerm     bool          `json:"closedLongTerm"`
	MinutesUntilChange int           `json:"minutesUntilChange"`
	ChangesSoon        bool          `json:"changesSoon"`
	State              LocationState `json:"locationState"`
	ChangesAt          *time.Time    `json:"changesAt,omitempty"`
	Message            StatusMessage `json:"statusMessage"`
}

const (
	closedLongTermMessage = "Closed until further notice"
	alwaysOpenMessage     = "Open 24/7"
)

// ClosedLongTerm is the result for a location without published hours.
func ClosedLongTerm() StatusResult {
	return StatusResult{
		ClosedLongTerm: true,
		State:          StateClosedLongTerm,
		Message: StatusMessage{
			Long:  closedLongTermMessage,
			Short: [2]string{closedLongTermMessage, ""},
		},
	}
}

func alwaysOpen() StatusResult {
	return StatusResult{
		IsOpen:             true,
		MinutesUntilChange: MinutesPerWeek,
		State:              StateOpen,
		Message: StatusMessage{
			Long:  alwaysOpenMessage,
			Short: [2]string{alwaysOpenMessage, ""},
		},
	}
}

// Evaluate validates the schedule and classifies it at now. An invalid
// schedule yields an InvalidInputError; callers usually degrade such a
// location to ClosedLongTerm.
func Evaluate(ranges []TimeRange, now time.Time) (StatusResult, error) {
	if err := Validate(ranges); err != nil {
		return StatusResult{}, err
	}
	if len(ranges) == 1 && !ranges[0].Wraps() && ranges[0].Duration() >= alwaysOpenMinDuration {
		return alwaysOpen(), nil
	}
	rng, ok := FindGoverningRange(ranges, now)
	if !ok {
		return ClosedLongTerm(), nil
	}
	return Classify(&rng, now), nil
}

// Classify derives the status from the governing range. A nil range means
// the location has no hours at all.
func Classify(rng *TimeRange, now time.Time) StatusResult {
	if rng == nil {
		return ClosedLongTerm()
	}
	at := WeekInstantOf(now)
	isOpen := rng.Contains(at)
	next := rng.Start
	if isOpen {
		next = rng.End
	}
	minutes := MinutesUntil(next, at)
	soon := minutes <= ChangesSoonThreshold
	changesAt := transitionTime(now, minutes)

	return StatusResult{
		IsOpen:             isOpen,
		MinutesUntilChange: minutes,
		ChangesSoon:        soon,
		State:              stateFor(isOpen, soon),
		ChangesAt:          &changesAt,
		Message:            FormatStatus(isOpen, minutes, next, at),
	}
}

func stateFor(isOpen, soon bool) LocationState {
	switch {
	case isOpen && soon:
		return StateClosesSoon
	case isOpen:
		return StateOpen
	case soon:
		return StateOpensSoon
	default:
		return StateClosed
	}
}

// transitionTime walks the wall clock forward so the result stays on the
// published hour across daylight-saving changes.
func transitionTime(now time.Time, minutes int) time.Time {
	local := now.In(campus)
	total := local.Hour()*MinutesPerHour + local.Minute() + minutes
	return time.Date(local.Year(), local.Month(), local.Day()+total/MinutesPerDay,
		total%MinutesPerDay/MinutesPerHour, total%MinutesPerHour, 0, 0, campus)
}
