// Package workout computes the end-of-work-day countdown.
package workout

import (
	"time"

	"github.com/Iron-Ham/moyu/internal/calendar"
)

// State is whether the countdown is shown.
type State int

const (
	// Hidden is the state outside working hours and on weekends.
	Hidden State = iota
	// Visible is the state on weekdays between the start and end hour.
	Visible
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	default:
		return "unknown"
	}
}

// Default working hours.
const (
	DefaultStartHour = 9
	DefaultEndHour   = 18
)

// Schedule is a working day. The countdown is visible from StartHour up to,
// but not including, EndHour and counts down to EndHour:00:00.
type Schedule struct {
	StartHour int
	EndHour   int
}

// DefaultSchedule returns the 9:00 to 18:00 schedule.
func DefaultSchedule() Schedule {
	return Schedule{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
}

// Status is the result of evaluating a Schedule at an instant.
// The time fields are zero when State is Hidden.
type Status struct {
	State     State
	Remaining time.Duration
	Hours     int
	Minutes   int
	Seconds   int
}

// Evaluate returns the countdown status at now, in now's location.
func (s Schedule) Evaluate(now time.Time) Status {
	if calendar.IsWeekend(now) {
		return Status{State: Hidden}
	}
	if h := now.Hour(); h < s.StartHour || h >= s.EndHour {
		return Status{State: Hidden}
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), s.EndHour, 0, 0, 0, now.Location())
	remaining := end.Sub(now)
	ms := remaining.Milliseconds()

	return Status{
		State:     Visible,
		Remaining: remaining,
		Hours:     int(ms/int64(time.Hour/time.Millisecond)) % 24,
		Minutes:   int(ms/int64(time.Minute/time.Millisecond)) % 60,
		Seconds:   int(ms/int64(time.Second/time.Millisecond)) % 60,
	}
}
