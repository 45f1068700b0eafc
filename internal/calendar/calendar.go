// Package calendar holds the target dates the dashboard counts down to
// and the day arithmetic behind the countdowns.
package calendar

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the format of target dates in content packs.
const DateLayout = "2006-01-02"

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// Target is a named calendar date, such as a public holiday.
type Target struct {
	Label string
	Date  time.Time
}

// String returns the target as "label (YYYY-MM-DD)".
func (t Target) String() string {
	return fmt.Sprintf("%s (%s)", t.Label, t.Date.Format(DateLayout))
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC, the instant a
// date-only ISO string denotes.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DefaultTargets returns the built-in holiday table for the 2024/2025
// cycle, in display order.
func DefaultTargets() []Target {
	return []Target{
		{Label: "端午", Date: utcDate(2024, time.June, 10)},
		{Label: "中秋", Date: utcDate(2024, time.September, 17)},
		{Label: "国庆", Date: utcDate(2024, time.October, 1)},
		{Label: "元旦", Date: utcDate(2025, time.January, 1)},
		{Label: "除夕", Date: utcDate(2025, time.January, 29)},
	}
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns ceil((target - now) / 1 day) computed on milliseconds.
// The result is negative once the target has passed.
func DaysUntil(target, now time.Time) int {
	diff := target.Sub(now).Milliseconds()
	return int(math.Ceil(float64(diff) / float64(dayMillis)))
}

// WeekendCountdown returns (6 - weekday + 7) mod 7 with Sunday=0..Saturday=6,
// the number of days until Saturday. It is 0 on Saturday.
func WeekendCountdown(now time.Time) int {
	return (6 - int(now.Weekday()) + 7) % 7
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
