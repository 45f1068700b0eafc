package dashboard

import (
	"slices"
	"strings"
	"time"

	"github.com/Iron-Ham/moyu/internal/calendar"
)

// Slot names.
const (
	SlotDate        = "date"
	SlotWeekend     = "weekend"
	SlotFact        = "fact"
	SlotTip         = "tip"
	SlotJoke        = "joke"
	SlotRecommended = "recommended"
	SlotDiscouraged = "discouraged"
	SlotWorkout     = "workout"
)

// TargetPrefix prefixes the slot name of every target date countdown.
const TargetPrefix = "target/"

// TargetSlot returns the slot name for the countdown to label.
func TargetSlot(label string) string {
	return TargetPrefix + label
}

// TargetLabel returns the label of a target slot name and whether name
// is one.
func TargetLabel(name string) (string, bool) {
	return strings.CutPrefix(name, TargetPrefix)
}

// SlotOrder returns the display order of all slots for the given targets.
func SlotOrder(targets []calendar.Target) []string {
	order := make([]string, 0, 8+len(targets))
	order = append(order, SlotDate, SlotWeekend)
	for _, t := range targets {
		order = append(order, TargetSlot(t.Label))
	}
	return append(order, SlotFact, SlotTip, SlotJoke, SlotRecommended, SlotDiscouraged, SlotWorkout)
}

// Slot is one independently updatable display value.
type Slot struct {
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Items     []string  `json:"items,omitempty"`
	Visible   bool      `json:"visible"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s Slot) clone() Slot {
	s.Items = slices.Clone(s.Items)
	return s
}
