package msg

import "time"

// TickMsg is sent once per refresh interval to drive the refresher.
type TickMsg time.Time

// RefreshedMsg signals that the refresher finished writing a batch of
// slots and the view should re-read the board.
type RefreshedMsg struct {
	Full bool
}

// SlotUpdatedMsg signals a single slot write that happened outside a
// refresh pass, such as a joke fetch landing.
type SlotUpdatedMsg struct {
	Slot string
}

// ConfigReloadedMsg carries the live-reloadable settings after the
// config file changed on disk.
type ConfigReloadedMsg struct {
	Theme    string
	ShowHelp bool
}

// ErrMsg wraps an error to be displayed in the UI.
type ErrMsg struct {
	Err error
}
