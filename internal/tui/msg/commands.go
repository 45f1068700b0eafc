// Package msg provides command factory functions that create tea.Cmd values.

package msg

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Refresher is the part of the dashboard refresher the TUI drives.
type Refresher interface {
	RefreshAll(ctx context.Context)
	RefreshClock(ctx context.Context)
}

// Tick returns a command that sends a TickMsg after interval.
func Tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Refresh returns a command that runs one refresh pass off the event loop.
// Slot writes are announced through the board's bus, so running the pass
// inside Update would block the program on its own Send.
func Refresh(ctx context.Context, r Refresher, full bool) tea.Cmd {
	return func() tea.Msg {
		if full {
			r.RefreshAll(ctx)
		} else {
			r.RefreshClock(ctx)
		}
		return RefreshedMsg{Full: full}
	}
}
