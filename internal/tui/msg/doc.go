// Package msg defines the message types used by the TUI's Bubbletea event loop.
//
// This package contains the [tea.Msg] types the dashboard can receive:
// timer ticks, board changes forwarded from the refresher, and config
// reloads forwarded from the file watcher. Command factories that produce
// them live next to the types.
package msg
