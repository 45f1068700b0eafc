// Package tui runs the terminal dashboard: a Bubbletea program that drives
// the refresher from its tick loop and renders the board.
package tui

import (
	"context"
	"io"
	"time"

	"github.com/Iron-Ham/moyu/internal/config"
	"github.com/Iron-Ham/moyu/internal/dashboard"
	"github.com/Iron-Ham/moyu/internal/errors"
	"github.com/Iron-Ham/moyu/internal/event"
	"github.com/Iron-Ham/moyu/internal/locale"
	"github.com/Iron-Ham/moyu/internal/logging"
	"github.com/Iron-Ham/moyu/internal/tui/msg"
	"github.com/Iron-Ham/moyu/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Options configures an App.
type Options struct {
	Board        *dashboard.Board
	Refresher    msg.Refresher
	Formatter    *locale.Formatter
	Interval     time.Duration
	ContentEvery int
	Theme        string
	ShowHelp     bool
	Width        int // initial terminal width; 0 means unknown

	// Watch, when set, is re-read whenever its config file changes and
	// the theme and help settings are applied live.
	Watch *viper.Viper

	Logger *logging.Logger

	// Input and Output replace the terminal; used by tests.
	Input  io.Reader
	Output io.Writer
}

// App wraps the Bubbletea program
type App struct {
	opts    Options
	program *tea.Program
	logger  *logging.Logger
}

// New creates a new TUI application
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &App{opts: opts, logger: logger.WithComponent("tui")}
}

// Run starts the TUI application and blocks until the user quits or ctx
// is cancelled. Joke fetches still in flight are cancelled on return.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	styles.SetActiveTheme(styles.ThemeName(a.opts.Theme))

	model := NewModel(ctx, ModelConfig{
		Board:        a.opts.Board,
		Refresher:    a.opts.Refresher,
		Formatter:    a.opts.Formatter,
		Interval:     a.opts.Interval,
		ContentEvery: a.opts.ContentEvery,
		ShowHelp:     a.opts.ShowHelp,
		Width:        a.opts.Width,
	})

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if a.opts.Input != nil || a.opts.Output != nil {
		programOpts = append(programOpts, tea.WithInput(a.opts.Input), tea.WithOutput(a.opts.Output))
	} else {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	a.program = tea.NewProgram(model, programOpts...)

	// Refresh passes report back through their command; only writes that
	// land later, such as a joke fetch, need forwarding.
	bus := a.opts.Board.Bus()
	subID := bus.Subscribe(event.TypeSlotUpdated, func(e event.Event) {
		if updated, ok := e.(event.SlotUpdatedEvent); ok && updated.Slot == dashboard.SlotJoke {
			a.program.Send(msg.SlotUpdatedMsg{Slot: updated.Slot})
		}
	})
	defer bus.Unsubscribe(subID)

	if a.opts.Watch != nil {
		a.opts.Watch.OnConfigChange(func(e fsnotify.Event) {
			a.program.Send(a.reloadConfig(e.Name))
		})
		a.opts.Watch.WatchConfig()
	}

	a.logger.Info("dashboard started", "theme", string(styles.ActiveTheme()), "interval", a.opts.Interval.String())
	_, err := a.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	a.logger.Info("dashboard stopped")
	return err
}

// reloadConfig re-reads the watched config and returns the message that
// applies it. Invalid files keep the running settings and surface the
// error in the footer.
func (a *App) reloadConfig(path string) tea.Msg {
	cfg, err := config.LoadFrom(a.opts.Watch)
	if err != nil {
		a.logger.Warn("config reload failed", "path", path, "error", err.Error())
		return msg.ErrMsg{Err: err}
	}

	a.logger.Info("config reloaded", "path", path, "theme", cfg.TUI.Theme)
	a.opts.Board.Bus().Publish(event.NewConfigReloadedEvent(path))
	return msg.ConfigReloadedMsg{Theme: cfg.TUI.Theme, ShowHelp: cfg.TUI.ShowHelp}
}
