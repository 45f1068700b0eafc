package cmd

import (
	"fmt"

	"github.com/Iron-Ham/moyu/internal/config"
	"github.com/Iron-Ham/moyu/internal/content"
	"github.com/Iron-Ham/moyu/internal/dashboard"
	"github.com/Iron-Ham/moyu/internal/event"
	"github.com/Iron-Ham/moyu/internal/joke"
	"github.com/Iron-Ham/moyu/internal/locale"
	"github.com/Iron-Ham/moyu/internal/logging"
	"github.com/Iron-Ham/moyu/internal/workout"
)

// dashboardDeps is the board and refresher shared by every surface.
type dashboardDeps struct {
	format    *locale.Formatter
	board     *dashboard.Board
	refresher *dashboard.Refresher
	logger    *logging.Logger
}

// buildDashboard loads the content pack and assembles the board, its
// event bus and the refresher. offline forces the fallback joke.
func buildDashboard(cfg *config.Config, logger *logging.Logger, offline bool) (*dashboardDeps, error) {
	pack, err := content.LoadPack(cfg.Content.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load content pack: %w", err)
	}

	format := locale.Default()
	board := dashboard.NewBoard(pack.Targets(), event.NewBus(logger))
	refresher, err := dashboard.NewRefresher(dashboard.Options{
		Board:     board,
		Pack:      pack,
		Provider:  newProvider(cfg.Joke, format, offline),
		Formatter: format,
		Schedule:  workout.Schedule{StartHour: cfg.Workout.StartHour, EndHour: cfg.Workout.EndHour},
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	return &dashboardDeps{format: format, board: board, refresher: refresher, logger: logger}, nil
}

// newProvider returns the configured joke provider. A disabled provider
// never touches the network and always yields the fallback text.
func newProvider(cfg config.JokeConfig, format *locale.Formatter, offline bool) joke.Provider {
	if offline || !cfg.Enabled {
		return joke.Static(format.JokeFallback())
	}
	return joke.NewHTTPProvider(joke.Options{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.Timeout(),
		MaxBytes: int64(cfg.MaxBytes),
	})
}

// newLogger creates the logger for a command. An empty dir logs to
// stderr; otherwise logs go to a rotated debug.log inside dir.
func newLogger(cfg config.LoggingConfig, dir string) (*logging.Logger, error) {
	if !cfg.Enabled {
		return logging.NopLogger(), nil
	}
	if dir == "" {
		return logging.NewLogger("", cfg.Level)
	}
	return logging.NewLoggerWithRotation(dir, cfg.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}
