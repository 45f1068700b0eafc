package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Iron-Ham/moyu/internal/config"
	"github.com/Iron-Ham/moyu/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Open the terminal dashboard",
	Long: `Open the 摸鱼办 dashboard in the terminal.

Keys: r refreshes everything, t cycles the color theme, ? toggles the
full help and q quits. When stdout is not a terminal a single snapshot
is printed instead.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return runSnapshotWith(cmd, cfg, formatText, false)
	}

	// stderr belongs to the dashboard, so the TUI logs to a file
	logger, err := newLogger(cfg.Logging, config.StateDir())
	if err != nil {
		return err
	}
	defer logger.Close()

	deps, err := buildDashboard(cfg, logger, false)
	if err != nil {
		return err
	}

	width := 0
	if termWidth, _, err := term.GetSize(fd); err == nil {
		width = termWidth
	}

	// Live theme reload only makes sense with a file to watch
	var watch *viper.Viper
	if viper.ConfigFileUsed() != "" {
		watch = viper.GetViper()
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := tui.New(tui.Options{
		Board:        deps.board,
		Refresher:    deps.refresher,
		Formatter:    deps.format,
		Interval:     cfg.Dashboard.Interval(),
		ContentEvery: cfg.Dashboard.ContentEvery,
		Theme:        cfg.TUI.Theme,
		ShowHelp:     cfg.TUI.ShowHelp,
		Width:        width,
		Watch:        watch,
		Logger:       logger,
	})
	err = app.Run(ctx)
	deps.refresher.Wait()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
