package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Iron-Ham/moyu/internal/config"
	"github.com/Iron-Ham/moyu/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard as JSON over HTTP",
	Long: `Run the refresh loop and serve every slot as JSON.

Routes:
  GET  /api/slots          all slots in display order
  GET  /api/slots/{name}   one slot, e.g. /api/slots/weekend or /api/slots/target/国庆
  POST /api/refresh        recompute every slot now
  GET  /health             liveness

The server shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from serve.addr, \":8080\")")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logging, "")
	if err != nil {
		return err
	}
	defer logger.Close()

	deps, err := buildDashboard(cfg, logger, false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, deps)
}

// serve runs the refresh loop and the HTTP server until ctx is cancelled
// or the server fails.
func serve(ctx context.Context, cfg *config.Config, deps *dashboardDeps) error {
	g, ctx := errgroup.WithContext(ctx)
	srv := server.New(server.Options{
		Board:          deps.board,
		Refresher:      deps.refresher,
		AllowedOrigins: cfg.Serve.AllowedOrigins,
		Logger:         deps.logger,
		Context:        ctx,
	})

	g.Go(func() error {
		deps.refresher.Run(ctx, cfg.Dashboard.Interval(), cfg.Dashboard.ContentEvery)
		return nil
	})
	g.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.Serve.Addr)
	})

	err := g.Wait()
	deps.refresher.Wait()
	return err
}
