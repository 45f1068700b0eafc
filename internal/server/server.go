// Package server exposes the dashboard slots as read-only JSON over HTTP.
//
// Routes:
//
//	GET  /api/slots         every written slot, in display order
//	GET  /api/slots/{name}  one slot; target slots are named target/<label>
//	POST /api/refresh       recompute every slot now (202, joke follows async)
//	GET  /health            liveness
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Iron-Ham/moyu/internal/dashboard"
	"github.com/Iron-Ham/moyu/internal/errors"
	"github.com/Iron-Ham/moyu/internal/logging"
	"github.com/rs/cors"
)

// ShutdownTimeout bounds how long Serve waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Refresher is the part of the dashboard refresher the server drives.
type Refresher interface {
	RefreshAll(ctx context.Context)
}

// Options configures a Server.
type Options struct {
	Board          *dashboard.Board
	Refresher      Refresher
	AllowedOrigins []string // CORS origins; empty or "*" allows any
	Logger         *logging.Logger

	// Context bounds refreshes started by POST /api/refresh. It outlives
	// the request so the joke fetch can land after the response.
	// Defaults to context.Background.
	Context context.Context
}

// Server serves the board over HTTP.
type Server struct {
	board      *dashboard.Board
	refresher  Refresher
	logger     *logging.Logger
	handler    http.Handler
	refreshCtx context.Context
}

// New creates a Server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	refreshCtx := opts.Context
	if refreshCtx == nil {
		refreshCtx = context.Background()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		board:      opts.Board,
		refresher:  opts.Refresher,
		logger:     logger.WithComponent("server"),
		refreshCtx: refreshCtx,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/slots", s.handleSnapshot)
	mux.HandleFunc("GET /api/slots/{name...}", s.handleSlot)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /health", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	s.handler = c.Handler(s.logRequests(mux))
	return s
}

// Handler returns the server's root handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()
	s.logger.Info("http server listening", "addr", ln.Addr().String())

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http server shutdown incomplete", "error", err.Error())
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) handleSlot(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	slot, ok := s.board.Get(name)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "slot not found", Name: name})
		return
	}
	s.writeJSON(w, http.StatusOK, slot)
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	if s.refresher == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "refresh unavailable"})
		return
	}
	s.refresher.RefreshAll(s.refreshCtx)
	s.writeJSON(w, http.StatusAccepted, statusResponse{Status: "accepted", Slots: len(s.board.Names())})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Slots: len(s.board.Names())})
}

type errorResponse struct {
	Error string `json:"error"`
	Name  string `json:"name,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
	Slots  int    `json:"slots"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to write response", "error", err.Error())
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
