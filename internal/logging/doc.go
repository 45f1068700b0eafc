// Package logging provides structured logging for moyu.
//
// It wraps Go's log/slog with a JSON handler. Child loggers carry
// persistent attributes such as the component ("refresher", "server",
// "tui") and the dashboard slot a message concerns.
//
// # Destinations
//
// The terminal UI owns stdout and stderr, so it logs to a file:
//
//	logger, err := logging.NewLoggerWithRotation(stateDir, "INFO", logging.RotationConfig{
//	    MaxSizeMB:  10,
//	    MaxBackups: 3,
//	    Compress:   true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
// The HTTP server and the snapshot command log to stderr with
// [NewWriterLogger]. Tests use [NopLogger] or a [NewWriterLogger] over a
// bytes.Buffer.
//
// # Context
//
//	refresher := logger.WithComponent("refresher")
//	refresher.WithSlot("joke").Warn("fetch failed", "error", err)
//
// Output:
//
//	{"time":"...","level":"WARN","msg":"fetch failed","component":"refresher","slot":"joke","error":"..."}
//
// # Rotation
//
// [RotatingWriter] rotates debug.log to debug.log.1 .. debug.log.N once it
// would exceed MaxSizeMB, optionally gzipping the backups in the
// background. Close waits for pending compressions.
//
// # Configuration
//
//	logging:
//	  enabled: true
//	  level: info
//	  max_size_mb: 10
//	  max_backups: 3
//	  compress: false
package logging
