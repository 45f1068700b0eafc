package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "workout.end_hour")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidThemes returns the list of TUI color themes
func ValidThemes() []string {
	return []string{"default", "monokai", "dracula", "nord"}
}

// Limits enforced by Validate.
const (
	minIntervalMs    = 100
	maxIntervalMs    = 60 * 60 * 1000
	maxJokeTimeoutMs = 60 * 1000
	maxJokeBytes     = 1 << 20
	maxLogSizeMB     = 1000
	maxPathLength    = 4096
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateDashboard()...)
	errors = append(errors, c.validateWorkout()...)
	errors = append(errors, c.validateJoke()...)
	errors = append(errors, c.validateContent()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateServe()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateDashboard validates the DashboardConfig
func (c *Config) validateDashboard() []ValidationError {
	var errors []ValidationError

	if c.Dashboard.IntervalMs < minIntervalMs || c.Dashboard.IntervalMs > maxIntervalMs {
		errors = append(errors, ValidationError{
			Field:   "dashboard.interval_ms",
			Value:   c.Dashboard.IntervalMs,
			Message: fmt.Sprintf("must be between %d and %d", minIntervalMs, maxIntervalMs),
		})
	}

	if c.Dashboard.ContentEvery < 1 {
		errors = append(errors, ValidationError{
			Field:   "dashboard.content_every",
			Value:   c.Dashboard.ContentEvery,
			Message: "must be at least 1",
		})
	}

	return errors
}

// validateWorkout validates the WorkoutConfig
func (c *Config) validateWorkout() []ValidationError {
	var errors []ValidationError

	if c.Workout.StartHour < 0 || c.Workout.StartHour > 23 {
		errors = append(errors, ValidationError{
			Field:   "workout.start_hour",
			Value:   c.Workout.StartHour,
			Message: "must be between 0 and 23",
		})
	}
	if c.Workout.EndHour < 1 || c.Workout.EndHour > 24 {
		errors = append(errors, ValidationError{
			Field:   "workout.end_hour",
			Value:   c.Workout.EndHour,
			Message: "must be between 1 and 24",
		})
	}
	if c.Workout.StartHour >= c.Workout.EndHour {
		errors = append(errors, ValidationError{
			Field:   "workout.end_hour",
			Value:   c.Workout.EndHour,
			Message: fmt.Sprintf("must be after workout.start_hour (%d)", c.Workout.StartHour),
		})
	}

	return errors
}

// validateJoke validates the JokeConfig. Endpoint, timeout and size are
// only checked when fetching is enabled.
func (c *Config) validateJoke() []ValidationError {
	var errors []ValidationError

	if !c.Joke.Enabled {
		return errors
	}

	u, err := url.Parse(c.Joke.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "joke.endpoint",
			Value:   c.Joke.Endpoint,
			Message: "must be an absolute http or https URL",
		})
	}

	if c.Joke.TimeoutMs <= 0 || c.Joke.TimeoutMs > maxJokeTimeoutMs {
		errors = append(errors, ValidationError{
			Field:   "joke.timeout_ms",
			Value:   c.Joke.TimeoutMs,
			Message: fmt.Sprintf("must be between 1 and %d", maxJokeTimeoutMs),
		})
	}

	if c.Joke.MaxBytes <= 0 || c.Joke.MaxBytes > maxJokeBytes {
		errors = append(errors, ValidationError{
			Field:   "joke.max_bytes",
			Value:   c.Joke.MaxBytes,
			Message: fmt.Sprintf("must be between 1 and %d", maxJokeBytes),
		})
	}

	return errors
}

// validateContent validates the ContentConfig. The pack itself is
// validated when it is loaded.
func (c *Config) validateContent() []ValidationError {
	var errors []ValidationError

	path := c.Content.Path
	if path == "" {
		return errors
	}

	if strings.ContainsRune(path, '\x00') || len(path) > maxPathLength {
		errors = append(errors, ValidationError{
			Field:   "content.path",
			Value:   path,
			Message: "is not a valid path",
		})
		return errors
	}

	info, err := os.Stat(path)
	switch {
	case err != nil:
		errors = append(errors, ValidationError{
			Field:   "content.path",
			Value:   path,
			Message: "file does not exist or is unreadable",
		})
	case info.IsDir():
		errors = append(errors, ValidationError{
			Field:   "content.path",
			Value:   path,
			Message: "must be a file, not a directory",
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.Theme != "" && !slices.Contains(ValidThemes(), c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	return errors
}

// validateServe validates the ServeConfig
func (c *Config) validateServe() []ValidationError {
	var errors []ValidationError

	if _, _, err := net.SplitHostPort(c.Serve.Addr); err != nil {
		errors = append(errors, ValidationError{
			Field:   "serve.addr",
			Value:   c.Serve.Addr,
			Message: "must be host:port or :port",
		})
	}

	for i, origin := range c.Serve.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("serve.allowed_origins[%d]", i),
				Value:   origin,
				Message: "must not be blank",
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
