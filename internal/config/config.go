package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// AppName names the config and state directories.
const AppName = "moyu"

// Config represents the complete moyu configuration
type Config struct {
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Workout   WorkoutConfig   `mapstructure:"workout"`
	Joke      JokeConfig      `mapstructure:"joke"`
	Content   ContentConfig   `mapstructure:"content"`
	TUI       TUIConfig       `mapstructure:"tui"`
	Serve     ServeConfig     `mapstructure:"serve"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DashboardConfig controls the refresh loop
type DashboardConfig struct {
	// IntervalMs is the tick period in milliseconds (default: 1000)
	IntervalMs int `mapstructure:"interval_ms"`
	// ContentEvery rotates the fact, tip, joke and activities only every
	// Nth tick; other ticks refresh the clock-driven slots (default: 1)
	ContentEvery int `mapstructure:"content_every"`
}

// WorkoutConfig sets the working hours of the off-work countdown
type WorkoutConfig struct {
	// StartHour is the hour the countdown appears (default: 9)
	StartHour int `mapstructure:"start_hour"`
	// EndHour is the hour the countdown targets and disappears (default: 18)
	EndHour int `mapstructure:"end_hour"`
}

// JokeConfig controls the external joke provider
type JokeConfig struct {
	// Enabled turns network fetching on; when false the fallback text is shown
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the URL returning one joke as text
	Endpoint string `mapstructure:"endpoint"`
	// TimeoutMs bounds every fetch (default: 5000)
	TimeoutMs int `mapstructure:"timeout_ms"`
	// MaxBytes caps the response body (default: 16384)
	MaxBytes int `mapstructure:"max_bytes"`
}

// ContentConfig points at an optional content pack
type ContentConfig struct {
	// Path is a YAML content pack overriding the built-in texts and dates.
	// Empty means built-in content only.
	Path string `mapstructure:"path"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Theme is the color theme for the TUI (default: "default")
	// Options: "default", "monokai", "dracula", "nord"
	Theme string `mapstructure:"theme"`
	// ShowHelp shows the key help line in the footer (default: true)
	ShowHelp bool `mapstructure:"show_help"`
}

// ServeConfig controls the HTTP surface
type ServeConfig struct {
	// Addr is the listen address (default: ":8080")
	Addr string `mapstructure:"addr"`
	// AllowedOrigins lists CORS origins; "*" allows any (default: ["*"])
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Dashboard: DashboardConfig{
			IntervalMs:   1000,
			ContentEvery: 1,
		},
		Workout: WorkoutConfig{
			StartHour: 9,
			EndHour:   18,
		},
		Joke: JokeConfig{
			Enabled:   true,
			Endpoint:  "https://api.vvhan.com/api/text/joke",
			TimeoutMs: 5000,
			MaxBytes:  16384,
		},
		TUI: TUIConfig{
			Theme:    "default",
			ShowHelp: true,
		},
		Serve: ServeConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Interval returns the tick period as a duration
func (c *DashboardConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Timeout returns the fetch timeout as a duration
func (c *JokeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// SetDefaults registers every default with the global viper instance
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers every default with v
func SetDefaultsOn(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("dashboard.interval_ms", defaults.Dashboard.IntervalMs)
	v.SetDefault("dashboard.content_every", defaults.Dashboard.ContentEvery)

	v.SetDefault("workout.start_hour", defaults.Workout.StartHour)
	v.SetDefault("workout.end_hour", defaults.Workout.EndHour)

	v.SetDefault("joke.enabled", defaults.Joke.Enabled)
	v.SetDefault("joke.endpoint", defaults.Joke.Endpoint)
	v.SetDefault("joke.timeout_ms", defaults.Joke.TimeoutMs)
	v.SetDefault("joke.max_bytes", defaults.Joke.MaxBytes)

	v.SetDefault("content.path", defaults.Content.Path)

	v.SetDefault("tui.theme", defaults.TUI.Theme)
	v.SetDefault("tui.show_help", defaults.TUI.ShowHelp)

	v.SetDefault("serve.addr", defaults.Serve.Addr)
	v.SetDefault("serve.allowed_origins", defaults.Serve.AllowedOrigins)

	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	v.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load for a specific viper instance
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, or the defaults if it is invalid
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns the directory for the TUI's log file
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("."+AppName, "state")
	}
	return filepath.Join(home, ".local", "state", AppName)
}
