// Package config provides CLI commands for managing moyu configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	appconfig "github.com/Iron-Ham/moyu/internal/config"
	"github.com/Iron-Ham/moyu/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify moyu configuration",
	Long: `View or modify moyu configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  moyu config set workout.end_hour 17
  moyu config set tui.theme dracula
  moyu config set joke.enabled false

Valid keys:
  dashboard.interval_ms    - Refresh tick in milliseconds
  dashboard.content_every  - Rotate facts, tips and jokes every N ticks
  workout.start_hour       - Hour the off-work countdown appears
  workout.end_hour         - Hour the off-work countdown targets
  joke.enabled             - Fetch jokes from the network (true/false)
  joke.endpoint            - URL returning one joke as text
  joke.timeout_ms          - Per-fetch timeout in milliseconds
  joke.max_bytes           - Maximum joke response size
  content.path             - YAML content pack with dates and texts
  tui.theme                - Color theme: default, monokai, dracula, nord
  tui.show_help            - Show key help in the footer (true/false)
  serve.addr               - HTTP listen address for 'moyu serve'
  logging.enabled          - Write a debug log (true/false)
  logging.level            - Log level: debug, info, warn, error
  logging.max_size_mb      - Rotate the log at this size
  logging.max_backups      - Rotated logs to keep
  logging.compress         - Gzip rotated logs (true/false)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/moyu/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in your editor",
	Long: `Open the config file in your preferred editor.

Uses $EDITOR environment variable, or falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first.
A running 'moyu start' picks up theme changes on save.`,
	RunE: runConfigEdit,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  moyu config reset                  # Reset all to defaults
  moyu config reset workout.end_hour # Reset only workout.end_hour to default`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
}

// Register adds all config-related commands to the given parent command.
// This is the main entry point for integrating the config subpackage with
// the root command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// keyTypes lists every key 'config set' accepts and how its value is parsed.
var keyTypes = map[string]string{
	"dashboard.interval_ms":   "int",
	"dashboard.content_every": "int",
	"workout.start_hour":      "int",
	"workout.end_hour":        "int",
	"joke.enabled":            "bool",
	"joke.endpoint":           "string",
	"joke.timeout_ms":         "int",
	"joke.max_bytes":          "int",
	"content.path":            "string",
	"tui.theme":               "string",
	"tui.show_help":           "bool",
	"serve.addr":              "string",
	"logging.enabled":         "bool",
	"logging.level":           "string",
	"logging.max_size_mb":     "int",
	"logging.max_backups":     "int",
	"logging.compress":        "bool",
}

// defaultValues maps every settable key to its default.
func defaultValues() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"dashboard.interval_ms":   d.Dashboard.IntervalMs,
		"dashboard.content_every": d.Dashboard.ContentEvery,
		"workout.start_hour":      d.Workout.StartHour,
		"workout.end_hour":        d.Workout.EndHour,
		"joke.enabled":            d.Joke.Enabled,
		"joke.endpoint":           d.Joke.Endpoint,
		"joke.timeout_ms":         d.Joke.TimeoutMs,
		"joke.max_bytes":          d.Joke.MaxBytes,
		"content.path":            d.Content.Path,
		"tui.theme":               d.TUI.Theme,
		"tui.show_help":           d.TUI.ShowHelp,
		"serve.addr":              d.Serve.Addr,
		"logging.enabled":         d.Logging.Enabled,
		"logging.level":           d.Logging.Level,
		"logging.max_size_mb":     d.Logging.MaxSizeMB,
		"logging.max_backups":     d.Logging.MaxBackups,
		"logging.compress":        d.Logging.Compress,
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintf(out, "Configuration is invalid, showing defaults:\n%v\n\n", err)
		cfg = appconfig.Default()
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	writeConfig(out, cfg)
	return nil
}

func writeConfig(out io.Writer, cfg *appconfig.Config) {
	fmt.Fprintln(out, "dashboard:")
	fmt.Fprintf(out, "  interval_ms: %d\n", cfg.Dashboard.IntervalMs)
	fmt.Fprintf(out, "  content_every: %d\n", cfg.Dashboard.ContentEvery)

	fmt.Fprintln(out, "workout:")
	fmt.Fprintf(out, "  start_hour: %d\n", cfg.Workout.StartHour)
	fmt.Fprintf(out, "  end_hour: %d\n", cfg.Workout.EndHour)

	fmt.Fprintln(out, "joke:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Joke.Enabled)
	fmt.Fprintf(out, "  endpoint: %s\n", cfg.Joke.Endpoint)
	fmt.Fprintf(out, "  timeout_ms: %d\n", cfg.Joke.TimeoutMs)
	fmt.Fprintf(out, "  max_bytes: %d\n", cfg.Joke.MaxBytes)

	fmt.Fprintln(out, "content:")
	fmt.Fprintf(out, "  path: %s\n", cfg.Content.Path)

	fmt.Fprintln(out, "tui:")
	fmt.Fprintf(out, "  theme: %s\n", cfg.TUI.Theme)
	fmt.Fprintf(out, "  show_help: %v\n", cfg.TUI.ShowHelp)

	fmt.Fprintln(out, "serve:")
	fmt.Fprintf(out, "  addr: %s\n", cfg.Serve.Addr)
	fmt.Fprintf(out, "  allowed_origins: [%s]\n", strings.Join(cfg.Serve.AllowedOrigins, ", "))

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	fmt.Fprintf(out, "  max_backups: %d\n", cfg.Logging.MaxBackups)
	fmt.Fprintf(out, "  compress: %v\n", cfg.Logging.Compress)
}

// parseValue converts a command-line value to the type of key.
func parseValue(key, value string) (any, error) {
	keyType, ok := keyTypes[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'moyu config set --help' to see valid keys", key)
	}

	switch keyType {
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		return intVal, nil
	default:
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typedValue, err := parseValue(key, args[1])
	if err != nil {
		return err
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)

	// Range and cross-field checks live in the validator.
	if _, err := appconfig.Load(); err != nil {
		viper.Set(key, previous)
		var verrs appconfig.ValidationErrors
		if errors.As(err, &verrs) {
			for _, verr := range verrs {
				if verr.Field == key || strings.HasPrefix(verr.Field, key+"[") {
					return fmt.Errorf("invalid value for %s: %s", key, verr.Message)
				}
			}
		}
		return fmt.Errorf("invalid configuration after setting %s: %w", key, err)
	}

	configFile, err := writeConfigFile()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

// writeConfigFile writes viper's settings to the active config file, or
// to the default location when none is in use.
func writeConfigFile() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = appconfig.ConfigFile()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configFile, nil
}

// defaultConfigContent is the commented file 'config init' writes.
const defaultConfigContent = `# moyu configuration
# Environment variables override these values: MOYU_<SECTION>_<KEY>,
# e.g. MOYU_WORKOUT_END_HOUR=17

# Refresh loop
dashboard:
  # Tick period in milliseconds
  interval_ms: 1000
  # Rotate the fact, tip, joke and almanac every N ticks; other ticks
  # only update the dates and countdowns
  content_every: 1

# Off-work countdown, shown on weekdays between start_hour and end_hour
workout:
  start_hour: 9
  end_hour: 18

# Joke provider; when disabled the fallback text is shown
joke:
  enabled: true
  endpoint: https://api.vvhan.com/api/text/joke
  timeout_ms: 5000
  max_bytes: 16384

# Optional YAML content pack overriding the built-in dates and texts
content:
  path: ""

# TUI (terminal user interface) settings
tui:
  # Color theme: default, monokai, dracula, nord
  theme: default
  # Show key help in the footer
  show_help: true

# HTTP surface for 'moyu serve'
serve:
  addr: ":8080"
  allowed_origins: ["*"]

# Debug log; the TUI writes it to ~/.local/state/moyu/debug.log
logging:
  enabled: true
  level: info
  max_size_mb: 10
  max_backups: 3
  compress: false
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := appconfig.ConfigDir()
	configFile := appconfig.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'moyu config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize moyu's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := appconfig.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", configFile)
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: MOYU_* (e.g., MOYU_WORKOUT_END_HOUR)")

	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	// Check if config file exists, if not create it
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file doesn't exist, creating with defaults...\n")
		if err := runConfigInit(cmd, args); err != nil {
			return err
		}
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR environment variable")
	}

	// Open the editor
	editorCmd := execCommand(editor, configFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file saved: %s\n", configFile)
	return nil
}

// findEditor returns $EDITOR, $VISUAL or the first common editor on PATH.
func findEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	for _, e := range []string{"vim", "nano", "vi"} {
		if _, err := execLookPath(e); err == nil {
			return e
		}
	}
	return ""
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	defaults := defaultValues()

	if len(args) == 0 {
		// Reset all values
		keys := make([]string, 0, len(defaults))
		for key := range defaults {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			viper.Set(key, defaults[key])
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		// Reset specific key
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'moyu config set --help' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, value)
	}

	configFile, err := writeConfigFile()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}
