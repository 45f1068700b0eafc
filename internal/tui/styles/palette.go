package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Purple/green dark theme
	ThemeMonokai ThemeName = "monokai" // Classic Monokai editor colors
	ThemeDracula ThemeName = "dracula" // Dracula theme colors
	ThemeNord    ThemeName = "nord"    // Nord theme - cool blue-gray
)

// BuiltinThemes returns all built-in theme names in cycling order.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeMonokai),
		string(ThemeDracula),
		string(ThemeNord),
	}
}

// IsValidTheme checks if a theme name is a built-in theme.
func IsValidTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// NextTheme returns the theme after name in BuiltinThemes, wrapping
// around. Unknown names start over at the default theme.
func NextTheme(name ThemeName) ThemeName {
	themes := BuiltinThemes()
	i := slices.Index(themes, string(name))
	if i < 0 {
		return ThemeDefault
	}
	return ThemeName(themes[(i+1)%len(themes)])
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	Primary   lipgloss.Color // titles, the date
	Secondary lipgloss.Color // countdowns, recommended activities
	Warning   lipgloss.Color // the off-work countdown
	Error     lipgloss.Color // discouraged activities, errors
	Muted     lipgloss.Color // labels, past dates, help text
	Surface   lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color // panel borders
	Blue      lipgloss.Color // help keys
}

// palettes holds the built-in themes. Hex values follow each theme's
// published colors.
var palettes = map[ThemeName]ColorPalette{
	ThemeDefault: {
		Primary: "#A78BFA", Secondary: "#10B981", Warning: "#F59E0B", Error: "#F87171",
		Muted: "#9CA3AF", Surface: "#1F2937", Text: "#F9FAFB", Border: "#6B7280",
		Blue: "#60A5FA",
	},
	ThemeMonokai: {
		Primary: "#F92672", Secondary: "#A6E22E", Warning: "#E6DB74", Error: "#F92672",
		Muted: "#75715E", Surface: "#272822", Text: "#F8F8F2", Border: "#49483E",
		Blue: "#66D9EF",
	},
	ThemeDracula: {
		Primary: "#BD93F9", Secondary: "#50FA7B", Warning: "#F1FA8C", Error: "#FF5555",
		Muted: "#6272A4", Surface: "#282A36", Text: "#F8F8F2", Border: "#44475A",
		Blue: "#8BE9FD",
	},
	ThemeNord: {
		Primary: "#88C0D0", Secondary: "#A3BE8C", Warning: "#EBCB8B", Error: "#BF616A",
		Muted: "#4C566A", Surface: "#2E3440", Text: "#ECEFF4", Border: "#3B4252",
		Blue: "#81A1C1",
	},
}

// GetPalette returns a copy of the palette for the given theme name.
// Unknown names get the default palette.
func GetPalette(name ThemeName) *ColorPalette {
	p, ok := palettes[name]
	if !ok {
		p = palettes[ThemeDefault]
	}
	return &p
}
