// Package styles holds the lipgloss colors and styles of the terminal
// dashboard. The package-level variables always reflect the active theme;
// SetActiveTheme rebuilds them from a palette.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	WarningColor   lipgloss.Color
	ErrorColor     lipgloss.Color
	MutedColor     lipgloss.Color
	TextColor      lipgloss.Color
	BorderColor    lipgloss.Color
	BlueColor      lipgloss.Color

	// Convenience styles for colors
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style

	// Title is the application banner.
	Title lipgloss.Style

	// Panel frames every dashboard section.
	Panel lipgloss.Style

	// PanelTitle heads a panel.
	PanelTitle lipgloss.Style

	// Label styles the left column of key/value rows.
	Label lipgloss.Style

	// Countdown styles day counts that are still ahead.
	Countdown lipgloss.Style

	// Past styles day counts of dates already gone.
	Past lipgloss.Style

	// Recommended and Discouraged style the almanac entries.
	Recommended lipgloss.Style
	Discouraged lipgloss.Style

	// Workout styles the off-work countdown.
	Workout lipgloss.Style

	// Help styles
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
)

// activeTheme is the name of the theme the package variables were built
// from.
var activeTheme ThemeName

func init() {
	SetActiveTheme(ThemeDefault)
}

// SetActiveTheme rebuilds every package-level style from the named
// theme. Unknown names select the default palette.
//
// Note: This function is not thread-safe. It is designed to be called only
// from the Bubble Tea event loop, which runs on a single goroutine.
func SetActiveTheme(name ThemeName) {
	if !IsValidTheme(string(name)) {
		name = ThemeDefault
	}
	activeTheme = name
	apply(GetPalette(name))
}

// ActiveTheme returns the name of the active theme.
func ActiveTheme() ThemeName {
	return activeTheme
}

func apply(p *ColorPalette) {
	PrimaryColor = p.Primary
	SecondaryColor = p.Secondary
	WarningColor = p.Warning
	ErrorColor = p.Error
	MutedColor = p.Muted
	TextColor = p.Text
	BorderColor = p.Border
	BlueColor = p.Blue

	Primary = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning = lipgloss.NewStyle().Foreground(WarningColor)
	Error = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted = lipgloss.NewStyle().Foreground(MutedColor)
	Text = lipgloss.NewStyle().Foreground(TextColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Background(PrimaryColor).
		Padding(0, 2)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Label = lipgloss.NewStyle().Foreground(MutedColor)

	Countdown = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	Past = lipgloss.NewStyle().Foreground(MutedColor)

	Recommended = lipgloss.NewStyle().Foreground(SecondaryColor)
	Discouraged = lipgloss.NewStyle().Foreground(ErrorColor)

	Workout = lipgloss.NewStyle().
		Bold(true).
		Foreground(WarningColor)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(BlueColor)
	HelpDesc = lipgloss.NewStyle().Foreground(MutedColor)
}
