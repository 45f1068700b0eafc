// Package view renders the panels of the terminal dashboard from a board
// snapshot. Views are stateless; every call reads the active styles.
package view

import (
	"strings"

	"github.com/Iron-Ham/moyu/internal/dashboard"
	"github.com/Iron-Ham/moyu/internal/locale"
	"github.com/Iron-Ham/moyu/internal/tui/styles"
	"github.com/Iron-Ham/moyu/internal/util"
	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	MinWidth      = 40 // Narrower terminals are rendered at this width
	WideThreshold = 80 // From this width holidays and almanac sit side by side

	panelChrome  = 4 // border (2) + horizontal padding (2)
	tipMaxLines  = 3
	jokeMaxLines = 5
	bullet       = "• "
)

// DashboardView renders the whole dashboard.
type DashboardView struct {
	format *locale.Formatter
}

// NewDashboardView creates a DashboardView that labels panels with format.
func NewDashboardView(format *locale.Formatter) *DashboardView {
	if format == nil {
		format = locale.Default()
	}
	return &DashboardView{format: format}
}

// Render lays out every panel for a terminal width columns wide.
func (v *DashboardView) Render(snap dashboard.Snapshot, width int) string {
	width = max(width, MinWidth)

	sections := []string{v.RenderHeader(snap, width)}

	if width >= WideThreshold {
		left := width / 2
		right := width - left
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			panel(v.RenderHolidays(snap, left-panelChrome), left),
			panel(v.RenderAlmanac(snap, right-panelChrome), right),
		))
	} else {
		sections = append(sections,
			panel(v.RenderHolidays(snap, width-panelChrome), width),
			panel(v.RenderAlmanac(snap, width-panelChrome), width),
		)
	}

	sections = append(sections, panel(v.RenderTips(snap, width-panelChrome), width))

	if workout := v.RenderWorkout(snap); workout != "" {
		sections = append(sections, panel(workout, width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderHeader renders the title bar with today's date and the weekend
// countdown. Parts that do not fit on one line are stacked.
func (v *DashboardView) RenderHeader(snap dashboard.Snapshot, width int) string {
	parts := []string{styles.Title.Render(v.format.Text(locale.KeyTitle))}
	if date := v.text(snap, dashboard.SlotDate); date != "" {
		parts = append(parts, styles.Primary.Bold(true).Render(date))
	}
	if weekend := v.text(snap, dashboard.SlotWeekend); weekend != "" {
		parts = append(parts, styles.Label.Render(v.format.Text(locale.KeyWeekend))+" "+daysStyle(weekend).Render(weekend))
	}
	if line := strings.Join(parts, "  "); lipgloss.Width(line) <= width {
		return line
	}
	for i, part := range parts {
		parts[i] = util.TruncateANSI(part, width)
	}
	return strings.Join(parts, "\n")
}

// RenderHolidays renders the countdown to every target date, in board
// order.
func (v *DashboardView) RenderHolidays(snap dashboard.Snapshot, width int) string {
	type row struct{ label, days string }
	var rows []row
	labelWidth := 0
	for _, slot := range snap.Slots {
		label, ok := dashboard.TargetLabel(slot.Name)
		if !ok || !slot.Visible {
			continue
		}
		rows = append(rows, row{label, slot.Text})
		labelWidth = max(labelWidth, lipgloss.Width(label))
	}

	lines := []string{styles.PanelTitle.Render(v.format.Text(locale.KeyHolidays))}
	if len(rows) == 0 {
		lines = append(lines, styles.Muted.Render(v.format.Text(locale.KeyLoading)))
	}
	for _, r := range rows {
		label := styles.Label.Width(labelWidth).Render(r.label)
		lines = append(lines, util.TruncateANSI(label+"  "+daysStyle(r.days).Render(r.days), width))
	}
	return strings.Join(lines, "\n")
}

// RenderAlmanac renders the recommended and discouraged activities in two
// columns.
func (v *DashboardView) RenderAlmanac(snap dashboard.Snapshot, width int) string {
	colWidth := max(width/2, 1)
	good := v.almanacColumn(snap, dashboard.SlotRecommended, locale.KeyRecommended, styles.Recommended, colWidth)
	bad := v.almanacColumn(snap, dashboard.SlotDiscouraged, locale.KeyDiscouraged, styles.Discouraged, colWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(colWidth).Render(good),
		lipgloss.NewStyle().Width(max(width-colWidth, 1)).Render(bad),
	)
}

func (v *DashboardView) almanacColumn(snap dashboard.Snapshot, name, titleKey string, style lipgloss.Style, width int) string {
	lines := []string{style.Bold(true).Render(v.format.Text(titleKey))}
	slot, ok := snap.Slot(name)
	if !ok || len(slot.Items) == 0 {
		lines = append(lines, styles.Muted.Render(v.format.Text(locale.KeyLoading)))
	}
	for _, item := range slot.Items {
		lines = append(lines, util.TruncateANSI(style.Render(bullet+item), width))
	}
	return strings.Join(lines, "\n")
}

// RenderTips renders the fact, the tip and the joke, each wrapped to
// width.
func (v *DashboardView) RenderTips(snap dashboard.Snapshot, width int) string {
	sections := []struct {
		titleKey string
		slot     string
		maxLines int
	}{
		{locale.KeyFact, dashboard.SlotFact, tipMaxLines},
		{locale.KeyTip, dashboard.SlotTip, tipMaxLines},
		{locale.KeyJoke, dashboard.SlotJoke, jokeMaxLines},
	}

	var blocks []string
	for _, s := range sections {
		lines := []string{styles.PanelTitle.Render(v.format.Text(s.titleKey))}
		text := v.text(snap, s.slot)
		if text == "" {
			lines = append(lines, styles.Muted.Render(v.format.Text(locale.KeyLoading)))
		} else {
			for _, line := range util.WrapANSI(text, width, s.maxLines) {
				lines = append(lines, styles.Text.Render(line))
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// RenderWorkout renders the off-work countdown, or "" while it is hidden.
func (v *DashboardView) RenderWorkout(snap dashboard.Snapshot) string {
	slot, ok := snap.Slot(dashboard.SlotWorkout)
	if !ok || !slot.Visible || slot.Text == "" {
		return ""
	}
	return styles.PanelTitle.Render(v.format.Text(locale.KeyWorkout)) + "\n" + styles.Workout.Render(slot.Text)
}

func (v *DashboardView) text(snap dashboard.Snapshot, name string) string {
	slot, ok := snap.Slot(name)
	if !ok || !slot.Visible {
		return ""
	}
	return slot.Text
}

// panel frames body in a bordered box outerWidth columns wide.
func panel(body string, outerWidth int) string {
	return styles.Panel.Width(max(outerWidth-2, 1)).Render(body)
}

// daysStyle greys out countdowns to dates that have passed.
func daysStyle(days string) lipgloss.Style {
	if strings.HasPrefix(days, "-") {
		return styles.Past
	}
	return styles.Countdown
}
