// Package util provides string helpers for laying out terminal output.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const ellipsis = "..."

// TruncateANSI truncates a string to maxWidth visual columns, adding "..." if truncated.
// ANSI escape codes are preserved and wide characters, such as Chinese
// text, count as two columns.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= len(ellipsis) {
		return ellipsis
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, maxWidth, ellipsis)
}

// WrapANSI wraps s to lines of at most width columns, breaking at spaces
// where possible and inside words otherwise, which is how text without
// spaces such as Chinese is wrapped. At most maxLines lines are returned;
// if text was cut the last line ends with "...". maxLines <= 0 means no
// limit.
func WrapANSI(s string, width, maxLines int) []string {
	if width <= 0 {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}

	lines := strings.Split(ansi.Wrap(s, width, ""), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	last := lines[maxLines-1]
	if room := width - len(ellipsis); lipgloss.Width(last) > room {
		// the ellipsis replaces the tail, so cut first
		last = ansi.Truncate(last, max(room, 0), "")
	}
	lines[maxLines-1] = last + ellipsis
	return lines
}
