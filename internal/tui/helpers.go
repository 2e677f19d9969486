package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/medicare-portal/medicare/pkg/domain"
)

// formatAgo renders a relative timestamp, e.g. "5m ago".
func formatAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatDate renders a calendar date the way the records store keys them.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(domain.DateLayout)
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// center pads s on the left so it sits in the middle of width columns.
func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// separator renders a dim horizontal rule one column in from the edge.
func separator(width int) string {
	w := width - 2
	if w < 4 {
		w = 4
	}
	return " " + metaStyle.Render(strings.Repeat("─", w))
}

// sectionTabs renders a row of section names with the active one highlighted.
func sectionTabs(names []string, active int, color lipgloss.Color) string {
	parts := make([]string, len(names))
	for i, n := range names {
		if i == active {
			parts[i] = lipgloss.NewStyle().Foreground(color).Bold(true).Underline(true).Render(n)
		} else {
			parts[i] = dimStyle.Render(n)
		}
	}
	return " " + strings.Join(parts, metaStyle.Render("  ·  "))
}
