package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medicare-portal/medicare/pkg/domain"
)

// Shimmer animation for the MEDICARE wordmark.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "M E D I C A R E" as a wave that drifts from
// clinical blue (#2563eb) to green (#22c55e) and back.
func renderShimmerLogo(frame int) string {
	const text = "MEDICARE"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.08 - x*3.0
		phase += math.Sin(t*0.021) * 1.5

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.2)

		// Blue: (37, 99, 235) #2563eb
		// Green: (34, 197, 94) #22c55e
		r := clampByte(37 + b*(34-37))
		g := clampByte(99 + b*(197-99))
		bl := clampByte(235 + b*(94-235))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)
		out += lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color)).
			Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}
	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e8f0")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c8d4"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505a6c"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505a6c"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa")).
			Bold(true)

	// Role colors: blue for patients, green for staff
	patientColor = lipgloss.Color("#3b82f6")
	staffColor   = lipgloss.Color("#22c55e")

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d399"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b"))

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24"))

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3a4252"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7c8aa0")).
				Bold(true)

	// Surface colors
	borderColor = lipgloss.Color("#263041")

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1b2433"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 2)
)

// roleColor returns the accent color for a role.
func roleColor(r domain.Role) lipgloss.Color {
	if r == domain.RoleStaff {
		return staffColor
	}
	return patientColor
}

// RoleBadge renders the header badge for an authenticated role, e.g. "[patient portal]".
func RoleBadge(r domain.Role) string {
	if !r.Valid() {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(roleColor(r)).
		Bold(true).
		Render("[" + r.String() + " portal]")
}

// recordStatusStyle colors a medical record status.
func recordStatusStyle(status string) lipgloss.Style {
	switch status {
	case domain.RecordRecovered:
		return okStyle
	case domain.RecordChronic:
		return alertStyle
	default:
		return warnStyle
	}
}

// conditionStyle colors a patient's condition.
func conditionStyle(condition string) lipgloss.Style {
	if strings.EqualFold(condition, "critical") {
		return alertStyle
	}
	return okStyle
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries with the standard spacing.
func helpBar(entries ...string) string {
	return " " + strings.Join(entries, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

func helpItems(supportURL string) []helpItem {
	if supportURL == "" {
		return nil
	}
	return []helpItem{
		{"Contact Support", strings.TrimPrefix(strings.TrimPrefix(supportURL, "https://"), "http://"), supportURL},
	}
}

// helpView renders the help overlay with a cursor over the link list.
func helpView(items []helpItem, cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(patientColor).
		Bold(true).
		Render("M E D I C A R E")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Advanced Healthcare Management")

	keyStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	selStyle := lipgloss.NewStyle().Bold(true).Foreground(staffColor)
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	keys := []struct{ key, desc string }{
		{"←/→ enter", "Pick an entry point and start a biometric scan"},
		{"esc", "Cancel a scan in progress, or go back home"},
		{"1 2 3", "Home, patient dashboard, staff portal"},
		{"←/→", "Switch dashboard sections"},
		{"/", "Search history or patients"},
		{"x", "Log out"},
		{"q", "Quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", keyStyle.Render(fmt.Sprintf("%-12s", k.key)), descStyle.Render(k.desc))
	}

	if len(items) > 0 {
		fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
		for i, item := range items {
			label := keyStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix := "    "
			if i == cursor {
				label = selStyle.Render(fmt.Sprintf("%-20s", item.label))
				prefix = "  > "
			}
			fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
		}
	}
	return b.String()
}
