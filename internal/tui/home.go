package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medicare-portal/medicare/internal/portal"
	"github.com/medicare-portal/medicare/pkg/domain"
)

// scanCard is one biometric entry point on the landing page.
type scanCard struct {
	role        domain.Role
	title       string
	description string
	prompt      string
	bar         progress.Model
}

var features = []struct{ title, desc string }{
	{"Biometric Security", "Advanced fingerprint and eye recognition for instant, secure access"},
	{"Instant Access", "No forms to fill out - your medical data loads automatically"},
	{"Patient-Centered", "Designed for ease of use, especially during stressful situations"},
}

type homeModel struct {
	portal    *portal.Portal
	cards     []scanCard
	cursor    int
	spinner   spinner.Model
	statusMsg string
	width     int
	height    int
}

func newScanBar(role domain.Role) progress.Model {
	from, to := "#60a5fa", "#2563eb"
	if role == domain.RoleStaff {
		from, to = "#4ade80", "#16a34a"
	}
	return progress.New(
		progress.WithGradient(from, to),
		progress.WithWidth(28),
		progress.WithoutPercentage(),
	)
}

func newHomeModel(p *portal.Portal) homeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle
	return homeModel{
		portal:  p,
		spinner: s,
		cards: []scanCard{
			{
				role:        domain.RolePatient,
				title:       "Patient Access",
				description: "Quick and secure access to your medical records",
				prompt:      "Scan to Access Your Records",
				bar:         newScanBar(domain.RolePatient),
			},
			{
				role:        domain.RoleStaff,
				title:       "Staff Portal",
				description: "Secure staff access to patient management system",
				prompt:      "Staff Authentication",
				bar:         newScanBar(domain.RoleStaff),
			},
		},
	}
}

func (m homeModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := (msg.Width-12)/2 - 6
		if w > 40 {
			w = 40
		}
		if w < 10 {
			w = 10
		}
		for i := range m.cards {
			m.cards[i].bar.Width = w
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		m.statusMsg = ""
		switch msg.String() {
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < len(m.cards)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.startScan()
		case "esc":
			if err := m.portal.CancelScan(); err == nil {
				m.statusMsg = "scan cancelled"
			}
		}
	}
	return m, nil
}

func (m homeModel) startScan() (homeModel, tea.Cmd) {
	role := m.cards[m.cursor].role
	err := m.portal.StartScan(role)
	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, portal.ErrScanInProgress):
		m.statusMsg = "a scan is already in progress"
	case errors.Is(err, portal.ErrInvalidTransition):
		m.statusMsg = "already signed in as " + m.portal.Session().Role.String() + " (x to log out)"
	default:
		m.statusMsg = err.Error()
	}
	return m, nil
}

// scanning reports whether the scan in flight belongs to card i.
func (m homeModel) scanning(i int) (domain.ScanState, bool) {
	st := m.portal.ScanState()
	return st, st.Active() && m.portal.ScanRole() == m.cards[i].role
}

// scanLabels returns the pad and button captions for a scan phase.
func scanLabels(phase domain.ScanPhase) (pad, button string) {
	switch phase {
	case domain.ScanScanning:
		return "Scanning...", "Authenticating..."
	case domain.ScanVerified:
		return "Verified!", "Access Granted"
	default:
		return "Touch to Scan", "Start Biometric Scan"
	}
}

func (m homeModel) renderCard(i int) string {
	c := m.cards[i]
	color := roleColor(c.role)
	st, mine := m.scanning(i)
	busy := m.portal.ScanState().Active() && !mine

	phase, frac := domain.ScanIdle, 0.0
	if mine {
		phase, frac = st.Phase, st.Fraction()
	}
	pad, button := scanLabels(phase)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(c.title) + "\n")
	b.WriteString(dimStyle.Render(c.description) + "\n\n")
	b.WriteString(normalStyle.Render(c.prompt) + "\n")

	switch phase {
	case domain.ScanScanning:
		b.WriteString(m.spinner.View() + " " + accentStyle.Render(pad) + "\n")
	case domain.ScanVerified:
		b.WriteString(okStyle.Render("✓ "+pad) + "\n")
	default:
		b.WriteString(dimStyle.Render("◎ "+pad) + "\n")
	}
	b.WriteString(c.bar.ViewAs(frac) + "\n\n")

	btn := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(color).Padding(0, 1)
	switch {
	case busy:
		btn = lipgloss.NewStyle().Foreground(lockedStyle.GetForeground()).Padding(0, 1)
	case phase != domain.ScanIdle:
		btn = btn.Bold(true)
	}
	b.WriteString(btn.Render(button))

	style := cardStyle
	if i == m.cursor {
		style = style.BorderForeground(color)
	}
	return style.Render(b.String())
}

func (m homeModel) View() string {
	var sb strings.Builder

	sb.WriteString("\n")
	title := "Welcome to " + lipgloss.NewStyle().Foreground(patientColor).Bold(true).Render("MediCare") +
		" " + lipgloss.NewStyle().Foreground(staffColor).Bold(true).Render("Portal")
	sb.WriteString(center(selectedStyle.Render(title), m.width) + "\n")
	sb.WriteString(center(dimStyle.Render("Seamless healthcare access with biometric authentication."), m.width) + "\n")
	sb.WriteString(center(dimStyle.Render("Your medical data, instantly available when you need it most."), m.width) + "\n\n")

	cards := make([]string, len(m.cards))
	for i := range m.cards {
		cards[i] = m.renderCard(i)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], "  ", cards[1])
	for _, line := range strings.Split(row, "\n") {
		sb.WriteString(center(line, m.width) + "\n")
	}

	if m.statusMsg != "" {
		sb.WriteString("\n" + center(noticeStyle.Render(m.statusMsg), m.width) + "\n")
	}

	sb.WriteString("\n" + center(sectionHeaderStyle.Render("Why Choose MediCare Portal?"), m.width) + "\n")
	for _, f := range features {
		line := accentStyle.Render("● ") + selectedStyle.Render(f.title) + dimStyle.Render("  "+f.desc)
		sb.WriteString(center(line, m.width) + "\n")
	}
	return sb.String()
}
