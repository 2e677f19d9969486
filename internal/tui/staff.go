package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medicare-portal/medicare/pkg/domain"
	"github.com/medicare-portal/medicare/pkg/records"
)

type staffSection int

const (
	sectionPatients staffSection = iota
	sectionVerification
	sectionAnalytics
	numStaffSections
)

var staffSectionNames = []string{"Patients", "Verification", "Analytics"}

type patientsLoadedMsg struct {
	patients []domain.Patient
	err      error
}

type statsLoadedMsg struct {
	stats domain.HospitalStats
	err   error
}

type patientVerifiedMsg struct {
	patient *domain.Patient
	err     error
}

type copyResultMsg struct {
	text string
	err  error
}

type staffModel struct {
	store     *records.Store
	copyText  func(string) error
	now       func() time.Time
	section   staffSection
	patients  []domain.Patient
	cursor    int
	search    textinput.Model
	searching bool
	stats     domain.HospitalStats
	rateBar   progress.Model
	loading   bool
	err       string
	statusMsg string
	width     int
	height    int
}

func newStaffModel(s *records.Store, copyText func(string) error) staffModel {
	return staffModel{
		store:    s,
		copyText: copyText,
		now:      time.Now,
		search:   newSearchInput("search by name or patient ID..."),
		rateBar: progress.New(
			progress.WithGradient("#4ade80", "#16a34a"),
			progress.WithWidth(30),
		),
		loading: true,
	}
}

func (m staffModel) Init() tea.Cmd {
	return tea.Batch(m.loadPatients(), m.loadStats())
}

func (m staffModel) loadPatients() tea.Cmd {
	s, q := m.store, m.search.Value()
	return func() tea.Msg {
		ps, err := s.Patients(context.Background(), q)
		return patientsLoadedMsg{patients: ps, err: err}
	}
}

func (m staffModel) loadStats() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		st, err := s.Stats(context.Background())
		return statsLoadedMsg{stats: st, err: err}
	}
}

func (m staffModel) editing() bool {
	return m.searching
}

// listVisible reports whether the current section shows the patient list.
func (m staffModel) listVisible() bool {
	return m.section == sectionPatients || m.section == sectionVerification
}

func (m staffModel) selected() (domain.Patient, bool) {
	if m.cursor < 0 || m.cursor >= len(m.patients) {
		return domain.Patient{}, false
	}
	return m.patients[m.cursor], true
}

func (m staffModel) Update(msg tea.Msg) (staffModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case patientsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.patients = msg.patients
		if m.cursor >= len(m.patients) {
			m.cursor = max(len(m.patients)-1, 0)
		}
		return m, nil

	case statsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.stats = msg.stats
		return m, nil

	case patientVerifiedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, records.ErrNotFound) {
				m.statusMsg = "patient no longer on record"
			} else {
				m.statusMsg = fmt.Sprintf("verification failed: %v", msg.err)
			}
			return m, nil
		}
		m.statusMsg = "biometrics verified for " + msg.patient.Name
		return m, tea.Batch(m.loadPatients(), m.loadStats())

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "copied " + msg.text
		}
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m staffModel) updateSearch(msg tea.KeyMsg) (staffModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.cursor = 0
		return m, m.loadPatients()
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.cursor = 0
		return m, m.loadPatients()
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m staffModel) updateKeys(msg tea.KeyMsg) (staffModel, tea.Cmd) {
	switch msg.String() {
	case "right", "l", "tab":
		m.section = (m.section + 1) % numStaffSections
	case "left", "h", "shift+tab":
		m.section = (m.section - 1 + numStaffSections) % numStaffSections
	case "j", "down":
		if m.listVisible() && m.cursor < len(m.patients)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.listVisible() && m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.section = sectionPatients
		m.searching = true
		m.search.SetValue("")
		return m, m.search.Focus()
	case "y":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		copyText, id := m.copyText, p.ID
		return m, func() tea.Msg {
			return copyResultMsg{text: id, err: copyText(id)}
		}
	case "v":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		s, id := m.store, p.ID
		return m, func() tea.Msg {
			got, err := s.VerifyPatient(context.Background(), id)
			return patientVerifiedMsg{patient: got, err: err}
		}
	case "r":
		m.loading = true
		return m, tea.Batch(m.loadPatients(), m.loadStats())
	}
	return m, nil
}

func (m staffModel) helpKeys() string {
	if m.searching {
		return helpBar(helpEntry("enter", "search"), helpEntry("esc", "clear"))
	}
	switch m.section {
	case sectionPatients:
		return helpBar(helpEntry("←/→", "section"), helpEntry("j/k", "nav"), helpEntry("/", "search"),
			helpEntry("y", "copy id"), helpEntry("v", "verify"), helpEntry("b", "home"), helpEntry("x", "logout"))
	case sectionVerification:
		return helpBar(helpEntry("←/→", "section"), helpEntry("j/k", "nav"), helpEntry("v", "verify"),
			helpEntry("b", "home"), helpEntry("x", "logout"))
	default:
		return helpBar(helpEntry("←/→", "section"), helpEntry("r", "refresh"), helpEntry("b", "home"), helpEntry("x", "logout"))
	}
}

func (m staffModel) View() string {
	var b strings.Builder
	b.WriteString(sectionTabs(staffSectionNames, int(m.section), staffColor) + "\n")
	b.WriteString(separator(m.width) + "\n")

	if m.err != "" {
		b.WriteString(" " + alertStyle.Render("error: "+m.err) + "\n")
	}

	switch m.section {
	case sectionPatients:
		b.WriteString(m.viewPatients())
	case sectionVerification:
		b.WriteString(m.viewVerification())
	case sectionAnalytics:
		b.WriteString(m.viewAnalytics())
	}

	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m staffModel) viewPatients() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(" " + m.search.View() + "\n\n")
	} else {
		b.WriteString(" " + dimStyle.Render("/ search...") + "\n\n")
	}

	if m.loading && len(m.patients) == 0 {
		return b.String() + " " + dimStyle.Render("loading patients...") + "\n"
	}
	if len(m.patients) == 0 {
		return b.String() + " " + dimStyle.Render("no matching patients") + "\n"
	}

	var list strings.Builder
	for i, p := range m.patients {
		line := fmt.Sprintf(" %-16s %s", truncStr(p.Name, 16), metaStyle.Render(p.ID))
		if i == m.cursor {
			line = selectedRowBg.Render(selectedStyle.Render(">") + line)
		} else {
			line = " " + line
		}
		list.WriteString(line + "\n")
	}

	p, _ := m.selected()
	pane := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(borderColor).
		PaddingLeft(2).
		Render(m.viewDetail(p))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), "  ", pane))
	return b.String() + "\n"
}

func (m staffModel) viewDetail(p domain.Patient) string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render(p.Name) + "  " + metaStyle.Render(p.ID) + "\n")
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", dimStyle.Render(fmt.Sprintf("%-11s", label)), value)
	}
	row("age", normalStyle.Render(fmt.Sprintf("%d", p.Age)))
	row("room", normalStyle.Render(p.Room))
	row("condition", conditionStyle(p.Condition).Render(p.Condition))
	row("last visit", normalStyle.Render(formatDate(p.LastVisit)))
	row("status", normalStyle.Render(p.Status))
	if len(p.Allergies) == 0 {
		row("allergies", dimStyle.Render("none known"))
	} else {
		row("allergies", warnStyle.Render(strings.Join(p.Allergies, ", ")))
	}
	row("biometrics", m.verifiedLabel(p))
	return b.String()
}

func (m staffModel) verifiedLabel(p domain.Patient) string {
	if p.BiometricVerifiedAt == nil {
		return dimStyle.Render("not verified this session")
	}
	return okStyle.Render("✓ verified " + formatAgo(*p.BiometricVerifiedAt, m.now()))
}

func (m staffModel) viewVerification() string {
	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Patient Verification") + "\n")
	b.WriteString(" " + dimStyle.Render("Confirm identity with a fresh biometric scan before treatment.") + "\n\n")
	for i, p := range m.patients {
		line := fmt.Sprintf(" %-16s %-8s %s", truncStr(p.Name, 16), p.Room, m.verifiedLabel(p))
		if i == m.cursor {
			line = selectedRowBg.Render(selectedStyle.Render(">") + line)
		} else {
			line = " " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m staffModel) viewAnalytics() string {
	st := m.stats
	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Hospital Analytics") + "\n\n")
	fmt.Fprintf(&b, " %s %s\n", dimStyle.Render(fmt.Sprintf("%-22s", "active patients")), selectedStyle.Render(fmt.Sprintf("%d", st.ActivePatients)))
	fmt.Fprintf(&b, " %s %s\n", dimStyle.Render(fmt.Sprintf("%-22s", "staff online")), selectedStyle.Render(fmt.Sprintf("%d", st.StaffOnline)))
	fmt.Fprintf(&b, " %s %s\n", dimStyle.Render(fmt.Sprintf("%-22s", "verified this session")),
		selectedStyle.Render(fmt.Sprintf("%d / %d", st.VerifiedPatients, st.TotalPatients)))
	fmt.Fprintf(&b, "\n %s\n %s\n", dimStyle.Render("biometric success rate"), m.rateBar.ViewAs(st.BiometricSuccessRate))
	return b.String()
}
