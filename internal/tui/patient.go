package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/medicare-portal/medicare/pkg/domain"
	"github.com/medicare-portal/medicare/pkg/records"
)

type patientSection int

const (
	sectionOverview patientSection = iota
	sectionHistory
	sectionAppointments
	sectionSchedule
	numPatientSections
)

var patientSectionNames = []string{"Overview", "Medical History", "Appointments", "Schedule"}

type historyLoadedMsg struct {
	records []domain.MedicalRecord
	err     error
}

type appointmentsLoadedMsg struct {
	appointments []domain.Appointment
	err          error
}

type appointmentBookedMsg struct {
	appointment *domain.Appointment
	err         error
}

type recordsRequestedMsg struct {
	reference string
	err       error
}

type supportOpenedMsg struct {
	err error
}

type patientModel struct {
	store      *records.Store
	openURL    func(string) error
	supportURL string

	section      patientSection
	history      []domain.MedicalRecord
	cursor       int
	search       textinput.Model
	searching    bool
	appointments []domain.Appointment
	form         scheduleForm
	loading      bool
	err          string
	statusMsg    string
	width        int
	height       int
}

func newSearchInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = placeholder
	ti.CharLimit = 80
	ti.Width = 40
	ti.PromptStyle = searchStyle
	ti.TextStyle = searchStyle
	ti.PlaceholderStyle = dimStyle
	return ti
}

func newPatientModel(s *records.Store, openURL func(string) error, supportURL string) patientModel {
	return patientModel{
		store:      s,
		openURL:    openURL,
		supportURL: supportURL,
		search:     newSearchInput("search diagnosis, doctor or treatment..."),
		form:       newScheduleForm(s),
		loading:    true,
	}
}

func (m patientModel) Init() tea.Cmd {
	return tea.Batch(m.loadHistory(), m.loadAppointments())
}

func (m patientModel) loadHistory() tea.Cmd {
	s, q := m.store, m.search.Value()
	return func() tea.Msg {
		recs, err := s.MedicalHistory(context.Background(), q)
		return historyLoadedMsg{records: recs, err: err}
	}
}

func (m patientModel) loadAppointments() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		appts, err := s.Appointments(context.Background())
		return appointmentsLoadedMsg{appointments: appts, err: err}
	}
}

// editing reports whether keystrokes belong to a text field.
func (m patientModel) editing() bool {
	return m.searching || m.section == sectionSchedule
}

func (m patientModel) Update(msg tea.Msg) (patientModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case historyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.history = msg.records
		if m.cursor >= len(m.history) {
			m.cursor = max(len(m.history)-1, 0)
		}
		return m, nil

	case appointmentsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.appointments = msg.appointments
		return m, nil

	case appointmentBookedMsg:
		m.form.submitting = false
		if msg.err != nil {
			var vErr *records.ValidationError
			if errors.As(msg.err, &vErr) {
				m.form.statusMsg = vErr.Error()
			} else {
				m.form.statusMsg = msg.err.Error()
			}
			return m, nil
		}
		a := msg.appointment
		m.statusMsg = fmt.Sprintf("appointment booked: %s %s with %s", formatDate(a.Date), a.Time, a.Doctor)
		m.form = newScheduleForm(m.store)
		m.section = sectionAppointments
		return m, m.loadAppointments()

	case recordsRequestedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("records request failed: %v", msg.err)
		} else {
			m.statusMsg = "records requested, reference " + truncStr(msg.reference, 9)
		}
		return m, nil

	case supportOpenedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("could not open browser, visit %s", m.supportURL)
		} else {
			m.statusMsg = "opened support in your browser"
		}
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.section == sectionSchedule {
			return m.updateForm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m patientModel) updateSearch(msg tea.KeyMsg) (patientModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.cursor = 0
		return m, m.loadHistory()
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.cursor = 0
		return m, m.loadHistory()
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m patientModel) updateForm(msg tea.KeyMsg) (patientModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.section = sectionOverview
		return m, nil
	case "ctrl+s":
		req, err := m.form.request()
		if err != nil {
			m.form.statusMsg = err.Error()
			return m, nil
		}
		m.form.submitting = true
		m.form.statusMsg = ""
		s := m.store
		return m, func() tea.Msg {
			appt, err := s.ScheduleAppointment(context.Background(), req)
			return appointmentBookedMsg{appointment: appt, err: err}
		}
	}
	m.form = m.form.update(msg.String())
	return m, nil
}

func (m patientModel) updateKeys(msg tea.KeyMsg) (patientModel, tea.Cmd) {
	switch msg.String() {
	case "right", "l", "tab":
		m.section = (m.section + 1) % numPatientSections
	case "left", "h", "shift+tab":
		m.section = (m.section - 1 + numPatientSections) % numPatientSections
	case "j", "down":
		if m.section == sectionHistory && m.cursor < len(m.history)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.section == sectionHistory && m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.section = sectionHistory
		m.searching = true
		m.search.SetValue("")
		return m, m.search.Focus()
	case "s":
		m.section = sectionSchedule
	case "c":
		if m.supportURL == "" {
			m.statusMsg = "no support URL configured"
			return m, nil
		}
		open, url := m.openURL, m.supportURL
		return m, func() tea.Msg {
			return supportOpenedMsg{err: open(url)}
		}
	case "r":
		s := m.store
		return m, func() tea.Msg {
			ref, err := s.RequestRecords(context.Background())
			return recordsRequestedMsg{reference: ref, err: err}
		}
	}
	return m, nil
}

func (m patientModel) helpKeys() string {
	switch {
	case m.searching:
		return helpBar(helpEntry("enter", "search"), helpEntry("esc", "clear"))
	case m.section == sectionSchedule:
		return helpBar(helpEntry("tab/↑↓", "field"), helpEntry("h/l", "cycle"), helpEntry("ctrl+s", "book"), helpEntry("esc", "cancel"))
	case m.section == sectionHistory:
		return helpBar(helpEntry("←/→", "section"), helpEntry("j/k", "nav"), helpEntry("/", "search"),
			helpEntry("b", "home"), helpEntry("x", "logout"), helpEntry("?", "help"))
	default:
		return helpBar(helpEntry("←/→", "section"), helpEntry("s", "schedule"), helpEntry("c", "support"),
			helpEntry("r", "records"), helpEntry("b", "home"), helpEntry("x", "logout"), helpEntry("?", "help"))
	}
}

func (m patientModel) View() string {
	var b strings.Builder
	b.WriteString(sectionTabs(patientSectionNames, int(m.section), patientColor) + "\n")
	b.WriteString(separator(m.width) + "\n")

	if m.err != "" {
		b.WriteString(" " + alertStyle.Render("error: "+m.err) + "\n")
	}

	switch m.section {
	case sectionOverview:
		b.WriteString(m.viewOverview())
	case sectionHistory:
		b.WriteString(m.viewHistory())
	case sectionAppointments:
		b.WriteString(m.viewAppointments())
	case sectionSchedule:
		b.WriteString(m.form.view())
	}

	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m patientModel) viewOverview() string {
	p := m.store.Profile()
	v := m.store.Vitals()

	var b strings.Builder
	fmt.Fprintf(&b, "\n %s\n", selectedStyle.Render("Welcome back, "+p.Name))
	fmt.Fprintf(&b, " %s\n\n", dimStyle.Render("Your health information at a glance"))

	fmt.Fprintf(&b, " %s\n", sectionHeaderStyle.Render("Latest vitals"))
	fmt.Fprintf(&b, "   %s %s   %s %s   %s %s\n\n",
		dimStyle.Render("blood pressure"), normalStyle.Render(v.BloodPressure),
		dimStyle.Render("heart rate"), normalStyle.Render(fmt.Sprintf("%d bpm", v.HeartRate)),
		dimStyle.Render("weight"), normalStyle.Render(fmt.Sprintf("%d kg", v.WeightKg)))

	fmt.Fprintf(&b, " %s\n", sectionHeaderStyle.Render("Next appointment"))
	if len(m.appointments) == 0 {
		fmt.Fprintf(&b, "   %s\n\n", dimStyle.Render("nothing scheduled (s to book)"))
	} else {
		a := m.appointments[0]
		fmt.Fprintf(&b, "   %s %s  %s  %s\n\n",
			normalStyle.Render(formatDate(a.Date)), normalStyle.Render(a.Time),
			selectedStyle.Render(a.Doctor), dimStyle.Render(a.Department))
	}

	fmt.Fprintf(&b, " %s  %s\n", dimStyle.Render("primary care physician"), normalStyle.Render(p.PrimaryPhysician))
	fmt.Fprintf(&b, " %s  %s\n", dimStyle.Render("emergency contact     "), normalStyle.Render(p.EmergencyContact))
	return b.String()
}

func (m patientModel) viewHistory() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(" " + m.search.View() + "\n\n")
	} else {
		b.WriteString(" " + dimStyle.Render("/ search...") + "\n\n")
	}

	if m.loading && len(m.history) == 0 {
		return b.String() + " " + dimStyle.Render("loading records...") + "\n"
	}
	if len(m.history) == 0 {
		return b.String() + " " + dimStyle.Render("no matching records") + "\n"
	}

	for i, r := range m.history {
		line := fmt.Sprintf(" %s  %-20s %-20s %s",
			metaStyle.Render(formatDate(r.Date)),
			truncStr(r.Diagnosis, 20),
			truncStr(r.Doctor, 20),
			recordStatusStyle(r.Status).Render(r.Status))
		if i == m.cursor {
			line = selectedRowBg.Render(selectedStyle.Render(">") + line)
		} else {
			line = " " + line
		}
		b.WriteString(line + "\n")
		if i == m.cursor {
			b.WriteString("              " + dimStyle.Render("treatment: "+r.Treatment) + "\n")
		}
	}
	return b.String()
}

func (m patientModel) viewAppointments() string {
	var b strings.Builder
	b.WriteString("\n")
	if len(m.appointments) == 0 {
		b.WriteString(" " + dimStyle.Render("no upcoming appointments (s to book)") + "\n")
		return b.String()
	}
	for _, a := range m.appointments {
		fmt.Fprintf(&b, " %s %s  %-22s %-20s %s\n",
			normalStyle.Render(formatDate(a.Date)),
			normalStyle.Render(a.Time),
			truncStr(a.Doctor, 22),
			truncStr(a.Department, 20),
			dimStyle.Render(a.Type))
	}
	return b.String()
}

// scheduleField indexes the appointment form.
type scheduleField int

const (
	fieldDate scheduleField = iota
	fieldTime
	fieldDepartment
	fieldDoctor
	fieldType
	fieldReason
	numScheduleFields
)

// scheduleForm is the appointment booking form. Option fields hold an
// index into their list, -1 when nothing is chosen. The doctor index is
// into availableDoctors, which follows the chosen department.
type scheduleForm struct {
	focus      scheduleField
	date       string
	reason     string
	choice     [numScheduleFields]int
	timeSlots  []string
	doctors    []domain.Doctor
	depts      []string
	types      []string
	submitting bool
	statusMsg  string
}

func newScheduleForm(s *records.Store) scheduleForm {
	f := scheduleForm{
		timeSlots: s.TimeSlots(),
		doctors:   s.Doctors(),
		depts:     s.Departments(),
		types:     s.AppointmentTypes(),
	}
	for i := range f.choice {
		f.choice[i] = -1
	}
	return f
}

// availableDoctors returns the doctors in the chosen department, or all of
// them when no department is chosen.
func (f scheduleForm) availableDoctors() []domain.Doctor {
	c := f.choice[fieldDepartment]
	if c < 0 {
		return f.doctors
	}
	var out []domain.Doctor
	for _, d := range f.doctors {
		if d.Department == f.depts[c] {
			out = append(out, d)
		}
	}
	return out
}

func (f scheduleForm) selectedDoctor() (domain.Doctor, bool) {
	docs := f.availableDoctors()
	c := f.choice[fieldDoctor]
	if c < 0 || c >= len(docs) {
		return domain.Doctor{}, false
	}
	return docs[c], true
}

func (f scheduleForm) options(field scheduleField) int {
	switch field {
	case fieldTime:
		return len(f.timeSlots)
	case fieldDoctor:
		return len(f.availableDoctors())
	case fieldDepartment:
		return len(f.depts)
	case fieldType:
		return len(f.types)
	}
	return 0
}

func isTextField(field scheduleField) bool {
	return field == fieldDate || field == fieldReason
}

func (f scheduleForm) update(key string) scheduleForm {
	f.statusMsg = ""
	switch key {
	case "tab", "down", "enter":
		f.focus = (f.focus + 1) % numScheduleFields
		return f
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + numScheduleFields) % numScheduleFields
		return f
	}

	if !isTextField(f.focus) {
		n := f.options(f.focus)
		if n == 0 {
			return f
		}
		c := f.choice[f.focus]
		switch key {
		case "l", "right":
			f.choice[f.focus] = (c + 1) % n
		case "h", "left":
			if c <= 0 {
				f.choice[f.focus] = n - 1
			} else {
				f.choice[f.focus] = c - 1
			}
		case "backspace":
			f.choice[f.focus] = -1
		default:
			return f
		}
		if f.focus == fieldDepartment && f.choice[fieldDepartment] != c {
			f.choice[fieldDoctor] = -1
		}
		return f
	}

	switch f.focus {
	case fieldDate:
		if key == "backspace" || (strings.ContainsAny(key, "0123456789-") && len(f.date) < len(domain.DateLayout)) {
			f.date = editRune(f.date, key)
		}
	case fieldReason:
		f.reason = editRune(f.reason, key)
	}
	return f
}

// request builds the store request. Missing fields are left empty for the
// store to reject; only a malformed date is caught here.
func (f scheduleForm) request() (records.ScheduleRequest, error) {
	var req records.ScheduleRequest
	if f.date != "" {
		d, err := time.ParseInLocation(domain.DateLayout, f.date, time.Local)
		if err != nil {
			return req, fmt.Errorf("date must look like %s", domain.DateLayout)
		}
		req.Date = d
	}
	if c := f.choice[fieldTime]; c >= 0 {
		req.Time = f.timeSlots[c]
	}
	if d, ok := f.selectedDoctor(); ok {
		req.DoctorID = d.ID
	}
	if c := f.choice[fieldDepartment]; c >= 0 {
		req.Department = f.depts[c]
	}
	if c := f.choice[fieldType]; c >= 0 {
		req.Type = f.types[c]
	}
	req.Reason = f.reason
	return req, nil
}

func (f scheduleForm) value(field scheduleField) string {
	c := f.choice[field]
	switch field {
	case fieldDate:
		return f.date
	case fieldReason:
		return f.reason
	case fieldDoctor:
		if d, ok := f.selectedDoctor(); ok {
			return d.Name + " · " + d.Department
		}
	case fieldTime:
		if c >= 0 {
			return f.timeSlots[c]
		}
	case fieldDepartment:
		if c >= 0 {
			return f.depts[c]
		}
		if d, ok := f.selectedDoctor(); ok {
			return dimStyle.Render(d.Department + " (doctor's)")
		}
	case fieldType:
		if c >= 0 {
			return f.types[c]
		}
	}
	return ""
}

func (f scheduleForm) view() string {
	labels := [numScheduleFields]string{"date *", "time *", "department", "doctor *", "type *", "reason"}
	hints := [numScheduleFields]string{domain.DateLayout, "h/l to cycle", "h/l to cycle", "h/l to cycle", "h/l to cycle", "optional"}
	if f.options(fieldDoctor) == 0 {
		hints[fieldDoctor] = "no doctors in this department"
	}

	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Schedule New Appointment") + "\n\n")
	for i := scheduleField(0); i < numScheduleFields; i++ {
		cursor := " "
		style := metaStyle
		if i == f.focus {
			cursor = searchStyle.Render(">")
			style = selectedStyle
		}
		value := f.value(i)
		if i == f.focus && isTextField(i) {
			value += "█"
		}
		if value == "" || value == "█" {
			value += dimStyle.Render(" " + hints[i])
		}
		fmt.Fprintf(&b, " %s %s %s\n", cursor, style.Render(fmt.Sprintf("%-11s", labels[i])), value)
	}

	b.WriteString("\n")
	if f.submitting {
		b.WriteString(" " + dimStyle.Render("booking..."))
	} else if f.statusMsg != "" {
		b.WriteString(" " + alertStyle.Render(f.statusMsg))
	}
	return b.String()
}
