package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/medicare-portal/medicare/internal/browser"
	"github.com/medicare-portal/medicare/internal/logging"
	"github.com/medicare-portal/medicare/internal/portal"
	"github.com/medicare-portal/medicare/pkg/domain"
	"github.com/medicare-portal/medicare/pkg/records"
)

// chrome is header(2) + tabs(1) + notice(1) + help(1).
const chrome = 5

// Deps is everything the UI needs from the rest of the program.
type Deps struct {
	Portal     *portal.Portal
	Scheduler  *Scheduler
	Records    *records.Store
	Log        logrus.FieldLogger
	SupportURL string

	// OpenURL and CopyText default to the system browser and clipboard.
	OpenURL  func(string) error
	CopyText func(string) error
}

// App is the root Bubbletea model. It keeps the view the user asked for and
// renders whatever the portal authorizes for the current session.
type App struct {
	portal     *portal.Portal
	sched      *Scheduler
	store      *records.Store
	log        logrus.FieldLogger
	openURL    func(string) error
	copyText   func(string) error
	supportURL string

	requested  domain.View
	home       homeModel
	patient    patientModel
	staff      staffModel
	helpOpen   bool
	helpCursor int
	notice     string
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates the TUI. Deps.Portal must be built on Deps.Scheduler so scan
// timers come back through Update.
func NewApp(d Deps) App {
	if d.OpenURL == nil {
		d.OpenURL = browser.Open
	}
	if d.CopyText == nil {
		d.CopyText = clipboard.WriteAll
	}
	return App{
		portal:     d.Portal,
		sched:      d.Scheduler,
		store:      d.Records,
		log:        logging.OrDiscard(d.Log),
		openURL:    d.OpenURL,
		copyText:   d.CopyText,
		supportURL: d.SupportURL,
		requested:  domain.ViewHome,
		home:       newHomeModel(d.Portal),
		patient:    newPatientModel(d.Records, d.OpenURL, d.SupportURL),
		staff:      newStaffModel(d.Records, d.CopyText),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.home.Init(), shimmerTickCmd())
}

// view is the screen actually rendered.
func (a App) view() domain.View {
	return a.portal.Authorize(a.requested)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a = a.resize()
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case scanFireMsg:
		return a.onScanFire(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.notice = ""

		if a.helpOpen {
			return a.updateHelp(msg)
		}

		if !a.isEditing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "?":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "1":
				return a.request(domain.ViewHome)
			case "2":
				return a.request(domain.ViewPatient)
			case "3":
				return a.request(domain.ViewStaff)
			case "x":
				return a.logout()
			case "b", "esc":
				// esc on home belongs to the scan cards
				if a.view() != domain.ViewHome {
					return a.request(domain.ViewHome)
				}
			}
		}
	}

	var cmd tea.Cmd
	switch msg.(type) {
	case historyLoadedMsg, appointmentsLoadedMsg, appointmentBookedMsg, recordsRequestedMsg, supportOpenedMsg:
		a.patient, cmd = a.patient.Update(msg)
	case patientsLoadedMsg, statsLoadedMsg, patientVerifiedMsg, copyResultMsg:
		a.staff, cmd = a.staff.Update(msg)
	case spinner.TickMsg:
		a.home, cmd = a.home.Update(msg)
	default:
		switch a.view() {
		case domain.ViewHome:
			a.home, cmd = a.home.Update(msg)
		case domain.ViewPatient:
			a.patient, cmd = a.patient.Update(msg)
		case domain.ViewStaff:
			a.staff, cmd = a.staff.Update(msg)
		}
	}

	// A key may have started a scan; hand its first tick to bubbletea.
	return a, tea.Batch(cmd, a.sched.flush())
}

func (a App) resize() App {
	body := tea.WindowSizeMsg{Width: a.width, Height: a.height - chrome}
	a.home, _ = a.home.Update(body)
	a.patient, _ = a.patient.Update(body)
	a.staff, _ = a.staff.Update(body)
	return a
}

func (a App) onScanFire(msg scanFireMsg) (tea.Model, tea.Cmd) {
	before := a.portal.Session()
	cmd := a.sched.fire(msg.id)
	after := a.portal.Session()

	if before.Authenticated() || !after.Authenticated() {
		return a, cmd
	}
	a.requested = a.portal.CurrentView()
	a.log.WithFields(logrus.Fields{
		"role": after.Role.String(),
		"view": a.requested.String(),
	}).Info("routing to dashboard")
	return a, tea.Batch(cmd, a.initView(a.requested))
}

// request records the view the user asked for. The gate decides what is
// shown; a denied request leaves the user on Home with a notice.
func (a App) request(v domain.View) (tea.Model, tea.Cmd) {
	a.requested = v
	if got := a.portal.Authorize(v); got != v {
		a.notice = lockedNotice(v, a.portal.Session())
		a.log.WithField("view", v.String()).Debug("view request denied")
		return a, nil
	}
	return a, a.initView(v)
}

var viewTitles = map[domain.View]string{
	domain.ViewHome:    "home",
	domain.ViewPatient: "patient dashboard",
	domain.ViewStaff:   "staff portal",
}

func lockedNotice(v domain.View, s domain.Session) string {
	if s.Authenticated() {
		return fmt.Sprintf("%s is not available to %s sessions", viewTitles[v], s.Role)
	}
	return fmt.Sprintf("%s is locked: complete a biometric scan first", viewTitles[v])
}

func (a App) initView(v domain.View) tea.Cmd {
	switch v {
	case domain.ViewPatient:
		return a.patient.Init()
	case domain.ViewStaff:
		return a.staff.Init()
	}
	return nil
}

func (a App) logout() (tea.Model, tea.Cmd) {
	if err := a.portal.Logout(); err != nil {
		a.notice = "not signed in"
		return a, nil
	}
	a.notice = "signed out"
	a.requested = domain.ViewHome
	a.patient = newPatientModel(a.store, a.openURL, a.supportURL)
	a.staff = newStaffModel(a.store, a.copyText)
	return a.resize(), nil
}

func (a App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := helpItems(a.supportURL)
	switch msg.String() {
	case "?", "esc":
		a.helpOpen = false
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.helpCursor < len(items)-1 {
			a.helpCursor++
		}
	case "k", "up":
		if a.helpCursor > 0 {
			a.helpCursor--
		}
	case "enter":
		if a.helpCursor < len(items) {
			open, url := a.openURL, items[a.helpCursor].url
			return a, func() tea.Msg {
				return supportOpenedMsg{err: open(url)}
			}
		}
	}
	return a, nil
}

func (a App) isEditing() bool {
	switch a.view() {
	case domain.ViewPatient:
		return a.patient.editing()
	case domain.ViewStaff:
		return a.staff.editing()
	}
	return false
}

func (a App) View() string {
	s := a.portal.Session()

	header := center(renderShimmerLogo(a.frame), a.width) + "\n"
	sub := dimStyle.Render("Advanced Healthcare Management")
	if s.Authenticated() {
		sub += "  " + RoleBadge(s.Role)
	}
	header += center(sub, a.width)

	current := a.view()
	tabs := []struct {
		key  string
		name string
		v    domain.View
	}{
		{"1", "Home", domain.ViewHome},
		{"2", "Patient", domain.ViewPatient},
		{"3", "Staff", domain.ViewStaff},
	}
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		switch {
		case t.v == current:
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		case a.portal.Authorize(t.v) != t.v:
			label = lockedStyle.Render(t.key + " " + t.name + " 🔒")
		default:
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body, help string
	switch current {
	case domain.ViewHome:
		body = a.home.View()
		if a.portal.ScanState().Active() {
			help = helpBar(helpEntry("esc", "cancel scan"), helpEntry("?", "help"), helpEntry("q", "quit"))
		} else {
			help = helpBar(helpEntry("←/→", "select"), helpEntry("enter", "scan"), helpEntry("1-3", "tabs"),
				helpEntry("x", "logout"), helpEntry("?", "help"), helpEntry("q", "quit"))
		}
	case domain.ViewPatient:
		body = a.patient.View()
		help = a.patient.helpKeys()
	case domain.ViewStaff:
		body = a.staff.View()
		help = a.staff.helpKeys()
	}

	if a.helpOpen {
		body = helpView(helpItems(a.supportURL), a.helpCursor)
		help = helpBar(helpEntry("j/k", "nav"), helpEntry("enter", "open"), helpEntry("esc", "close"))
	}

	notice := ""
	if a.notice != "" {
		notice = " " + noticeStyle.Render(a.notice)
	}

	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, notice, help)
}
