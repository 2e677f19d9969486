package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/medicare-portal/medicare/internal/portal"
	"github.com/medicare-portal/medicare/pkg/domain"
	"github.com/medicare-portal/medicare/pkg/records"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	sched := NewScheduler()
	p, err := portal.New(portal.DefaultScanConfig(), sched, nil)
	if err != nil {
		t.Fatalf("portal.New() error: %v", err)
	}
	a := NewApp(Deps{
		Portal:     p,
		Scheduler:  sched,
		Records:    records.New(),
		SupportURL: "https://support.medicare.test",
		OpenURL:    func(string) error { return nil },
		CopyText:   func(string) error { return nil },
	})
	model, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	return model.(App)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(a App, keys ...string) App {
	for _, k := range keys {
		model, _ := a.Update(keyMsg(k))
		a = model.(App)
	}
	return a
}

// fireN delivers the next n scheduled scan timers.
func fireN(t *testing.T, a App, n int) App {
	t.Helper()
	for i := 0; i < n; i++ {
		ids := a.sched.pendingIDs()
		if len(ids) == 0 {
			t.Fatalf("no timer pending after %d fires", i)
		}
		model, _ := a.Update(scanFireMsg{id: ids[0]})
		a = model.(App)
	}
	return a
}

// settle fires timers until none are left and returns the last command.
func settle(t *testing.T, a App) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for i := 0; i < 1000; i++ {
		ids := a.sched.pendingIDs()
		if len(ids) == 0 {
			return a, cmd
		}
		var model tea.Model
		model, cmd = a.Update(scanFireMsg{id: ids[0]})
		a = model.(App)
	}
	t.Fatal("scan never settled")
	return a, nil
}

// drain runs cmd and feeds its messages back into a. Only use it with
// commands that do not sleep.
func drain(a App, cmd tea.Cmd) App {
	if cmd == nil {
		return a
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			a = drain(a, c)
		}
	case nil:
	default:
		model, _ := a.Update(msg)
		a = model.(App)
	}
	return a
}

func signIn(t *testing.T, role domain.Role) App {
	t.Helper()
	a := newTestApp(t)
	if role == domain.RoleStaff {
		a = press(a, "right")
	}
	a = press(a, "enter")
	a, cmd := settle(t, a)
	return drain(a, cmd)
}

func TestAppStartsOnHome(t *testing.T) {
	a := newTestApp(t)
	if a.view() != domain.ViewHome {
		t.Fatalf("expected home view, got %v", a.view())
	}
	view := a.View()
	for _, want := range []string{"Patient Access", "Staff Portal", "Touch to Scan", "Start Biometric Scan", "Why Choose MediCare Portal?"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected home view to contain %q", want)
		}
	}
}

func TestAppTabsLockedWhenSignedOut(t *testing.T) {
	for _, k := range []string{"2", "3"} {
		t.Run(k, func(t *testing.T) {
			a := press(newTestApp(t), k)
			if a.view() != domain.ViewHome {
				t.Errorf("after %q: rendered %v, want home", k, a.view())
			}
			if !strings.Contains(a.notice, "locked") {
				t.Errorf("expected locked notice, got %q", a.notice)
			}
			if !strings.Contains(a.View(), "locked") {
				t.Error("notice should be rendered")
			}
		})
	}
}

func TestAppPatientScanOpensDashboard(t *testing.T) {
	a := press(newTestApp(t), "enter")
	if got := a.portal.Session().Status; got != domain.StatusAuthenticating {
		t.Fatalf("status after enter = %v, want authenticating", got)
	}

	a = fireN(t, a, 10)
	if !strings.Contains(a.View(), "Scanning...") {
		t.Error("expected Scanning... while the scan runs")
	}
	if !strings.Contains(a.View(), "Authenticating...") {
		t.Error("expected Authenticating... on the button")
	}

	a = fireN(t, a, 10)
	if a.portal.ScanState().Phase != domain.ScanVerified {
		t.Fatalf("phase = %v, want verified", a.portal.ScanState().Phase)
	}
	if !strings.Contains(a.View(), "Access Granted") {
		t.Error("expected Access Granted once verified")
	}
	if a.view() != domain.ViewHome {
		t.Error("the dashboard opens only after the settle delay")
	}

	a, cmd := settle(t, a)
	if a.view() != domain.ViewPatient {
		t.Fatalf("after settle rendered %v, want patient", a.view())
	}
	a = drain(a, cmd)
	view := a.View()
	if !strings.Contains(view, "[patient portal]") {
		t.Error("expected patient role badge in header")
	}
	if !strings.Contains(view, "Welcome back, John Doe") {
		t.Errorf("expected patient overview, got:\n%s", view)
	}
}

func TestAppStaffScanOpensPortal(t *testing.T) {
	a := signIn(t, domain.RoleStaff)
	if a.view() != domain.ViewStaff {
		t.Fatalf("rendered %v, want staff", a.view())
	}
	view := a.View()
	if !strings.Contains(view, "[staff portal]") {
		t.Error("expected staff role badge in header")
	}
	if !strings.Contains(view, "Sarah Johnson") {
		t.Errorf("expected patient list, got:\n%s", view)
	}
}

func TestAppEscCancelsScan(t *testing.T) {
	a := press(newTestApp(t), "enter")
	a = fireN(t, a, 3)
	a = press(a, "esc")

	if got := a.portal.Session(); got != (domain.Session{}) {
		t.Errorf("session after cancel = %+v, want zero", got)
	}
	if a.portal.ScanState().Active() {
		t.Error("scan should be idle after cancel")
	}
	if n := len(a.sched.pendingIDs()); n != 0 {
		t.Errorf("expected no live timers after cancel, got %d", n)
	}
	if !strings.Contains(a.View(), "scan cancelled") {
		t.Error("expected cancel status on home")
	}
}

func TestAppSecondScanRejected(t *testing.T) {
	a := press(newTestApp(t), "enter", "right", "enter")
	if !strings.Contains(a.home.statusMsg, "already in progress") {
		t.Errorf("statusMsg = %q", a.home.statusMsg)
	}
	a, _ = settle(t, a)
	if a.portal.Session().Role != domain.RolePatient {
		t.Errorf("role = %v, want the first entry point's role", a.portal.Session().Role)
	}
}

func TestAppLogoutReturnsHome(t *testing.T) {
	a := signIn(t, domain.RolePatient)
	a = press(a, "x")

	if a.view() != domain.ViewHome {
		t.Errorf("rendered %v after logout, want home", a.view())
	}
	if a.portal.Session().Authenticated() {
		t.Error("session should be signed out")
	}
	if a.notice != "signed out" {
		t.Errorf("notice = %q", a.notice)
	}

	a = press(a, "2")
	if a.view() != domain.ViewHome {
		t.Error("patient dashboard must be locked again after logout")
	}

	a = press(a, "x")
	if a.notice != "not signed in" {
		t.Errorf("second logout notice = %q", a.notice)
	}
}

func TestAppBackHomeKeepsSession(t *testing.T) {
	a := signIn(t, domain.RolePatient)
	a = press(a, "b")
	if a.view() != domain.ViewHome {
		t.Fatalf("rendered %v after b, want home", a.view())
	}
	if !a.portal.Session().Authenticated() {
		t.Fatal("going home must not sign out")
	}

	a = press(a, "enter")
	if !strings.Contains(a.home.statusMsg, "already signed in") {
		t.Errorf("statusMsg = %q", a.home.statusMsg)
	}

	a = press(a, "2")
	if a.view() != domain.ViewPatient {
		t.Errorf("rendered %v after 2, want patient", a.view())
	}
}

func TestAppRoleGateBlocksOtherDashboard(t *testing.T) {
	a := signIn(t, domain.RoleStaff)
	a = press(a, "2")
	if a.view() != domain.ViewHome {
		t.Errorf("staff session rendered %v for patient request, want home", a.view())
	}
	if !strings.Contains(a.notice, "not available to staff sessions") {
		t.Errorf("notice = %q", a.notice)
	}
}

func TestAppLogoutDuringScan(t *testing.T) {
	a := press(newTestApp(t), "enter")
	a = fireN(t, a, 5)
	a = press(a, "x")

	if a.portal.Session() != (domain.Session{}) {
		t.Errorf("session = %+v, want zero", a.portal.Session())
	}
	if len(a.sched.pendingIDs()) != 0 {
		t.Error("logout must stop the scan timers")
	}
}

func TestAppGlobalQuit(t *testing.T) {
	a := newTestApp(t)
	if _, cmd := a.Update(keyMsg("q")); cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
}

func TestAppCtrlCQuitsWhileEditing(t *testing.T) {
	a := signIn(t, domain.RolePatient)
	a = press(a, "s")
	if !a.isEditing() {
		t.Fatal("schedule form should capture keys")
	}
	if _, cmd := a.Update(keyMsg("ctrl+c")); cmd == nil {
		t.Fatal("expected quit command on ctrl+c")
	}
}

func TestAppEditingSuppressesGlobalKeys(t *testing.T) {
	a := signIn(t, domain.RolePatient)
	a = press(a, "s", "x", "q", "1")
	if !a.portal.Session().Authenticated() {
		t.Error("x typed into the form must not log out")
	}
	if a.view() != domain.ViewPatient {
		t.Errorf("rendered %v, want patient", a.view())
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a := press(newTestApp(t), "?")
	if !a.helpOpen {
		t.Fatal("expected help overlay open")
	}
	view := a.View()
	if !strings.Contains(view, "Contact Support") {
		t.Errorf("expected support link in help, got:\n%s", view)
	}

	var opened string
	a.openURL = func(u string) error { opened = u; return nil }
	_, cmd := a.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected open command")
	}
	cmd()
	if opened != "https://support.medicare.test" {
		t.Errorf("opened %q", opened)
	}

	a = press(a, "esc")
	if a.helpOpen {
		t.Error("esc should close help")
	}
}

func TestAppTabBarShowsLocks(t *testing.T) {
	view := newTestApp(t).View()
	if strings.Count(view, "🔒") != 2 {
		t.Errorf("expected both dashboards locked, got:\n%s", view)
	}

	view = signIn(t, domain.RolePatient).View()
	if strings.Count(view, "🔒") != 1 {
		t.Errorf("expected only the staff tab locked, got:\n%s", view)
	}
}
