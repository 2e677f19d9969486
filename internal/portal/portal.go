// Package portal holds the authentication flow of the MediCare portal: the
// session controller, the simulated biometric scan, and the view router and
// role gate that decide which screen a session may see.
package portal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/medicare-portal/medicare/internal/logging"
	"github.com/medicare-portal/medicare/pkg/domain"
)

// Portal ties one scan simulator to the session it authenticates. The UI is
// handed a *Portal; there is no package-level session.
type Portal struct {
	mu       sync.Mutex
	session  *SessionController
	scanner  *ScanSimulator
	scanRole domain.Role
	scanSeq  uint64 // identifies the scan whose completion may authenticate
	log      logrus.FieldLogger
}

// New builds a portal with an unauthenticated session and an idle scanner.
func New(cfg ScanConfig, sched Scheduler, log logrus.FieldLogger) (*Portal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("portal.New: %w", err)
	}
	if sched == nil {
		return nil, errors.New("portal.New: nil scheduler")
	}
	log = logging.OrDiscard(log)
	return &Portal{
		session: NewSessionController(log),
		scanner: NewScanSimulator(cfg, sched, log),
		log:     log,
	}, nil
}

// Session returns a copy of the current session.
func (p *Portal) Session() domain.Session {
	return p.session.Session()
}

// ScanState returns a snapshot of the scanner.
func (p *Portal) ScanState() domain.ScanState {
	return p.scanner.State()
}

// ScanRole returns the role the in-flight scan will authenticate, or
// RoleNone when no scan is running.
func (p *Portal) ScanRole() domain.Role {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scanRole
}

// CurrentView returns the screen the current session maps to.
func (p *Portal) CurrentView() domain.View {
	return CurrentView(p.Session())
}

// Authorize gates a requested view against the current session.
func (p *Portal) Authorize(requested domain.View) domain.View {
	return Authorize(p.Session(), requested)
}

// StartScan starts a scan that authenticates role when it completes. The
// role is fixed by the entry point that calls it.
func (p *Portal) StartScan(role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("portal.StartScan: %w: %d", ErrInvalidRole, int(role))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.scanner.State().Active() {
		return fmt.Errorf("portal.StartScan: %w", ErrScanInProgress)
	}
	if err := p.session.BeginAuthentication(); err != nil {
		return fmt.Errorf("portal.StartScan: %w", err)
	}
	p.scanSeq++
	seq := p.scanSeq
	if err := p.scanner.Start(func() { p.complete(seq, role) }); err != nil {
		p.session.AbortAuthentication() //nolint:errcheck // we just began it
		return fmt.Errorf("portal.StartScan: %w", err)
	}
	p.scanRole = role
	p.log.WithField("role", role.String()).Info("biometric scan started")
	return nil
}

// CancelScan stops an in-flight scan and returns the session to
// unauthenticated. The scan's completion never runs.
func (p *Portal) CancelScan() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.scanner.Cancel() {
		return fmt.Errorf("portal.CancelScan: %w: no scan in progress", ErrInvalidTransition)
	}
	role := p.scanRole
	p.scanRole = domain.RoleNone
	p.scanSeq++
	if err := p.session.AbortAuthentication(); err != nil {
		return fmt.Errorf("portal.CancelScan: %w", err)
	}
	p.log.WithField("role", role.String()).Info("biometric scan cancelled")
	return nil
}

// Logout signs out, cancelling any scan still in flight.
func (p *Portal) Logout() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.scanner.Cancel()
	p.scanRole = domain.RoleNone
	p.scanSeq++
	if err := p.session.Logout(); err != nil {
		return fmt.Errorf("portal.Logout: %w", err)
	}
	return nil
}

// complete runs when scan seq settles. A logout or cancel that raced the
// settle has already bumped scanSeq, so the stale completion is dropped.
// Only an authenticating session may be completed.
func (p *Portal) complete(seq uint64, role domain.Role) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.scanSeq || p.scanRole == domain.RoleNone {
		p.log.WithField("role", role.String()).Debug("dropping stale scan completion")
		return
	}
	p.scanRole = domain.RoleNone
	if st := p.session.Session().Status; st != domain.StatusAuthenticating {
		p.log.WithFields(logrus.Fields{
			"role":   role.String(),
			"status": st.String(),
		}).Warn("dropping scan completion for a session that is not authenticating")
		return
	}
	if err := p.session.Authenticate(role); err != nil {
		p.log.WithError(err).Warn("scan completed but session was not authenticated")
	}
}
