package portal

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/medicare-portal/medicare/internal/logging"
	"github.com/medicare-portal/medicare/pkg/domain"
)

// SessionController owns the process session. It is the only writer;
// everything else reads copies through Session.
type SessionController struct {
	mu      sync.RWMutex
	session domain.Session
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewSessionController returns a controller holding an unauthenticated session.
func NewSessionController(log logrus.FieldLogger) *SessionController {
	return &SessionController{
		log: logging.OrDiscard(log),
		now: time.Now,
	}
}

// Session returns a copy of the current session.
func (c *SessionController) Session() domain.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// BeginAuthentication moves an unauthenticated session to authenticating.
func (c *SessionController) BeginAuthentication() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status != domain.StatusUnauthenticated {
		return fmt.Errorf("portal.BeginAuthentication: %w: session is %s", ErrInvalidTransition, c.session.Status)
	}
	c.session.Status = domain.StatusAuthenticating
	c.log.Debug("authentication started")
	return nil
}

// AbortAuthentication returns an authenticating session to unauthenticated.
func (c *SessionController) AbortAuthentication() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status != domain.StatusAuthenticating {
		return fmt.Errorf("portal.AbortAuthentication: %w: session is %s", ErrInvalidTransition, c.session.Status)
	}
	c.session = domain.Session{}
	c.log.Info("authentication aborted")
	return nil
}

// Authenticate marks the session authenticated as role. It always succeeds
// from the unauthenticated and authenticating states.
func (c *SessionController) Authenticate(role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("portal.Authenticate: %w: %d", ErrInvalidRole, int(role))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status == domain.StatusAuthenticated {
		return fmt.Errorf("portal.Authenticate: %w: already authenticated as %s", ErrInvalidTransition, c.session.Role)
	}
	c.session = domain.Session{
		ID:              uuid.NewString(),
		Status:          domain.StatusAuthenticated,
		Role:            role,
		AuthenticatedAt: c.now(),
	}
	c.log.WithFields(logrus.Fields{
		"session_id": c.session.ID,
		"role":       role.String(),
	}).Info("session authenticated")
	return nil
}

// Logout resets the session. The session is unauthenticated afterwards even
// when ErrInvalidTransition is returned.
func (c *SessionController) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.session
	c.session = domain.Session{}
	if prev.Status == domain.StatusUnauthenticated {
		return fmt.Errorf("portal.Logout: %w: not signed in", ErrInvalidTransition)
	}
	c.log.WithFields(logrus.Fields{
		"session_id": prev.ID,
		"role":       prev.Role.String(),
		"status":     prev.Status.String(),
	}).Info("session logged out")
	return nil
}
