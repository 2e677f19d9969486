package portal

import "errors"

var (
	// ErrInvalidTransition is returned when an operation does not apply to
	// the current session status. The session is left unchanged.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrScanInProgress is returned when a scan is started while one is in flight.
	ErrScanInProgress = errors.New("scan already in progress")
	// ErrInvalidRole is returned for roles a session cannot hold.
	ErrInvalidRole = errors.New("invalid role")
)
