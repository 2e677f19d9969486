package portal

import "github.com/medicare-portal/medicare/pkg/domain"

// CurrentView maps a session to the screen it should see. Sessions that
// break the role/status invariant get ViewHome.
func CurrentView(s domain.Session) domain.View {
	if !s.Valid() || !s.Authenticated() {
		return domain.ViewHome
	}
	return domain.ViewFor(s.Role)
}

// Authorize returns requested when the session may see it and ViewHome
// otherwise. Home is always allowed, so an authenticated user can go back
// to the landing page without signing out.
func Authorize(s domain.Session, requested domain.View) domain.View {
	if requested == domain.ViewHome {
		return domain.ViewHome
	}
	if current := CurrentView(s); requested == current {
		return current
	}
	return domain.ViewHome
}
