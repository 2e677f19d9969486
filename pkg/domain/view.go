package domain

// View identifies one of the top-level screens.
type View int

const (
	ViewHome View = iota
	ViewPatient
	ViewStaff
)

// Views lists every top-level screen in tab order.
var Views = []View{ViewHome, ViewPatient, ViewStaff}

func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewPatient:
		return "patient"
	case ViewStaff:
		return "staff"
	default:
		return "unknown"
	}
}

// ViewFor returns the role-specific view for r, or ViewHome when r has none.
func ViewFor(r Role) View {
	switch r {
	case RolePatient:
		return ViewPatient
	case RoleStaff:
		return ViewStaff
	default:
		return ViewHome
	}
}
