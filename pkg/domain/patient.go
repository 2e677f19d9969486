package domain

import "time"

// Patient statuses in the staff portal.
const (
	PatientActive     = "active"
	PatientDischarged = "discharged"
)

// Patient is a hospital patient as seen by staff.
type Patient struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Age                 int        `json:"age"`
	Room                string     `json:"room"`
	Condition           string     `json:"condition"`
	LastVisit           time.Time  `json:"last_visit"`
	Allergies           []string   `json:"allergies,omitempty"`
	Status              string     `json:"status"`
	BiometricVerifiedAt *time.Time `json:"biometric_verified_at,omitempty"`
}

// Active reports whether the patient is currently admitted.
func (p Patient) Active() bool {
	return p.Status == PatientActive
}

// HospitalStats are the staff analytics figures.
type HospitalStats struct {
	ActivePatients       int     `json:"active_patients"`
	BiometricSuccessRate float64 `json:"biometric_success_rate"`
	StaffOnline          int     `json:"staff_online"`
	VerifiedPatients     int     `json:"verified_patients"`
	TotalPatients        int     `json:"total_patients"`
}
