package records

import (
	"time"

	"github.com/medicare-portal/medicare/pkg/domain"
)

func date(s string) time.Time {
	t, err := time.ParseInLocation(domain.DateLayout, s, time.Local)
	if err != nil {
		panic("records: bad seed date " + s)
	}
	return t
}

var seedHistory = []domain.MedicalRecord{
	{ID: "1", Diagnosis: "Hypertension", Date: date("2024-01-15"), Doctor: "Dr. Sarah Johnson", Treatment: "ACE Inhibitors, lifestyle changes", Status: domain.RecordOngoing},
	{ID: "2", Diagnosis: "Common Cold", Date: date("2023-12-10"), Doctor: "Dr. Michael Chen", Treatment: "Rest, fluids, symptomatic treatment", Status: domain.RecordRecovered},
	{ID: "3", Diagnosis: "Type 2 Diabetes", Date: date("2023-08-22"), Doctor: "Dr. Emily Rodriguez", Treatment: "Metformin, diet control, exercise", Status: domain.RecordChronic},
	{ID: "4", Diagnosis: "Seasonal Allergies", Date: date("2023-06-05"), Doctor: "Dr. David Kim", Treatment: "Antihistamines, allergen avoidance", Status: domain.RecordOngoing},
}

var seedAppointments = []domain.Appointment{
	{ID: "1", Date: date("2024-06-10"), Time: "10:00 AM", Doctor: "Dr. Sarah Johnson", Department: "Cardiology", Type: "Follow-up", Status: domain.AppointmentScheduled},
	{ID: "2", Date: date("2024-06-15"), Time: "02:30 PM", Doctor: "Dr. Emily Rodriguez", Department: "Endocrinology", Type: "Regular Check-up", Status: domain.AppointmentScheduled},
}

var seedPatients = []domain.Patient{
	{ID: "P-2024-001234", Name: "Sarah Johnson", Age: 39, Room: "A-204", Condition: "Stable", LastVisit: date("2024-01-15"), Allergies: []string{"Penicillin", "Shellfish"}, Status: domain.PatientActive},
	{ID: "P-2024-001235", Name: "Michael Chen", Age: 45, Room: "B-108", Condition: "Critical", LastVisit: date("2024-01-20"), Allergies: []string{"Latex"}, Status: domain.PatientActive},
	{ID: "P-2024-001236", Name: "Emma Davis", Age: 28, Room: "C-301", Condition: "Stable", LastVisit: date("2024-01-18"), Status: domain.PatientDischarged},
}

var doctors = []domain.Doctor{
	{ID: "dr1", Name: "Dr. Sarah Johnson", Department: "Cardiology"},
	{ID: "dr2", Name: "Dr. Michael Chen", Department: "Internal Medicine"},
	{ID: "dr3", Name: "Dr. Emily Rodriguez", Department: "Endocrinology"},
	{ID: "dr4", Name: "Dr. David Kim", Department: "Allergy & Immunology"},
	{ID: "dr5", Name: "Dr. Lisa Wong", Department: "Dermatology"},
	{ID: "dr6", Name: "Dr. James Miller", Department: "Orthopedics"},
}

var departments = []string{
	"Cardiology", "Internal Medicine", "Endocrinology", "Allergy & Immunology",
	"Dermatology", "Orthopedics", "Neurology", "Gastroenterology",
}

var timeSlots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM",
}

var appointmentTypes = []string{
	"Regular Check-up", "Follow-up", "Consultation", "Emergency", "Specialist Referral",
}

var (
	vitals  = domain.Vitals{BloodPressure: "120/80", HeartRate: 72, WeightKg: 70}
	profile = domain.PatientProfile{
		Name:             "John Doe",
		PrimaryPhysician: "Dr. Sarah Johnson",
		EmergencyContact: "Jane Doe",
	}
)

// Hospital-wide figures shown on the staff analytics tab.
const (
	hospitalActivePatients = 156
	biometricSuccessRate   = 0.98
	staffOnline            = 24
)
