package domain

import "time"

// Medical history statuses.
const (
	RecordRecovered = "Recovered"
	RecordOngoing   = "Ongoing"
	RecordChronic   = "Chronic"
)

// Appointment statuses.
const (
	AppointmentScheduled = "Scheduled"
	AppointmentCompleted = "Completed"
	AppointmentCancelled = "Cancelled"
)

// DateLayout is the calendar date format used by records.
const DateLayout = "2006-01-02"

// MedicalRecord is one diagnosis in a patient's history.
type MedicalRecord struct {
	ID        string    `json:"id"`
	Diagnosis string    `json:"diagnosis"`
	Date      time.Time `json:"date"`
	Doctor    string    `json:"doctor"`
	Treatment string    `json:"treatment"`
	Status    string    `json:"status"`
}

// Appointment is a booked visit.
type Appointment struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	Doctor     string    `json:"doctor"`
	Department string    `json:"department"`
	Type       string    `json:"type"`
	Reason     string    `json:"reason,omitempty"`
	Status     string    `json:"status"`
}

// Doctor is a bookable physician.
type Doctor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// Vitals are the latest readings shown on the patient overview.
type Vitals struct {
	BloodPressure string `json:"blood_pressure"`
	HeartRate     int    `json:"heart_rate"`
	WeightKg      int    `json:"weight_kg"`
}

// PatientProfile holds the signed-in patient's contact details.
type PatientProfile struct {
	Name             string `json:"name"`
	PrimaryPhysician string `json:"primary_physician"`
	EmergencyContact string `json:"emergency_contact"`
}
