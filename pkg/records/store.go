// Package records serves the portal's mock hospital data. Everything lives in
// memory and is lost when the process exits.
package records

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/medicare-portal/medicare/pkg/domain"
)

// ScheduleRequest is the appointment form payload.
type ScheduleRequest struct {
	Date       time.Time
	Time       string
	DoctorID   string
	Department string
	Type       string
	Reason     string
}

// Store is the in-memory records backend.
type Store struct {
	mu           sync.RWMutex
	history      []domain.MedicalRecord
	appointments []domain.Appointment
	patients     []domain.Patient
	profile      domain.PatientProfile
	now          func() time.Time
	log          logrus.FieldLogger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for validation and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger for write operations.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.log = l }
}

// WithPatientName overrides the signed-in patient's display name.
func WithPatientName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.profile.Name = name
		}
	}
}

// New returns a store seeded with the demo data.
func New(opts ...Option) *Store {
	s := &Store{
		history:      slices.Clone(seedHistory),
		appointments: slices.Clone(seedAppointments),
		patients:     clonePatients(seedPatients),
		profile:      profile,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	return s
}

// Profile returns the signed-in patient's details.
func (s *Store) Profile() domain.PatientProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Vitals returns the latest vitals.
func (s *Store) Vitals() domain.Vitals { return vitals }

// Doctors returns the bookable doctors.
func (s *Store) Doctors() []domain.Doctor { return slices.Clone(doctors) }

// Departments returns the hospital departments.
func (s *Store) Departments() []string { return slices.Clone(departments) }

// TimeSlots returns the bookable times of day.
func (s *Store) TimeSlots() []string { return slices.Clone(timeSlots) }

// AppointmentTypes returns the kinds of visit that can be booked.
func (s *Store) AppointmentTypes() []string { return slices.Clone(appointmentTypes) }

// MedicalHistory returns records whose diagnosis, doctor or treatment
// contains query, ignoring case. An empty query returns everything.
func (s *Store) MedicalHistory(ctx context.Context, query string) ([]domain.MedicalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("records.MedicalHistory: %w", err)
	}
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MedicalRecord, 0, len(s.history))
	for _, r := range s.history {
		if q == "" ||
			strings.Contains(strings.ToLower(r.Diagnosis), q) ||
			strings.Contains(strings.ToLower(r.Doctor), q) ||
			strings.Contains(strings.ToLower(r.Treatment), q) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Appointments returns scheduled appointments ordered by date and time.
func (s *Store) Appointments(ctx context.Context) ([]domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("records.Appointments: %w", err)
	}

	s.mu.RLock()
	out := make([]domain.Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		if a.Status == domain.AppointmentScheduled {
			out = append(out, a)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return slotIndex(out[i].Time) < slotIndex(out[j].Time)
	})
	return out, nil
}

// ScheduleAppointment validates req and books it.
func (s *Store) ScheduleAppointment(ctx context.Context, req ScheduleRequest) (*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("records.ScheduleAppointment: %w", err)
	}
	appt, err := s.validate(req)
	if err != nil {
		return nil, fmt.Errorf("records.ScheduleAppointment: %w", err)
	}

	s.mu.Lock()
	s.appointments = append(s.appointments, *appt)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"appointment_id": appt.ID,
		"doctor":         appt.Doctor,
		"date":           appt.Date.Format(domain.DateLayout),
		"time":           appt.Time,
	}).Info("appointment scheduled")
	return appt, nil
}

func (s *Store) validate(req ScheduleRequest) (*domain.Appointment, error) {
	if req.Date.IsZero() || req.Time == "" || req.DoctorID == "" || req.Type == "" {
		return nil, &ValidationError{Message: "please fill in all required fields"}
	}
	var doc *domain.Doctor
	for i := range doctors {
		if doctors[i].ID == req.DoctorID {
			doc = &doctors[i]
			break
		}
	}
	if doc == nil {
		return nil, &ValidationError{Field: "doctor", Message: "unknown doctor " + req.DoctorID}
	}
	if slotIndex(req.Time) == len(timeSlots) {
		return nil, &ValidationError{Field: "time", Message: "unavailable time " + req.Time}
	}
	if !slices.Contains(appointmentTypes, req.Type) {
		return nil, &ValidationError{Field: "type", Message: "unknown appointment type " + req.Type}
	}
	dept := req.Department
	if dept == "" {
		dept = doc.Department
	} else if !slices.Contains(departments, dept) {
		return nil, &ValidationError{Field: "department", Message: "unknown department " + dept}
	} else if dept != doc.Department {
		return nil, &ValidationError{Field: "department", Message: fmt.Sprintf("%s does not practice in %s", doc.Name, dept)}
	}

	day := truncateDay(req.Date)
	if day.Before(truncateDay(s.now())) {
		return nil, &ValidationError{Field: "date", Message: "date is in the past"}
	}

	return &domain.Appointment{
		ID:         uuid.NewString(),
		Date:       day,
		Time:       req.Time,
		Doctor:     doc.Name,
		Department: dept,
		Type:       req.Type,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     domain.AppointmentScheduled,
	}, nil
}

// RequestRecords files a request for a copy of the patient's records and
// returns its reference.
func (s *Store) RequestRecords(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("records.RequestRecords: %w", err)
	}
	ref := uuid.NewString()
	s.log.WithField("reference", ref).Info("records requested")
	return ref, nil
}

// Patients returns patients whose name or ID contains query, ignoring case.
func (s *Store) Patients(ctx context.Context, query string) ([]domain.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("records.Patients: %w", err)
	}
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.ID), q) {
			out = append(out, clonePatient(p))
		}
	}
	return out, nil
}

// VerifyPatient records a fresh biometric verification for the patient.
func (s *Store) VerifyPatient(ctx context.Context, id string) (*domain.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("records.VerifyPatient: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.patients {
		if s.patients[i].ID != id {
			continue
		}
		now := s.now()
		s.patients[i].BiometricVerifiedAt = &now
		s.log.WithField("patient_id", id).Info("patient biometrics verified")
		p := clonePatient(s.patients[i])
		return &p, nil
	}
	return nil, fmt.Errorf("records.VerifyPatient: %w: %s", ErrNotFound, id)
}

// Stats returns the figures for the staff analytics tab.
func (s *Store) Stats(ctx context.Context) (domain.HospitalStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.HospitalStats{}, fmt.Errorf("records.Stats: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	verified := 0
	for _, p := range s.patients {
		if p.BiometricVerifiedAt != nil {
			verified++
		}
	}
	return domain.HospitalStats{
		ActivePatients:       hospitalActivePatients,
		BiometricSuccessRate: biometricSuccessRate,
		StaffOnline:          staffOnline,
		VerifiedPatients:     verified,
		TotalPatients:        len(s.patients),
	}, nil
}

// slotIndex orders time slots by the day's schedule. Unknown slots sort last.
func slotIndex(slot string) int {
	if i := slices.Index(timeSlots, slot); i >= 0 {
		return i
	}
	return len(timeSlots)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func clonePatient(p domain.Patient) domain.Patient {
	p.Allergies = slices.Clone(p.Allergies)
	if p.BiometricVerifiedAt != nil {
		at := *p.BiometricVerifiedAt
		p.BiometricVerifiedAt = &at
	}
	return p
}

func clonePatients(ps []domain.Patient) []domain.Patient {
	out := make([]domain.Patient, len(ps))
	for i, p := range ps {
		out[i] = clonePatient(p)
	}
	return out
}
