package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medicare-portal/medicare/pkg/domain"
)

var testNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.Local)

func newTestStore() *Store {
	return New(WithClock(func() time.Time { return testNow }))
}

func TestMedicalHistorySearch(t *testing.T) {
	s := newTestStore()
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"1", "2", "3", "4"}},
		{"DIABETES", []string{"3"}},
		{"sarah", []string{"1"}},
		{"  rest ", []string{"2"}},
		{"ongoing", nil},
		{"nothing matches", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := s.MedicalHistory(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("MedicalHistory() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("MedicalHistory(%q) returned %d records, want %d", tt.query, len(got), len(tt.want))
			}
			for i, r := range got {
				if r.ID != tt.want[i] {
					t.Errorf("record %d ID = %q, want %q", i, r.ID, tt.want[i])
				}
			}
		})
	}
}

func TestCancelledContext(t *testing.T) {
	s := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.MedicalHistory(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("MedicalHistory err = %v, want context.Canceled", err)
	}
	if _, err := s.Patients(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("Patients err = %v, want context.Canceled", err)
	}
	if _, err := s.ScheduleAppointment(ctx, ScheduleRequest{}); !errors.Is(err, context.Canceled) {
		t.Errorf("ScheduleAppointment err = %v, want context.Canceled", err)
	}
}

func TestScheduleAppointment(t *testing.T) {
	s := newTestStore()
	req := ScheduleRequest{
		Date:     testNow.AddDate(0, 0, 3),
		Time:     "09:30 AM",
		DoctorID: "dr5",
		Type:     "Consultation",
		Reason:   "  rash on left arm  ",
	}

	appt, err := s.ScheduleAppointment(context.Background(), req)
	if err != nil {
		t.Fatalf("ScheduleAppointment() error: %v", err)
	}
	if appt.ID == "" {
		t.Error("expected generated appointment ID")
	}
	if appt.Doctor != "Dr. Lisa Wong" {
		t.Errorf("Doctor = %q, want Dr. Lisa Wong", appt.Doctor)
	}
	if appt.Department != "Dermatology" {
		t.Errorf("Department = %q, want the doctor's department", appt.Department)
	}
	if appt.Reason != "rash on left arm" {
		t.Errorf("Reason = %q, want trimmed reason", appt.Reason)
	}
	if appt.Status != domain.AppointmentScheduled {
		t.Errorf("Status = %q, want %q", appt.Status, domain.AppointmentScheduled)
	}

	list, err := s.Appointments(context.Background())
	if err != nil {
		t.Fatalf("Appointments() error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 appointments after booking, got %d", len(list))
	}
	if list[len(list)-1].ID != appt.ID {
		t.Errorf("new appointment should sort last, got %q", list[len(list)-1].ID)
	}
}

func TestScheduleAppointmentValidation(t *testing.T) {
	future := testNow.AddDate(0, 0, 1)
	valid := ScheduleRequest{Date: future, Time: "10:00 AM", DoctorID: "dr1", Type: "Follow-up"}

	tests := []struct {
		name  string
		edit  func(r *ScheduleRequest)
		field string
	}{
		{"missing date", func(r *ScheduleRequest) { r.Date = time.Time{} }, ""},
		{"missing time", func(r *ScheduleRequest) { r.Time = "" }, ""},
		{"missing doctor", func(r *ScheduleRequest) { r.DoctorID = "" }, ""},
		{"missing type", func(r *ScheduleRequest) { r.Type = "" }, ""},
		{"unknown doctor", func(r *ScheduleRequest) { r.DoctorID = "dr99" }, "doctor"},
		{"unknown slot", func(r *ScheduleRequest) { r.Time = "07:00 AM" }, "time"},
		{"unknown type", func(r *ScheduleRequest) { r.Type = "Spa Day" }, "type"},
		{"unknown department", func(r *ScheduleRequest) { r.Department = "Radiology" }, "department"},
		{"doctor outside department", func(r *ScheduleRequest) { r.Department = "Neurology" }, "department"},
		{"past date", func(r *ScheduleRequest) { r.Date = testNow.AddDate(0, 0, -1) }, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			req := valid
			tt.edit(&req)

			_, err := s.ScheduleAppointment(context.Background(), req)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}

			list, _ := s.Appointments(context.Background()) //nolint:errcheck
			if len(list) != 2 {
				t.Errorf("rejected request must not be stored, have %d appointments", len(list))
			}
		})
	}
}

func TestScheduleAppointmentToday(t *testing.T) {
	s := newTestStore()
	req := ScheduleRequest{Date: testNow.Add(-time.Hour), Time: "04:30 PM", DoctorID: "dr2", Type: "Emergency"}
	if _, err := s.ScheduleAppointment(context.Background(), req); err != nil {
		t.Fatalf("booking later today should be allowed: %v", err)
	}
}

func TestAppointmentsSorted(t *testing.T) {
	s := newTestStore()
	day := testNow.AddDate(0, 0, 7)
	for _, slot := range []string{"04:00 PM", "09:00 AM"} {
		req := ScheduleRequest{Date: day, Time: slot, DoctorID: "dr3", Type: "Follow-up"}
		if _, err := s.ScheduleAppointment(context.Background(), req); err != nil {
			t.Fatalf("ScheduleAppointment(%s) error: %v", slot, err)
		}
	}

	list, err := s.Appointments(context.Background())
	if err != nil {
		t.Fatalf("Appointments() error: %v", err)
	}
	var got []string
	for _, a := range list {
		got = append(got, a.Date.Format(domain.DateLayout)+" "+a.Time)
	}
	want := []string{
		"2024-06-10 10:00 AM",
		"2024-06-15 02:30 PM",
		day.Format(domain.DateLayout) + " 09:00 AM",
		day.Format(domain.DateLayout) + " 04:00 PM",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("appointment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPatientsSearch(t *testing.T) {
	s := newTestStore()
	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"emma", 1},
		{"p-2024-00123", 3},
		{"001235", 1},
		{"zed", 0},
	}
	for _, tt := range tests {
		got, err := s.Patients(context.Background(), tt.query)
		if err != nil {
			t.Fatalf("Patients(%q) error: %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("Patients(%q) returned %d, want %d", tt.query, len(got), tt.want)
		}
	}
}

func TestPatientsReturnsCopies(t *testing.T) {
	s := newTestStore()
	got, _ := s.Patients(context.Background(), "sarah") //nolint:errcheck
	got[0].Allergies[0] = "tampered"

	again, _ := s.Patients(context.Background(), "sarah") //nolint:errcheck
	if again[0].Allergies[0] != "Penicillin" {
		t.Errorf("store data changed through a returned slice: %v", again[0].Allergies)
	}
}

func TestVerifyPatient(t *testing.T) {
	s := newTestStore()

	p, err := s.VerifyPatient(context.Background(), "P-2024-001235")
	if err != nil {
		t.Fatalf("VerifyPatient() error: %v", err)
	}
	if p.BiometricVerifiedAt == nil || !p.BiometricVerifiedAt.Equal(testNow) {
		t.Errorf("BiometricVerifiedAt = %v, want %v", p.BiometricVerifiedAt, testNow)
	}

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats.VerifiedPatients != 1 || stats.TotalPatients != 3 {
		t.Errorf("stats = %+v, want 1 verified of 3", stats)
	}
	if stats.ActivePatients != 156 || stats.StaffOnline != 24 {
		t.Errorf("hospital figures = %+v", stats)
	}

	if _, err := s.VerifyPatient(context.Background(), "P-0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWithPatientName(t *testing.T) {
	if got := New(WithPatientName("Ada Lovelace")).Profile().Name; got != "Ada Lovelace" {
		t.Errorf("Profile().Name = %q", got)
	}
	if got := New(WithPatientName("")).Profile().Name; got != "John Doe" {
		t.Errorf("empty override should keep default, got %q", got)
	}
}

func TestRequestRecords(t *testing.T) {
	ref, err := newTestStore().RequestRecords(context.Background())
	if err != nil {
		t.Fatalf("RequestRecords() error: %v", err)
	}
	if ref == "" {
		t.Error("expected a reference")
	}
}
