package services

import (
	"CarePoint/models"
	"CarePoint/repositories"
	"CarePoint/utils"
	"context"
	"time"
)

// workHours is the fixed daily slot template: half-hour slots from 09:00
// with a lunch gap from 12:30 to 13:00. The 12:30 label falls inside the
// gap and is therefore not bookable.
var workHours = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00",
	"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

// SlotTemplate returns a copy of the daily working-hours template.
func SlotTemplate() []string {
	out := make([]string, len(workHours))
	copy(out, workHours)
	return out
}

func validSlot(t string) bool {
	for _, slot := range workHours {
		if slot == t {
			return true
		}
	}
	return false
}

// DoctorStats is the doctor dashboard aggregate.
type DoctorStats struct {
	TodayAppointments     int64 `json:"today_appointments"`
	TotalPatients         int64 `json:"total_patients"`
	CompletedAppointments int64 `json:"completed_appointments"`
	PendingAppointments   int64 `json:"pending_appointments"`
}

type AppointmentService struct {
	appointments *repositories.AppointmentRepository
	users        repositories.UserRepository
	// now is swapped in tests to pin the calendar day.
	now func() time.Time
}

func NewAppointmentService(appointments *repositories.AppointmentRepository, users repositories.UserRepository) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		now:          time.Now,
	}
}

// ProposeBooking decides whether a booking request may be accepted and,
// if so, creates the appointment with status pending and the doctor's
// department snapshotted onto it. The conflict checks and the insert run
// atomically in the repository.
func (s *AppointmentService) ProposeBooking(ctx context.Context, patientID string, in utils.BookingInput) (*models.Appointment, error) {
	if err := utils.ValidateBooking(in); err != nil {
		return nil, err
	}
	if !validSlot(in.Time) {
		return nil, models.ErrInvalidSlot
	}

	// ISO dates compare correctly as strings; time of day is ignored.
	today := s.now().Format("2006-01-02")
	if in.Date < today {
		return nil, models.ErrPastDate
	}

	doctor, err := s.users.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, models.ErrDoctorNotFound
	}
	if doctor.Role != models.RoleDoctor {
		return nil, models.ErrDoctorNotFound
	}
	if !doctor.IsDoctor() {
		return nil, models.ErrNoDepartment
	}

	appointment := &models.Appointment{
		PatientID:  patientID,
		DoctorID:   doctor.ID,
		Department: doctor.Department,
		Date:       in.Date,
		Time:       in.Time,
		Status:     models.StatusPending,
		Complaint:  in.Complaint,
	}
	if err := s.appointments.CreateBooking(ctx, appointment); err != nil {
		return nil, err
	}

	return s.appointments.GetByID(ctx, appointment.ID)
}

// AvailableHours returns the template slots not yet booked for a doctor
// on a date, in template order. An empty result means a fully booked day.
func (s *AppointmentService) AvailableHours(ctx context.Context, doctorID, date string) ([]string, error) {
	if doctorID == "" || date == "" {
		return nil, models.ErrInvalidDate
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, models.ErrInvalidDate
	}

	booked, err := s.appointments.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	available := make([]string, 0, len(workHours))
	for _, slot := range workHours {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available, nil
}

// Cancel transitions a pending appointment to cancelled. Only the owning
// patient may cancel, and only while the appointment is still pending.
func (s *AppointmentService) Cancel(ctx context.Context, patientID, appointmentID, reason string) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, models.ErrNotPermitted
	}
	if appointment.Status != models.StatusPending {
		return nil, models.ErrNotCancellable
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	if err := s.appointments.SetStatus(ctx, appointmentID, models.StatusCancelled, reasonPtr); err != nil {
		return nil, err
	}
	return s.appointments.GetByID(ctx, appointmentID)
}

// Confirm lets the owning doctor close out a pending appointment. The
// visit is marked completed directly; the intermediate confirmed status
// is reachable only through the status override.
func (s *AppointmentService) Confirm(ctx context.Context, doctorID, appointmentID string) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, models.ErrNotPermitted
	}
	if appointment.Status != models.StatusPending {
		return nil, models.ErrNotConfirmable
	}

	if err := s.appointments.SetStatus(ctx, appointmentID, models.StatusCompleted, nil); err != nil {
		return nil, err
	}
	return s.appointments.GetByID(ctx, appointmentID)
}

// OverrideStatus sets an appointment to any status in the enum. Admins
// may override any appointment; doctors only their own.
func (s *AppointmentService) OverrideStatus(ctx context.Context, actorID, actorRole, appointmentID, status string) (*models.Appointment, error) {
	if !models.ValidStatus(status) {
		return nil, models.ErrInvalidStatus
	}

	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	switch actorRole {
	case models.RoleAdmin:
	case models.RoleDoctor:
		if appointment.DoctorID != actorID {
			return nil, models.ErrNotPermitted
		}
	default:
		return nil, models.ErrNotPermitted
	}

	if err := s.appointments.SetStatus(ctx, appointmentID, status, nil); err != nil {
		return nil, err
	}
	return s.appointments.GetByID(ctx, appointmentID)
}

// MyAppointments lists a patient's own bookings, newest date first.
func (s *AppointmentService) MyAppointments(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

// DoctorAppointments lists a doctor's queue, optionally filtered by status.
func (s *AppointmentService) DoctorAppointments(ctx context.Context, doctorID, status string) ([]models.Appointment, error) {
	if status != "" && status != "all" && !models.ValidStatus(status) {
		return nil, models.ErrInvalidStatus
	}
	return s.appointments.ListByDoctor(ctx, doctorID, status)
}

// ListAll lists every booking for the admin screens.
func (s *AppointmentService) ListAll(ctx context.Context, status, doctorID string) ([]models.Appointment, error) {
	if status != "" && status != "all" && !models.ValidStatus(status) {
		return nil, models.ErrInvalidStatus
	}
	return s.appointments.ListAll(ctx, status, doctorID)
}

// Stats assembles the doctor dashboard aggregate.
func (s *AppointmentService) Stats(ctx context.Context, doctorID string) (*DoctorStats, error) {
	today := s.now().Format("2006-01-02")

	todayCount, err := s.appointments.CountOnDate(ctx, doctorID, today)
	if err != nil {
		return nil, err
	}
	totalPatients, err := s.appointments.DistinctPatientCount(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	completed, err := s.appointments.CountForDoctor(ctx, doctorID, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	pending, err := s.appointments.CountForDoctor(ctx, doctorID, models.StatusPending)
	if err != nil {
		return nil, err
	}

	return &DoctorStats{
		TodayAppointments:     todayCount,
		TotalPatients:         totalPatients,
		CompletedAppointments: completed,
		PendingAppointments:   pending,
	}, nil
}

// PatientRoster lists the patients a doctor has seen, grouped with visit
// counts, most recent visit first.
func (s *AppointmentService) PatientRoster(ctx context.Context, doctorID string) ([]repositories.RosterEntry, error) {
	return s.appointments.PatientRoster(ctx, doctorID)
}
