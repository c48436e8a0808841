package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"appointment-booking-server/internal/models"
)

// AppointmentRepository loads and persists the appointment table.
type AppointmentRepository interface {
	Appointments(ctx context.Context) []models.Appointment
	SaveAppointments(ctx context.Context, appts []models.Appointment) error
}

// DoctorRepository loads the doctor reference table.
type DoctorRepository interface {
	Doctors(ctx context.Context) []models.Doctor
}

// BookingService books appointments and lists them per patient or doctor.
type BookingService struct {
	appointments AppointmentRepository
	doctors      DoctorRepository
	logger       logrus.FieldLogger

	// mu makes reload, conflict check and save one critical section, so a
	// single process never double-books a slot.
	mu sync.Mutex
}

// NewBookingService creates a BookingService.
func NewBookingService(appointments AppointmentRepository, doctors DoctorRepository, logger logrus.FieldLogger) *BookingService {
	return &BookingService{
		appointments: appointments,
		doctors:      doctors,
		logger:       logger,
	}
}

// ListSpecialties groups doctors by specialty. Groups follow the first
// appearance of each specialty, doctors keep table order.
func (s *BookingService) ListSpecialties(ctx context.Context) []models.SpecialtyGroup {
	groups := []models.SpecialtyGroup{}
	index := make(map[string]int)
	for _, d := range s.doctors.Doctors(ctx) {
		i, ok := index[d.Specialty]
		if !ok {
			i = len(groups)
			index[d.Specialty] = i
			groups = append(groups, models.SpecialtyGroup{Specialty: d.Specialty})
		}
		groups[i].Doctors = append(groups[i].Doctors, d.Name)
	}
	return groups
}

// BookAppointment books slot with doctorName for patientName. The doctor's
// slot is checked before the patient's own schedule.
func (s *BookingService) BookAppointment(ctx context.Context, doctorName, patientName string, slot models.Slot) (models.Appointment, error) {
	if strings.TrimSpace(doctorName) == "" || strings.TrimSpace(patientName) == "" {
		return models.Appointment{}, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	appts := s.appointments.Appointments(ctx)
	for _, a := range appts {
		if a.DoctorName == doctorName && a.At(slot) {
			return models.Appointment{}, ErrSlotTaken
		}
	}
	for _, a := range appts {
		if a.PatientName == patientName && a.At(slot) {
			return models.Appointment{}, ErrAlreadyBooked
		}
	}

	appt := models.NewAppointment(doctorName, patientName, slot)
	if err := s.appointments.SaveAppointments(ctx, append(appts, appt)); err != nil {
		return models.Appointment{}, fmt.Errorf("failed to save appointment: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"doctor": doctorName,
		"date":   appt.Date,
		"time":   appt.Time,
	}).Info("Appointment booked")
	return appt, nil
}

// ListAppointmentsForPatient returns the patient's appointments, earliest first.
func (s *BookingService) ListAppointmentsForPatient(ctx context.Context, patientName string) []models.Appointment {
	return s.list(ctx, func(a models.Appointment) bool { return a.PatientName == patientName })
}

// ListAppointmentsForDoctor returns the doctor's appointments, earliest first.
func (s *BookingService) ListAppointmentsForDoctor(ctx context.Context, doctorName string) []models.Appointment {
	return s.list(ctx, func(a models.Appointment) bool { return a.DoctorName == doctorName })
}

func (s *BookingService) list(ctx context.Context, keep func(models.Appointment) bool) []models.Appointment {
	matched := []models.Appointment{}
	for _, a := range s.appointments.Appointments(ctx) {
		if keep(a) {
			matched = append(matched, a)
		}
	}
	sortChronologically(matched)
	return matched
}

// sortChronologically orders by (date, time). Rows that do not parse go
// last, in table order.
func sortChronologically(appts []models.Appointment) {
	slots := make([]models.Slot, len(appts))
	valid := make([]bool, len(appts))
	for i, a := range appts {
		slots[i], valid[i] = a.Slot()
	}
	sort.Stable(byslot{appts: appts, slots: slots, valid: valid})
}

type byslot struct {
	appts []models.Appointment
	slots []models.Slot
	valid []bool
}

func (b byslot) Len() int { return len(b.appts) }

func (b byslot) Less(i, j int) bool {
	if b.valid[i] != b.valid[j] {
		return b.valid[i]
	}
	return b.valid[i] && b.slots[i].At.Before(b.slots[j].At)
}

func (b byslot) Swap(i, j int) {
	b.appts[i], b.appts[j] = b.appts[j], b.appts[i]
	b.slots[i], b.slots[j] = b.slots[j], b.slots[i]
	b.valid[i], b.valid[j] = b.valid[j], b.valid[i]
}
