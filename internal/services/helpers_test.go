package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/store"
)

// newRecords returns typed records over a CSV store seeded with files
// (dataset file name -> contents).
func newRecords(t *testing.T, files map[string]string) *store.Records {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
	}
	logger, _ := logtest.NewNullLogger()
	return store.NewRecords(store.NewCSVStore(dir, logger))
}

func mustSlot(t *testing.T, date, clock string) models.Slot {
	t.Helper()
	slot, err := models.ParseSlot(date, clock)
	require.NoError(t, err)
	return slot
}

// MockPatientRepository is a function-field mock of PatientRepository.
type MockPatientRepository struct {
	PatientsFunc     func(ctx context.Context) []models.Patient
	SavePatientsFunc func(ctx context.Context, patients []models.Patient) error
}

var _ PatientRepository = (*MockPatientRepository)(nil)

func (m *MockPatientRepository) Patients(ctx context.Context) []models.Patient {
	if m.PatientsFunc != nil {
		return m.PatientsFunc(ctx)
	}
	return nil
}

func (m *MockPatientRepository) SavePatients(ctx context.Context, patients []models.Patient) error {
	if m.SavePatientsFunc != nil {
		return m.SavePatientsFunc(ctx, patients)
	}
	return nil
}

// MockAppointmentRepository is a function-field mock of AppointmentRepository.
type MockAppointmentRepository struct {
	AppointmentsFunc     func(ctx context.Context) []models.Appointment
	SaveAppointmentsFunc func(ctx context.Context, appts []models.Appointment) error
}

var _ AppointmentRepository = (*MockAppointmentRepository)(nil)

func (m *MockAppointmentRepository) Appointments(ctx context.Context) []models.Appointment {
	if m.AppointmentsFunc != nil {
		return m.AppointmentsFunc(ctx)
	}
	return nil
}

func (m *MockAppointmentRepository) SaveAppointments(ctx context.Context, appts []models.Appointment) error {
	if m.SaveAppointmentsFunc != nil {
		return m.SaveAppointmentsFunc(ctx, appts)
	}
	return nil
}
