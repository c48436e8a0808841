package store

import (
	"context"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointment-booking-server/internal/models"
)

func TestRecords_PatientsAndAppointments(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	records := NewRecords(NewCSVStore(t.TempDir(), logger))
	ctx := context.Background()

	patients := []models.Patient{{Name: "Alice", PatientID: "00123456", Password: "secret1", Mobile: "9876543210"}}
	require.NoError(t, records.SavePatients(ctx, patients))
	assert.Equal(t, patients, records.Patients(ctx), "leading zeros in ids survive")

	appts := []models.Appointment{{DoctorName: "Dr. Rao", PatientName: "Alice", Date: "2024-05-01", Time: "10:00:00"}}
	require.NoError(t, records.SaveAppointments(ctx, appts))
	assert.Equal(t, appts, records.Appointments(ctx))
}

func TestRecords_ReferenceTables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, Doctors.File, "doctor_name,speciality\nDr. Rao,Cardiology\n")
	writeFile(t, dir, DoctorLogins.File, "username,password,name\nrao,pass123,Dr. Rao\n")
	logger, _ := logtest.NewNullLogger()
	records := NewRecords(NewCSVStore(dir, logger))
	ctx := context.Background()

	assert.Equal(t, []models.Doctor{{Name: "Dr. Rao", Specialty: "Cardiology"}}, records.Doctors(ctx))
	assert.Equal(t, []models.DoctorCredential{{Username: "rao", Password: "pass123", Name: "Dr. Rao"}}, records.DoctorCredentials(ctx))
}

func TestRecords_EmptyStoreYieldsEmptySlices(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	records := NewRecords(NewCSVStore(t.TempDir(), logger))
	ctx := context.Background()

	assert.NotNil(t, records.Patients(ctx))
	assert.Empty(t, records.Doctors(ctx))
	assert.Empty(t, records.DoctorCredentials(ctx))
	assert.Empty(t, records.Appointments(ctx))
}
