package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/store"
)

const doctorDetails = "doctor_name,speciality\n" +
	"Dr. Rao,Cardiology\n" +
	"Dr. Iyer,Dermatology\n" +
	"Dr. Shah,Cardiology\n" +
	"Dr. Das,Neurology\n"

func newBookingService(t *testing.T, files map[string]string) (*BookingService, *store.Records) {
	t.Helper()
	records := newRecords(t, files)
	logger, _ := logtest.NewNullLogger()
	return NewBookingService(records, records, logger), records
}

func TestBookAppointment_Conflicts(t *testing.T) {
	svc, records := newBookingService(t, nil)
	ctx := context.Background()
	slot := mustSlot(t, "2024-05-01", "10:00")

	appt, err := svc.BookAppointment(ctx, "Dr. Rao", "P1", slot)
	require.NoError(t, err)
	assert.Equal(t, models.Appointment{DoctorName: "Dr. Rao", PatientName: "P1", Date: "2024-05-01", Time: "10:00:00"}, appt)

	_, err = svc.BookAppointment(ctx, "Dr. Rao", "P2", slot)
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = svc.BookAppointment(ctx, "Dr. Iyer", "P1", slot)
	assert.ErrorIs(t, err, ErrAlreadyBooked)

	_, err = svc.BookAppointment(ctx, "Dr. Rao", "P1", mustSlot(t, "2024-05-01", "10:30"))
	assert.NoError(t, err)

	assert.Len(t, records.Appointments(ctx), 2)
}

func TestBookAppointment_SlotCheckedFirst(t *testing.T) {
	svc, _ := newBookingService(t, nil)
	ctx := context.Background()
	slot := mustSlot(t, "2024-05-01", "10:00")

	_, err := svc.BookAppointment(ctx, "Dr. Rao", "P1", slot)
	require.NoError(t, err)

	_, err = svc.BookAppointment(ctx, "Dr. Rao", "P1", slot)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookAppointment_LegacyTimeFormat(t *testing.T) {
	svc, _ := newBookingService(t, map[string]string{
		store.Appointments.File: "Doctor's Name,Patient's Name,Date,Time\nDr. Rao,P1,2024-05-01,10:00\n",
	})

	_, err := svc.BookAppointment(context.Background(), "Dr. Rao", "P2", mustSlot(t, "2024-05-01", "10:00:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookAppointment_ReloadsBeforeChecking(t *testing.T) {
	svc, records := newBookingService(t, nil)
	ctx := context.Background()
	slot := mustSlot(t, "2024-05-01", "10:00")

	// Written behind the service's back, e.g. by another process.
	require.NoError(t, records.SaveAppointments(ctx, []models.Appointment{
		models.NewAppointment("Dr. Rao", "P9", slot),
	}))

	_, err := svc.BookAppointment(ctx, "Dr. Rao", "P1", slot)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookAppointment_MissingNames(t *testing.T) {
	svc, _ := newBookingService(t, nil)

	_, err := svc.BookAppointment(context.Background(), " ", "P1", mustSlot(t, "2024-05-01", "10:00"))
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestBookAppointment_SaveFailure(t *testing.T) {
	boom := errors.New("read-only file system")
	repo := &MockAppointmentRepository{
		SaveAppointmentsFunc: func(context.Context, []models.Appointment) error { return boom },
	}
	logger, _ := logtest.NewNullLogger()
	svc := NewBookingService(repo, newRecords(t, nil), logger)

	_, err := svc.BookAppointment(context.Background(), "Dr. Rao", "P1", mustSlot(t, "2024-05-01", "10:00"))
	assert.ErrorIs(t, err, boom)
}

func TestBookAppointment_ConcurrentSameSlot(t *testing.T) {
	svc, records := newBookingService(t, nil)
	ctx := context.Background()
	slot := mustSlot(t, "2024-05-01", "10:00")

	const attempts = 20
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.BookAppointment(ctx, "Dr. Rao", fmt.Sprintf("P%d", i), slot)
		}(i)
	}
	wg.Wait()

	booked := 0
	for _, err := range errs {
		if err == nil {
			booked++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotTaken)
	}
	assert.Equal(t, 1, booked)
	assert.Len(t, records.Appointments(ctx), 1)
}

func TestListAppointmentsForPatient_Sorted(t *testing.T) {
	svc, _ := newBookingService(t, nil)
	ctx := context.Background()

	for i, clock := range []string{"14:00", "09:00", "11:00"} {
		_, err := svc.BookAppointment(ctx, fmt.Sprintf("Dr. %d", i), "P1", mustSlot(t, "2024-05-01", clock))
		require.NoError(t, err)
	}
	_, err := svc.BookAppointment(ctx, "Dr. Rao", "P1", mustSlot(t, "2024-04-30", "23:00"))
	require.NoError(t, err)
	_, err = svc.BookAppointment(ctx, "Dr. Rao", "P2", mustSlot(t, "2024-05-01", "08:00"))
	require.NoError(t, err)

	appts := svc.ListAppointmentsForPatient(ctx, "P1")

	var got []string
	for _, a := range appts {
		got = append(got, a.Date+" "+a.Time)
	}
	assert.Equal(t, []string{
		"2024-04-30 23:00:00",
		"2024-05-01 09:00:00",
		"2024-05-01 11:00:00",
		"2024-05-01 14:00:00",
	}, got)
}

func TestListAppointmentsForDoctor(t *testing.T) {
	svc, _ := newBookingService(t, map[string]string{
		store.Appointments.File: "doctor_name,patient_name,date,time\n" +
			"Dr. Rao,P1,2024-05-02,09:00:00\n" +
			"Dr. Iyer,P2,2024-05-01,09:00:00\n" +
			"Dr. Rao,P3,someday,noon\n" +
			"Dr. Rao,P4,2024-05-01,16:30\n",
	})

	appts := svc.ListAppointmentsForDoctor(context.Background(), "Dr. Rao")

	require.Len(t, appts, 3)
	assert.Equal(t, "P4", appts[0].PatientName)
	assert.Equal(t, "P1", appts[1].PatientName)
	assert.Equal(t, "P3", appts[2].PatientName, "unparsable rows sort last")
}

func TestListAppointments_Empty(t *testing.T) {
	svc, _ := newBookingService(t, nil)
	ctx := context.Background()

	patientAppts := svc.ListAppointmentsForPatient(ctx, "Nobody")
	assert.NotNil(t, patientAppts)
	assert.Empty(t, patientAppts)
	assert.Empty(t, svc.ListAppointmentsForDoctor(ctx, "Dr. Nobody"))
}

func TestListSpecialties(t *testing.T) {
	svc, _ := newBookingService(t, map[string]string{store.Doctors.File: doctorDetails})
	ctx := context.Background()

	groups := svc.ListSpecialties(ctx)

	assert.Equal(t, []models.SpecialtyGroup{
		{Specialty: "Cardiology", Doctors: []string{"Dr. Rao", "Dr. Shah"}},
		{Specialty: "Dermatology", Doctors: []string{"Dr. Iyer"}},
		{Specialty: "Neurology", Doctors: []string{"Dr. Das"}},
	}, groups)
	assert.Equal(t, groups, svc.ListSpecialties(ctx), "grouping is stable across calls")
}

func TestListSpecialties_NoDoctors(t *testing.T) {
	svc, _ := newBookingService(t, nil)

	groups := svc.ListSpecialties(context.Background())
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
