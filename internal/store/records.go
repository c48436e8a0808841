package store

import (
	"context"

	"appointment-booking-server/internal/models"
)

// Records maps datasets to typed models on top of a Store.
type Records struct {
	store Store
}

// NewRecords creates a typed view over s.
func NewRecords(s Store) *Records {
	return &Records{store: s}
}

func (r *Records) Patients(ctx context.Context) []models.Patient {
	t := r.store.Load(ctx, Patients)
	patients := make([]models.Patient, 0, t.Len())
	for _, row := range t.Rows {
		patients = append(patients, models.Patient{
			Name:      row[0],
			PatientID: row[1],
			Password:  row[2],
			Mobile:    row[3],
		})
	}
	return patients
}

func (r *Records) SavePatients(ctx context.Context, patients []models.Patient) error {
	t := NewTable(Patients)
	for _, p := range patients {
		t.Append(p.Name, p.PatientID, p.Password, p.Mobile)
	}
	return r.store.Save(ctx, Patients, t)
}

func (r *Records) Doctors(ctx context.Context) []models.Doctor {
	t := r.store.Load(ctx, Doctors)
	doctors := make([]models.Doctor, 0, t.Len())
	for _, row := range t.Rows {
		doctors = append(doctors, models.Doctor{Name: row[0], Specialty: row[1]})
	}
	return doctors
}

func (r *Records) DoctorCredentials(ctx context.Context) []models.DoctorCredential {
	t := r.store.Load(ctx, DoctorLogins)
	creds := make([]models.DoctorCredential, 0, t.Len())
	for _, row := range t.Rows {
		creds = append(creds, models.DoctorCredential{
			Username: row[0],
			Password: row[1],
			Name:     row[2],
		})
	}
	return creds
}

func (r *Records) Appointments(ctx context.Context) []models.Appointment {
	t := r.store.Load(ctx, Appointments)
	appts := make([]models.Appointment, 0, t.Len())
	for _, row := range t.Rows {
		appts = append(appts, models.Appointment{
			DoctorName:  row[0],
			PatientName: row[1],
			Date:        row[2],
			Time:        row[3],
		})
	}
	return appts
}

func (r *Records) SaveAppointments(ctx context.Context, appts []models.Appointment) error {
	t := NewTable(Appointments)
	for _, a := range appts {
		t.Append(a.DoctorName, a.PatientName, a.Date, a.Time)
	}
	return r.store.Save(ctx, Appointments, t)
}

// Source is a store that reports load failures instead of absorbing them.
type Source interface {
	Read(ctx context.Context, d Dataset) (Table, error)
}

// CopyResult describes what Copy did with one dataset.
type CopyResult struct {
	Dataset string
	Rows    int
	// Err is set when the dataset was skipped because src could not read it.
	Err error
}

// Skipped reports whether the dataset was left untouched in the destination.
func (r CopyResult) Skipped() bool { return r.Err != nil }

// Copy saves every dataset src can read into dst. Datasets that are
// missing or unreadable in src are skipped so their rows in dst survive.
func Copy(ctx context.Context, src Source, dst Store) ([]CopyResult, error) {
	results := make([]CopyResult, 0, len(Datasets()))
	for _, d := range Datasets() {
		t, err := src.Read(ctx, d)
		if err != nil {
			results = append(results, CopyResult{Dataset: d.Name, Err: err})
			continue
		}
		if err := dst.Save(ctx, d, t); err != nil {
			return results, err
		}
		results = append(results, CopyResult{Dataset: d.Name, Rows: t.Len()})
	}
	return results, nil
}
