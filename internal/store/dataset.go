package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreadable marks a backing resource that exists but cannot be read.
	ErrUnreadable = errors.New("dataset unreadable")
	// ErrSchemaMismatch marks a backing resource missing expected columns.
	ErrSchemaMismatch = errors.New("dataset schema mismatch")
)

// Dataset describes one persisted table and its fixed column schema.
type Dataset struct {
	Name    string
	File    string
	Columns []string
	// Aliases maps header names written by older versions of the app to
	// their current column name.
	Aliases map[string]string
}

var (
	Patients = Dataset{
		Name:    "patients",
		File:    "patients.csv",
		Columns: []string{"name", "patient_id", "password", "mobile"},
	}
	Doctors = Dataset{
		Name:    "doctors",
		File:    "details.csv",
		Columns: []string{"doctor_name", "speciality"},
		Aliases: map[string]string{"Doctor's Name": "doctor_name"},
	}
	DoctorLogins = Dataset{
		Name:    "doctor_logins",
		File:    "doctor_login.csv",
		Columns: []string{"username", "password", "name"},
	}
	Appointments = Dataset{
		Name:    "appointments",
		File:    "appointments.csv",
		Columns: []string{"doctor_name", "patient_name", "date", "time"},
		Aliases: map[string]string{
			"Doctor's Name":  "doctor_name",
			"Patient's Name": "patient_name",
			"Date":           "date",
			"Time":           "time",
		},
	}
)

// Datasets returns every dataset the application persists.
func Datasets() []Dataset {
	return []Dataset{Patients, Doctors, DoctorLogins, Appointments}
}

// columnIndexes maps each schema column to its position in header.
func (d Dataset) columnIndexes(header []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if alias, ok := d.Aliases[h]; ok {
			h = alias
		}
		if _, seen := positions[h]; !seen {
			positions[h] = i
		}
	}

	indexes := make([]int, len(d.Columns))
	for i, col := range d.Columns {
		pos, ok := positions[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s has no %q column", ErrSchemaMismatch, d.Name, col)
		}
		indexes[i] = pos
	}
	return indexes, nil
}

// Row holds one record's values in Dataset.Columns order.
type Row []string

// Table is the full contents of a dataset.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable returns an empty table with the dataset's schema.
func NewTable(d Dataset) Table {
	return Table{Columns: append([]string(nil), d.Columns...)}
}

// Append adds a row, padding or truncating values to the schema width.
func (t *Table) Append(values ...string) {
	row := make(Row, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }
