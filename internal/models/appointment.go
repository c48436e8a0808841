package models

import (
	"fmt"
	"strings"
	"time"
)

// Canonical serialization layouts for appointment slots.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// timeLayouts lists accepted time-of-day inputs, most specific first.
var timeLayouts = []string{TimeLayout, "15:04"}

// Slot is a calendar date plus a time of day, always in UTC.
type Slot struct {
	At time.Time
}

// ParseSlot parses a YYYY-MM-DD date and an HH:MM[:SS] time.
func ParseSlot(date, clock string) (Slot, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return Slot{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	clock = strings.TrimSpace(clock)
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, clock)
		if err != nil {
			continue
		}
		return NewSlot(d, t.Hour(), t.Minute(), t.Second()), nil
	}
	return Slot{}, fmt.Errorf("invalid time %q", clock)
}

// NewSlot builds a slot from the calendar date of d and the given clock.
func NewSlot(d time.Time, hour, minute, second int) Slot {
	return Slot{At: time.Date(d.Year(), d.Month(), d.Day(), hour, minute, second, 0, time.UTC)}
}

// Date returns the canonical date string.
func (s Slot) Date() string { return s.At.Format(DateLayout) }

// Time returns the canonical time-of-day string.
func (s Slot) Time() string { return s.At.Format(TimeLayout) }

// Equal reports whether both slots denote the same date and time.
func (s Slot) Equal(other Slot) bool { return s.At.Equal(other.At) }

// Appointment is one booked slot between a doctor and a patient.
type Appointment struct {
	DoctorName  string `json:"doctorName"`
	PatientName string `json:"patientName"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// NewAppointment creates an appointment with canonical date and time strings.
func NewAppointment(doctorName, patientName string, slot Slot) Appointment {
	return Appointment{
		DoctorName:  doctorName,
		PatientName: patientName,
		Date:        slot.Date(),
		Time:        slot.Time(),
	}
}

// Slot parses the stored date and time. Rows written by hand or by older
// versions may not parse; callers fall back to the raw strings.
func (a Appointment) Slot() (Slot, bool) {
	s, err := ParseSlot(a.Date, a.Time)
	if err != nil {
		return Slot{}, false
	}
	return s, true
}

// At reports whether the appointment occupies the given slot.
func (a Appointment) At(slot Slot) bool {
	if s, ok := a.Slot(); ok {
		return s.Equal(slot)
	}
	return a.Date == slot.Date() && a.Time == slot.Time()
}
