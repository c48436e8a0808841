package models

// Role enum
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// PatientSession identifies a logged-in patient.
type PatientSession struct {
	Name      string `json:"name"`
	PatientID string `json:"patientId"`
}

// DoctorSession identifies a logged-in doctor by display name.
type DoctorSession struct {
	Name string `json:"name"`
}

// Session is the identity carried by a token: exactly one of the two
// role-specific views is meaningful, selected by Role.
type Session struct {
	Role      Role   `json:"role"`
	Name      string `json:"name"`
	PatientID string `json:"patientId,omitempty"`
}

// Session converts a patient login result into a token session.
func (p PatientSession) Session() Session {
	return Session{Role: RolePatient, Name: p.Name, PatientID: p.PatientID}
}

// Session converts a doctor login result into a token session.
func (d DoctorSession) Session() Session {
	return Session{Role: RoleDoctor, Name: d.Name}
}
