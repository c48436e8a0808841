package models

// Patient is a registered patient. Records are immutable once written.
type Patient struct {
	Name      string `json:"name"`
	PatientID string `json:"patientId"`
	Password  string `json:"-"` // Never send password in JSON
	Mobile    string `json:"mobile"`
}
