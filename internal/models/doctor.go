package models

// Doctor is a row of the doctor reference table.
type Doctor struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// DoctorCredential is a doctor login. Name links to Doctor.Name by equality.
type DoctorCredential struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Name     string `json:"name"`
}

// SpecialtyGroup lists the doctors practising one specialty.
type SpecialtyGroup struct {
	Specialty string   `json:"specialty"`
	Doctors   []string `json:"doctors"`
}
