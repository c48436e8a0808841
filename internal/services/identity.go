package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"appointment-booking-server/internal/models"
)

const (
	patientIDDigits    = 8
	maxPatientIDTries  = 16
	mobileValidation   = "len=10,number"
	passwordValidation = "min=6"
)

var validate = validator.New()

// PatientRepository loads and persists the patient table.
type PatientRepository interface {
	Patients(ctx context.Context) []models.Patient
	SavePatients(ctx context.Context, patients []models.Patient) error
}

// DoctorCredentialRepository loads the doctor login reference table.
type DoctorCredentialRepository interface {
	DoctorCredentials(ctx context.Context) []models.DoctorCredential
}

// IdentityService registers patients and checks patient and doctor logins.
type IdentityService struct {
	patients PatientRepository
	doctors  DoctorCredentialRepository
	hasher   PasswordHasher
	logger   logrus.FieldLogger
	newID    func() (string, error)

	// mu serializes registrations so the duplicate check and the append see
	// the same table.
	mu sync.Mutex
}

// NewIdentityService creates an IdentityService.
func NewIdentityService(patients PatientRepository, doctors DoctorCredentialRepository, hasher PasswordHasher, logger logrus.FieldLogger) *IdentityService {
	return &IdentityService{
		patients: patients,
		doctors:  doctors,
		hasher:   hasher,
		logger:   logger,
		newID:    generatePatientID,
	}
}

// NormalizeName trims and title-cases a patient name the way it is stored.
// Every run of cased letters is title-cased on its own, so a letter that
// follows an apostrophe, digit or hyphen starts a new word: "o'brien"
// becomes "O'Brien" and "jean2luc" becomes "Jean2Luc".
func NormalizeName(name string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	run := make([]rune, 0, len(name))
	flush := func() {
		if len(run) > 0 {
			b.WriteString(caser.String(string(run)))
			run = run[:0]
		}
	}
	for _, r := range strings.TrimSpace(name) {
		if isCased(r) {
			run = append(run, r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// RegisterPatient validates and stores a new patient and returns the
// generated patient ID.
func (s *IdentityService) RegisterPatient(ctx context.Context, name, password, mobile string) (string, error) {
	name = NormalizeName(name)
	if name == "" || password == "" || mobile == "" {
		return "", ErrMissingFields
	}
	if err := validate.Var(mobile, mobileValidation); err != nil {
		return "", ErrInvalidMobile
	}
	if err := validate.Var(password, passwordValidation); err != nil {
		return "", ErrWeakPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	patients := s.patients.Patients(ctx)
	taken := make(map[string]bool, len(patients))
	for _, p := range patients {
		if p.Name == name && p.Mobile == mobile {
			return "", ErrDuplicatePatient
		}
		taken[p.PatientID] = true
	}

	patientID, err := s.uniquePatientID(taken)
	if err != nil {
		return "", err
	}
	stored, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	patients = append(patients, models.Patient{
		Name:      name,
		PatientID: patientID,
		Password:  stored,
		Mobile:    mobile,
	})
	if err := s.patients.SavePatients(ctx, patients); err != nil {
		return "", fmt.Errorf("failed to save patient: %w", err)
	}

	s.logger.WithField("patient_id", patientID).Info("Patient registered")
	return patientID, nil
}

func (s *IdentityService) uniquePatientID(taken map[string]bool) (string, error) {
	for i := 0; i < maxPatientIDTries; i++ {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("failed to generate patient id: %w", err)
		}
		if !taken[id] {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate an unused patient id after %d attempts", maxPatientIDTries)
}

// generatePatientID draws each digit from crypto/rand so IDs cannot be
// predicted from earlier ones.
func generatePatientID() (string, error) {
	var b strings.Builder
	b.Grow(patientIDDigits)
	ten := big.NewInt(10)
	for i := 0; i < patientIDDigits; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// LoginPatient matches the name case-insensitively and the password exactly.
// The first matching row wins.
func (s *IdentityService) LoginPatient(ctx context.Context, name, password string) (models.PatientSession, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(password) == "" {
		return models.PatientSession{}, ErrMissingFields
	}

	for _, p := range s.patients.Patients(ctx) {
		if strings.EqualFold(p.Name, name) && s.hasher.Verify(p.Password, password) {
			return models.PatientSession{Name: p.Name, PatientID: p.PatientID}, nil
		}
	}
	s.logger.Info("Patient login rejected")
	return models.PatientSession{}, ErrInvalidCredentials
}

// LoginDoctor matches the username case-insensitively and the password
// exactly, returning the doctor's display name.
func (s *IdentityService) LoginDoctor(ctx context.Context, username, password string) (models.DoctorSession, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return models.DoctorSession{}, ErrMissingFields
	}

	for _, c := range s.doctors.DoctorCredentials(ctx) {
		if strings.EqualFold(c.Username, username) && s.hasher.Verify(c.Password, password) {
			return models.DoctorSession{Name: c.Name}, nil
		}
	}
	s.logger.WithField("username", username).Info("Doctor login rejected")
	return models.DoctorSession{}, ErrInvalidCredentials
}
