package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"appointment-booking-server/internal/config"
	"appointment-booking-server/internal/middleware"
	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/services"
	"appointment-booking-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Identity *services.IdentityService
	Cfg      *config.Config
	Logger   logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identity *services.IdentityService, cfg *config.Config, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Identity: identity, Cfg: cfg, Logger: logger}
}

// RegisterPatientRequest represents the request body for patient registration.
// Blank fields are rejected by the service so the message matches the CLI.
type RegisterPatientRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
}

// RegisterPatientResponse carries the assigned patient id.
type RegisterPatientResponse struct {
	PatientID string `json:"patientId"`
}

// RegisterPatient handles patient self-registration.
func (h *AuthHandler) RegisterPatient(c *gin.Context) {
	var req RegisterPatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, err := h.Identity.RegisterPatient(c.Request.Context(), req.Name, req.Password, req.Mobile)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	utils.Created(c, "Registration successful.", RegisterPatientResponse{PatientID: patientID})
}

// PatientLoginRequest represents the request body for patient login.
type PatientLoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// DoctorLoginRequest represents the request body for doctor login.
type DoctorLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	ExpiresAt   time.Time      `json:"expiresAt"`
	Session     models.Session `json:"session"`
}

// PatientLogin handles patient login.
func (h *AuthHandler) PatientLogin(c *gin.Context) {
	var req PatientLoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.Identity.LoginPatient(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}
	h.issueToken(c, patient.Session())
}

// DoctorLogin handles doctor login.
func (h *AuthHandler) DoctorLogin(c *gin.Context) {
	var req DoctorLoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctor, err := h.Identity.LoginDoctor(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}
	h.issueToken(c, doctor.Session())
}

func (h *AuthHandler) issueToken(c *gin.Context, session models.Session) {
	token, expiresAt, err := utils.GenerateToken(session, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token: "+err.Error())
		return
	}

	utils.Success(c, "Login successful", LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Session:     session,
	})
}

// GetProfile returns the session of the authenticated caller.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	utils.Success(c, "Profile fetched successfully", session)
}

// respondServiceError maps service errors onto HTTP responses.
func respondServiceError(c *gin.Context, logger logrus.FieldLogger, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		utils.BadRequest(c, "All fields are required.")
	case errors.Is(err, services.ErrInvalidMobile):
		utils.BadRequest(c, "Please enter a valid 10-digit mobile number.")
	case errors.Is(err, services.ErrWeakPassword):
		utils.BadRequest(c, "Password must be at least 6 characters long.")
	case errors.Is(err, services.ErrPasswordTooLong):
		utils.BadRequest(c, "Password must be at most 72 bytes long.")
	case errors.Is(err, services.ErrDuplicatePatient):
		utils.Conflict(c, "Patient already registered.")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Unauthorized(c, "Invalid credentials.")
	case errors.Is(err, services.ErrSlotTaken):
		utils.Conflict(c, "Slot already booked.")
	case errors.Is(err, services.ErrAlreadyBooked):
		utils.Conflict(c, "You already have an appointment at this time.")
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		utils.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
