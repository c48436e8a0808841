package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"appointment-booking-server/internal/middleware"
	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/services"
	"appointment-booking-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Booking *services.BookingService
	Logger  logrus.FieldLogger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(booking *services.BookingService, logger logrus.FieldLogger) *AppointmentHandler {
	return &AppointmentHandler{Booking: booking, Logger: logger}
}

// GetSpecialties lists doctors grouped by specialty.
func (h *AppointmentHandler) GetSpecialties(c *gin.Context) {
	utils.Success(c, "Specialties fetched successfully", h.Booking.ListSpecialties(c.Request.Context()))
}

// CreateAppointmentRequest represents the request body for creating an appointment.
// The patient is always taken from the session.
type CreateAppointmentRequest struct {
	DoctorName string `json:"doctorName" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
}

// CreateAppointment books a slot for the logged-in patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	session, ok := middleware.GetSession(c)
	if !ok || session.Role != models.RolePatient {
		utils.Forbidden(c, "Only patients can book appointments.")
		return
	}

	slot, err := models.ParseSlot(req.Date, req.Time)
	if err != nil {
		utils.BadRequest(c, "Invalid date or time. Use YYYY-MM-DD and HH:MM.")
		return
	}

	appt, err := h.Booking.BookAppointment(c.Request.Context(), req.DoctorName, session.Name, slot)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	utils.Created(c, "Appointment booked successfully!", appt)
}

// GetAppointmentsForUser lists the caller's appointments in chronological order.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var appts []models.Appointment
	switch session.Role {
	case models.RolePatient:
		appts = h.Booking.ListAppointmentsForPatient(c.Request.Context(), session.Name)
	case models.RoleDoctor:
		appts = h.Booking.ListAppointmentsForDoctor(c.Request.Context(), session.Name)
	default:
		utils.Forbidden(c, "Unsupported role")
		return
	}

	utils.Success(c, "Appointments fetched successfully", appts)
}
