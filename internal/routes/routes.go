package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"appointment-booking-server/internal/config"
	"appointment-booking-server/internal/handlers"
	"appointment-booking-server/internal/middleware"
	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/services"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, identity *services.IdentityService, booking *services.BookingService, cfg *config.Config, logger logrus.FieldLogger) {
	authHandler := handlers.NewAuthHandler(identity, cfg, logger)
	appointmentHandler := handlers.NewAppointmentHandler(booking, logger)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/patients/register", authHandler.RegisterPatient)
			authRoutes.POST("/patients/login", authHandler.PatientLogin)
			authRoutes.POST("/doctors/login", authHandler.DoctorLogin)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		private.GET("/auth/profile", authHandler.GetProfile)

		private.GET("/specialties", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.GetSpecialties)

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)

			// Logic inside handler differentiates by role
			appointmentRoutes.GET("", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleDoctor), appointmentHandler.GetAppointmentsForUser)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
