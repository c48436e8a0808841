package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"appointment-booking-server/internal/config"
	"appointment-booking-server/internal/logging"
	"appointment-booking-server/internal/middleware"
	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/routes"
	"appointment-booking-server/internal/services"
	"appointment-booking-server/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "booking-server",
		Short:        "Doctor appointment booking server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(specialtiesCmd())
	rootCmd.AddCommand(appointmentsCmd())
	return rootCmd
}

// app bundles the components every command needs.
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	store    store.Store
	identity *services.IdentityService
	booking  *services.BookingService
}

func newApp() (*app, error) {
	// A missing .env is fine; the environment may already be populated.
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	logger := logging.NewLogger(cfg)
	if envErr != nil {
		logger.WithError(envErr).Debug("No .env file loaded")
	}

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("error opening %s store: %w", cfg.Store.Driver, err)
	}

	records := store.NewRecords(st)
	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		identity: services.NewIdentityService(records, records, services.NewPasswordHasher(cfg.PasswordHashing), logger),
		booking:  services.NewBookingService(records, records, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close store")
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if !a.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(a)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.WithFields(logrus.Fields{
			"port":  a.cfg.Port,
			"store": a.cfg.Store.Driver,
		}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	a.logger.Info("Server stopped")
	return nil
}

func newRouter(a *app) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(a.logger), middleware.Recovery(a.logger))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{a.cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, a.identity, a.booking, a.cfg, a.logger)
	return router
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy CSV datasets into the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := store.Copy(cmd.Context(), store.NewCSVStore(from, a.logger), a.store)
			printImport(cmd.OutOrStdout(), results)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("from", ".", "Directory holding the CSV datasets")
	return cmd
}

func printImport(out io.Writer, results []store.CopyResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATASET\tROWS")
	for _, r := range results {
		switch {
		case errors.Is(r.Err, os.ErrNotExist):
			fmt.Fprintf(w, "%s\tskipped (not found)\n", r.Dataset)
		case r.Skipped():
			fmt.Fprintf(w, "%s\tskipped (%v)\n", r.Dataset, r.Err)
		default:
			fmt.Fprintf(w, "%s\t%d\n", r.Dataset, r.Rows)
		}
	}
	w.Flush()
}

func specialtiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "specialties",
		Short: "List doctors grouped by specialty",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			printSpecialties(cmd.OutOrStdout(), a.booking.ListSpecialties(cmd.Context()))
			return nil
		},
	}
}

func printSpecialties(out io.Writer, groups []models.SpecialtyGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(out, "No doctors available.")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(out, "%s\n", g.Specialty)
		for _, d := range g.Doctors {
			fmt.Fprintf(out, "  - %s\n", d)
		}
	}
}

func appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "List appointments for a patient or a doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			patient, _ := cmd.Flags().GetString("patient")
			doctor, _ := cmd.Flags().GetString("doctor")

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var appts []models.Appointment
			if patient != "" {
				appts = a.booking.ListAppointmentsForPatient(cmd.Context(), patient)
			} else {
				appts = a.booking.ListAppointmentsForDoctor(cmd.Context(), doctor)
			}
			printAppointments(cmd.OutOrStdout(), appts)
			return nil
		},
	}
	cmd.Flags().String("patient", "", "Patient name")
	cmd.Flags().String("doctor", "", "Doctor name")
	cmd.MarkFlagsOneRequired("patient", "doctor")
	cmd.MarkFlagsMutuallyExclusive("patient", "doctor")
	return cmd
}

func printAppointments(out io.Writer, appts []models.Appointment) {
	if len(appts) == 0 {
		fmt.Fprintln(out, "No appointments found.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTIME\tDOCTOR\tPATIENT")
	for _, appt := range appts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", appt.Date, appt.Time, appt.DoctorName, appt.PatientName)
	}
	w.Flush()
}
