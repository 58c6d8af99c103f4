package routes

import (
	"CareClinic/cache"
	"CareClinic/config"
	"CareClinic/controllers"
	"CareClinic/database"
	"CareClinic/handlers"
	"CareClinic/messaging"
	"CareClinic/middlewares"
	"CareClinic/repositories"
	"CareClinic/services"
	"CareClinic/utils"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, redisClient *redis.Client, config *config.AppConfig, db *gorm.DB, events messaging.EventPublisher, mailer services.ResetMailer) (http.Handler, error) {
	if config.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.LoggingMiddleware())
	router.Use(middlewares.SecurityHeaders())
	router.Use(middlewares.CorsMiddleware(middlewares.CorsConfig{
		AllowedOrigins:   config.CORSOrigins,
		AllowCredentials: true,
	}))
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: config.RateLimitRPS,
		Burst:             config.RateLimitBurst,
	}))

	policy, err := services.ParseTransitionPolicy(config.TransitionPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid APPOINTMENT_TRANSITION_POLICY: %w", err)
	}
	tokens, err := utils.NewTokenMaker([]byte(config.SymmetricKey))
	if err != nil {
		return nil, err
	}

	// Initialize repositories, services, and handlers
	userRepo := repositories.NewUserRepository(db)
	doctorRepo := repositories.NewDoctorRepository(db, cache)
	patientRepo := repositories.NewPatientRepository(db)
	appointmentRepo := repositories.NewAppointmentRepository(db)
	availabilityRepo := repositories.NewAvailabilityRepository(db)
	consultationRepo := repositories.NewConsultationRepository(db)
	recordRepo := repositories.NewRecordRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)
	sessionRepo := repositories.NewSessionRepository(cache)

	authService := services.NewAuthService(userRepo, doctorRepo, sessionRepo, tokens, mailer, config.SessionTTL)
	appointmentService := services.NewAppointmentService(appointmentRepo, doctorRepo, database.NewLocker(redisClient), policy, events)
	availabilityService := services.NewAvailabilityService(availabilityRepo, doctorRepo)
	consultationService := services.NewConsultationService(consultationRepo, appointmentRepo, events)
	recordService := services.NewRecordService(recordRepo, patientRepo, appointmentRepo)
	dashboardService := services.NewDashboardService(appointmentRepo, consultationRepo, recordRepo)
	settingsService := services.NewSettingsService(userRepo, settingsRepo, doctorRepo, patientRepo)

	dashboardHandler := handlers.NewDashboardHandler(dashboardService, authService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	signedIn := middlewares.SessionAuth(authService)
	withProfile := middlewares.RequireProfile(authService)

	// Register routes
	controllers.NewAuthController(handlers.NewAuthHandler(authService)).RegisterRoutes(router, signedIn)

	controllers.SetupClinicRoutes(router, controllers.ClinicHandlers{
		Appointments:  handlers.NewAppointmentHandler(appointmentService),
		Availability:  handlers.NewAvailabilityHandler(availabilityService),
		Consultations: handlers.NewConsultationHandler(consultationService),
		Reports:       handlers.NewReportHandler(recordService),
		Dashboards:    dashboardHandler,
		Settings:      settingsHandler,
	}, signedIn, withProfile)

	controllers.SetupRootRoutes(router, dashboardHandler, settingsHandler,
		handlers.NewHealthHandler(db, redisClient),
		middlewares.ValidateBearerToken(config.GetBearerToken()),
		signedIn)

	return router, nil
}
