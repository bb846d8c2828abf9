package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Bigidan/beauty-salon-ms/internal/config"
	"github.com/Bigidan/beauty-salon-ms/internal/email"
	appointmentHandler "github.com/Bigidan/beauty-salon-ms/internal/handler/appointment"
	authHandler "github.com/Bigidan/beauty-salon-ms/internal/handler/auth"
	catalogHandler "github.com/Bigidan/beauty-salon-ms/internal/handler/catalog"
	clientHandler "github.com/Bigidan/beauty-salon-ms/internal/handler/client"
	discountHandler "github.com/Bigidan/beauty-salon-ms/internal/handler/discount"
	employeeHandler "github.com/Bigidan/beauty-salon-ms/internal/handler/employee"
	healthHandler "github.com/Bigidan/beauty-salon-ms/internal/handler/health"
	scheduleHandler "github.com/Bigidan/beauty-salon-ms/internal/handler/schedule"
	userHandler "github.com/Bigidan/beauty-salon-ms/internal/handler/user"
	visitHandler "github.com/Bigidan/beauty-salon-ms/internal/handler/visit"
	"github.com/Bigidan/beauty-salon-ms/internal/middleware"
	"github.com/Bigidan/beauty-salon-ms/internal/repository/postgres"
	"github.com/Bigidan/beauty-salon-ms/internal/router"
	authService "github.com/Bigidan/beauty-salon-ms/internal/service/auth"
	catalogService "github.com/Bigidan/beauty-salon-ms/internal/service/catalog"
	clientService "github.com/Bigidan/beauty-salon-ms/internal/service/client"
	discountService "github.com/Bigidan/beauty-salon-ms/internal/service/discount"
	employeeService "github.com/Bigidan/beauty-salon-ms/internal/service/employee"
	scheduleService "github.com/Bigidan/beauty-salon-ms/internal/service/schedule"
	"github.com/Bigidan/beauty-salon-ms/internal/service/scheduling"
	userService "github.com/Bigidan/beauty-salon-ms/internal/service/user"
	visitService "github.com/Bigidan/beauty-salon-ms/internal/service/visit"
	"github.com/Bigidan/beauty-salon-ms/pkg/auth"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
	"github.com/Bigidan/beauty-salon-ms/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	employeeRepo := postgres.NewEmployeeRepository(db)
	discountRepo := postgres.NewDiscountRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	m := metrics.NewMetrics("salon", "api")
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	notifier := email.NewSMTPSender(cfg.Email)

	schedulingSvc := scheduling.NewService(
		appointmentRepo, serviceRepo, discountRepo, clientRepo, outboxRepo,
		notifier, appLogger, m,
	)
	clientSvc := clientService.NewService(clientRepo, userRepo, appLogger)
	catalogSvc := catalogService.NewService(serviceRepo, appLogger)
	employeeSvc := employeeService.NewService(employeeRepo, appLogger)
	discountSvc := discountService.NewService(discountRepo, clientRepo, appLogger)
	scheduleSvc := scheduleService.NewService(scheduleRepo, employeeRepo, appLogger)
	visitSvc := visitService.NewService(visitRepo, appointmentRepo, appLogger)
	authSvc := authService.NewService(userRepo, jwtSvc, appLogger)
	userSvc := userService.NewService(userRepo, appLogger)

	authMW := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(authMW, router.Handlers{
		Health:      healthHandler.NewHandler(db),
		Auth:        authHandler.NewHandler(authSvc),
		Appointment: appointmentHandler.NewHandler(schedulingSvc),
		Client:      clientHandler.NewHandler(clientSvc),
		Catalog:     catalogHandler.NewHandler(catalogSvc),
		Employee:    employeeHandler.NewHandler(employeeSvc),
		Discount:    discountHandler.NewHandler(discountSvc),
		Schedule:    scheduleHandler.NewHandler(scheduleSvc),
		Visit:       visitHandler.NewHandler(visitSvc),
		User:        userHandler.NewHandler(userSvc),
	}, router.Config{
		RequestsPerSecond: cfg.Limits.RequestsPerSecond,
		Burst:             cfg.Limits.Burst,
		CORS:              middleware.DefaultCORSConfig(),
		Timeout: middleware.TimeoutConfig{
			Duration: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error(err, "forced shutdown")
	}
}
