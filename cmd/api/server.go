package main

import (
	"context"
	"fmt"

	"medislot/cmd/internal/auth"
	"medislot/cmd/internal/config"
	"medislot/cmd/internal/domain/database"
	"medislot/cmd/internal/domain/database/repository"
	cognitoclient "medislot/cmd/internal/integration/aws/cognito"
	"medislot/cmd/internal/integration/supabase"
	"medislot/cmd/internal/metrics"
	"medislot/cmd/internal/routes"
	"medislot/cmd/internal/service"
	"medislot/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newServer wires config into a ready-to-start echo instance. The schema is
// migrated on every start.
func newServer(ctx context.Context, cfg *config.Config) (*echo.Echo, error) {
	validate := validator.New()
	validators.Register(validate)

	// Database
	db, err := database.Init(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	slotMetrics := metrics.NewSlotMetrics(reg)

	// Getting repositories
	apptRepo := repository.NewAppointmentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	centerRepo := repository.NewCenterRepository(db)

	var schedules service.ScheduleSource = scheduleRepo
	var bookings service.BookingSource = apptRepo
	if cfg.AvailabilitySource == config.SourceSupabase {
		src, err := supabase.NewSource(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			return nil, err
		}
		schedules, bookings = src, src
		log.Infof("availability reads served by supabase at %s", cfg.SupabaseURL)
	}

	authenticator, err := newAuthenticator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Getting services
	availabilityService := service.NewAvailabilityService(schedules, bookings, validate, slotMetrics)
	apptService := service.NewAppointmentService(apptRepo, doctorRepo, centerRepo, availabilityService, validate, slotMetrics)
	providerService := service.NewProviderService(doctorRepo, centerRepo, validate)
	scheduleService := service.NewScheduleService(scheduleRepo, doctorRepo, centerRepo, validate)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Errorf("%s %s %d %s id=%s: %v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			log.Infof("%s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	routes.Register(e, routes.Handlers{
		Appointments: routes.NewAppointmentDefault(apptService),
		Availability: routes.NewAvailabilityDefault(availabilityService),
		Providers:    routes.NewProviderDefault(providerService),
		Schedules:    routes.NewScheduleDefault(scheduleService),
	}, auth.RequireAuth(authenticator))

	return e, nil
}

func newAuthenticator(ctx context.Context, cfg *config.Config) (auth.Authenticator, error) {
	switch cfg.AuthMode {
	case config.AuthCognito:
		cogClient, err := cognitoclient.InitCognitoClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cognito client: %w", err)
		}
		return auth.NewCognitoAuthenticator(cogClient), nil
	default:
		return auth.NewJWTAuthenticator(cfg.JWTSecret), nil
	}
}
