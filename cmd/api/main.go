package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commute-watch/internal/api"
	"commute-watch/internal/config"
	"commute-watch/internal/database"
	"commute-watch/internal/modules/checker"
	"commute-watch/internal/modules/logs"
	"commute-watch/internal/modules/places"
	"commute-watch/internal/modules/routes"
	"commute-watch/internal/modules/settings"
	"commute-watch/internal/modules/users"
	"commute-watch/internal/scheduler"
	"commute-watch/pkg/email"
	"commute-watch/pkg/maps"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := newLogger(cfg.LogLevel)

	ctx := context.Background()

	// 2. --- Database Connection ---
	// The pool is shared by every repository; migrations run on connect.
	dbPool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer dbPool.Close()
	logger.Info().Msg("connected to the database")

	// 3. --- HTTP Server & Middleware ---
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 4. --- External Collaborators ---
	directionsClient := maps.NewClient(cfg.GoogleMapsAPIKey,
		maps.WithTimeout(cfg.MapsTimeout),
		maps.WithRateLimit(cfg.MapsRatePerSecond),
	)
	placesClient := maps.NewClient(cfg.GooglePlacesAPIKey,
		maps.WithTimeout(cfg.MapsTimeout),
		maps.WithRateLimit(cfg.MapsRatePerSecond),
	)

	var emailer email.ServiceInterface
	var templates *email.TemplateManager
	if cfg.EmailSender != "" {
		emailer, err = email.NewSESV2Sender(ctx, cfg.AWSRegion, cfg.EmailSender)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create SES sender")
		}
		templates, err = email.NewTemplateManager()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to parse email templates")
		}
	} else {
		logger.Warn().Msg("EMAIL_SENDER not set, signup emails disabled")
	}

	// 5. --- Dependency Injection (Wiring everything up) ---
	// --- Users Module ---
	userRepo := users.NewRepository(dbPool)
	userService := users.NewService(userRepo, emailer, templates, cfg.JWTSecret, cfg.ClientOrigin)
	userHandler := users.NewHandler(userService)

	// --- Settings Module ---
	settingsRepo := settings.NewRepository(dbPool)
	settingsService := settings.NewService(settingsRepo)
	settingsHandler := settings.NewHandler(settingsService)

	// --- Routes Module ---
	routeRepo := routes.NewRepository(dbPool)
	routeService := routes.NewService(routeRepo, settingsService)
	routeHandler := routes.NewHandler(routeService)

	// --- Logs Module ---
	logRepo := logs.NewRepository(dbPool)
	logService := logs.NewService(logRepo, routeService)
	logHandler := logs.NewHandler(logService)

	// --- Places Module ---
	placesHandler := places.NewHandler(placesClient)

	// --- Checker Module (the dispatcher) ---
	checkerService := checker.NewService(
		cfg.GoogleMapsAPIKey,
		routeRepo,
		settingsRepo,
		logRepo,
		directionsClient,
		logger.With().Str("component", "checker").Logger(),
	)
	checkerHandler := checker.NewHandler(checkerService, cfg.CronToken)

	// 6. --- Router ---
	api.SetupRoutes(e,
		userHandler,
		routeHandler,
		settingsHandler,
		logHandler,
		placesHandler,
		checkerHandler,
		cfg.JWTSecret,
	)

	// 7. --- Embedded Scheduler ---
	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched = scheduler.New(checkerService, logger.With().Str("component", "scheduler").Logger(), 0)
		if err := sched.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start scheduler")
		}
	} else {
		logger.Info().Msg("embedded scheduler disabled, relying on external cron")
	}

	// 8. --- Start Server with graceful shutdown ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server exiting")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
