package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shegergsm/lookup-gateway/internal/config"
	"github.com/shegergsm/lookup-gateway/internal/database"
	"github.com/shegergsm/lookup-gateway/internal/handler"
	"github.com/shegergsm/lookup-gateway/internal/jobs"
	"github.com/shegergsm/lookup-gateway/internal/middleware"
	"github.com/shegergsm/lookup-gateway/internal/redis"
	"github.com/shegergsm/lookup-gateway/internal/repository"
	"github.com/shegergsm/lookup-gateway/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	accountRepo := repository.NewAccountRepository(db.DB)
	serviceRepo := repository.NewServiceRepository(db.DB)
	usageRepo := repository.NewUsageRepository(db.DB)
	deviceRepo := repository.NewDeviceRepository(db.DB)
	paymentRepo := repository.NewPaymentRepository(db.DB)
	adminSessionRepo := repository.NewAdminSessionRepository(db.DB)

	accountService := service.NewAccountService(accountRepo, cfg.SignupFreeCredits)
	quotaService := service.NewQuotaService(accountRepo)
	catalogService := service.NewCatalogService(serviceRepo)
	providerGateway := service.NewProviderGateway(cfg.ProviderTimeout())
	lookupService := service.NewLookupService(
		db, accountService, quotaService, catalogService,
		providerGateway, usageRepo, deviceRepo,
	)
	adminService := service.NewAdminService(
		adminSessionRepo, accountRepo, serviceRepo, usageRepo, deviceRepo, paymentRepo,
		cfg.AdminPasswordHash, cfg.AdminSessionSecret,
	)
	rateLimiter := service.NewRateLimiter(redisClient.Client)

	adminSessionMiddleware := middleware.NewAdminSessionMiddleware(
		adminSessionRepo, cfg.AdminPasswordHash, cfg.AdminSessionSecret,
	)
	csrfMiddleware := middleware.NewCSRFMiddleware(isProduction)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)
	lookupRateLimit := middleware.NewIPRateLimitMiddleware(
		rateLimiter, "lookup", config.LookupRateLimit, config.LookupRateLimitWindow,
	)
	loginRateLimit := middleware.NewIPRateLimitMiddleware(
		rateLimiter, "login", config.LoginRateLimit, config.LoginRateLimitWindow,
	)

	lookupHandler := handler.NewLookupHandler(lookupService)
	accountHandler := handler.NewAccountHandler(accountService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	usageHandler := handler.NewUsageHandler(usageRepo)
	deviceHandler := handler.NewDeviceHandler(deviceRepo)
	paymentHandler := handler.NewPaymentHandler(paymentRepo)
	statusHandler := handler.NewStatusHandler(db, redisClient)
	adminHandler := handler.NewAdminHandler(
		adminService, adminSessionMiddleware.Handler, loginRateLimit.Handler,
		accountHandler, catalogHandler, usageHandler, deviceHandler, paymentHandler,
		isProduction,
	)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", statusHandler.Status)

		r.With(lookupRateLimit.Handler).Post("/lookup", lookupHandler.Lookup)
		r.Get("/user/{externalID}", accountHandler.ResolveByExternalID)

		r.Get("/services", catalogHandler.ListPublic)
		r.Get("/services/grouped", catalogHandler.ListGrouped)
		r.Get("/services/{code}", catalogHandler.GetByCode)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(securityHeadersMiddleware.Handler)
		r.Use(csrfMiddleware.Handler)
		r.Mount("/", adminHandler.Routes())
	})

	cleanupJob := jobs.NewCleanupJob(adminSessionRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     r,
		ReadTimeout: config.ServerReadTimeout,
		// Provider calls can take up to the configured timeout, so
		// write timeout is left to the request timeout middleware.
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
