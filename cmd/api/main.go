package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "tourlog/api/swagger" // swagger docs
	"tourlog/internal/auth"
	"tourlog/internal/config"
	"tourlog/internal/database"
	"tourlog/internal/handler"
	"tourlog/internal/metrics"
	"tourlog/internal/ratelimit"
	"tourlog/internal/repository"
	"tourlog/internal/service"
	"tourlog/internal/websocket"
)

// @title           Inspection Tour Records API
// @version         1.0
// @description     Record keeping for inspection tours: records, reference data, imports, reports and user administration.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Msg("connected to PostgreSQL")

	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}

	// Repository -> Service -> Handler
	userRepo := repository.NewUserRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	stationRepo := repository.NewStationRepository(db)
	portRepo := repository.NewPortRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	if cfg.SeedDatabase {
		seeder := service.NewSeeder(userRepo, stationRepo, portRepo)
		if err := seeder.Seed(ctx, service.SeedConfig{
			AdminUsername: cfg.SeedAdminUsername,
			AdminPassword: cfg.SeedAdminPassword,
		}); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	recordService := service.NewRecordService(recordRepo, auditRepo, txManager, hub)
	services := handler.Services{
		Auth:     service.NewAuthService(userRepo, auditRepo, txManager, tokens),
		Users:    service.NewUserService(userRepo, auditRepo, txManager),
		Records:  recordService,
		Stations: service.NewStationService(stationRepo, auditRepo, txManager),
		Ports:    service.NewPortService(portRepo, auditRepo, txManager),
		Imports:  service.NewImportService(recordService, auditRepo, hub),
		Reports:  service.NewReportService(recordRepo, userRepo, stationRepo, portRepo),
		Audit:    service.NewAuditService(auditRepo),
	}

	metrics.Init()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(handler.RouterConfig{
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Tokens:         tokens,
		AuthLimiter:    newAuthLimiter(cfg),
		Hub:            hub,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	}, services)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// newAuthLimiter shares login/register budgets through redis when configured
func newAuthLimiter(cfg *config.Config) ratelimit.Limiter {
	if cfg.RedisURL == "" {
		return ratelimit.NewMemory(cfg.LoginRatePerSecond, cfg.LoginBurst)
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	log.Info().Str("addr", opts.Addr).Msg("using redis rate limiter")
	return ratelimit.NewRedis(redis.NewClient(opts), cfg.LoginRatePerSecond, cfg.LoginBurst)
}
