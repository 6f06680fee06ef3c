package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rezo-backend/config"
	_ "rezo-backend/docs" // Important for Swagger
	v1 "rezo-backend/internal/delivery/http/v1"
	"rezo-backend/internal/delivery/http/middleware"
	"rezo-backend/internal/repository/postgres"
	"rezo-backend/internal/usecase"
	"rezo-backend/pkg/audit"
	"rezo-backend/pkg/auth"
	"rezo-backend/pkg/database"
	"rezo-backend/pkg/logger"
	"rezo-backend/pkg/redis"
	"rezo-backend/pkg/validation"

	goredis "github.com/redis/go-redis/v9"
)

// @title           Rezo Backend API
// @version         1.0
// @description     Matching platform for students, high-schoolers, companies and universities.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting rezo backend", "port", cfg.Port, "env", cfg.Env)

	auditLog := audit.New("rezo-backend", cfg.Env)
	defer auditLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		_ = auditLog.Sync()
		stop()
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional)
	var redisClient *goredis.Client
	redisClient, err = redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		redisClient = nil
	case err != nil:
		logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		redisClient = nil
	default:
		defer redisClient.Close()
	}

	rateLimiter := middleware.NewRateLimiter(redisClient, auditLog)
	go rateLimiter.Cleanup(ctx, time.Minute)

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	offerRepo := postgres.NewOfferRepository(dbPool)
	formationRepo := postgres.NewFormationRepository(dbPool)
	matchRepo := postgres.NewMatchRepository(dbPool)
	convRepo := postgres.NewConversationRepository(dbPool)

	// 6. Setup UseCases
	validate := validation.New()
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL())

	authUC := usecase.NewAuthUsecase(userRepo, hasher, tokens, validate, auditLog)
	profileUC := usecase.NewProfileUsecase(userRepo, profileRepo, validate)
	catalogUC := usecase.NewCatalogUsecase(offerRepo, formationRepo, profileRepo, validate)
	matchUC := usecase.NewMatchUsecase(userRepo, offerRepo, formationRepo, matchRepo, convRepo)
	conversationUC := usecase.NewConversationUsecase(userRepo, convRepo, validate)

	checks := map[string]usecase.HealthCheck{
		"database": dbPool.Ping,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		ProfileUC:      profileUC,
		CatalogUC:      catalogUC,
		MatchUC:        matchUC,
		ConversationUC: conversationUC,
		HealthUC:       healthUC,
		RateLimiter:    rateLimiter,
		Audit:          auditLog,
		Config:         cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
