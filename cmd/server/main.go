package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/tradetrackr/internal/auth"
	"github.com/yourorg/tradetrackr/internal/gateway"
	"github.com/yourorg/tradetrackr/internal/journal"
	"github.com/yourorg/tradetrackr/internal/leaderboard"
	pgRepo "github.com/yourorg/tradetrackr/internal/repository/postgres"
	redisRepo "github.com/yourorg/tradetrackr/internal/repository/redis"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dbURL := os.Getenv("DATABASE_URL")
	redisURL := os.Getenv("REDIS_URL")
	jwtSecret := os.Getenv("JWT_SECRET")
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	freeLimit := envInt("FREE_TIER_TRADE_LIMIT", journal.DefaultFreeTierLimit)
	boardTTL := envDuration("LEADERBOARD_TTL", 30*time.Second)
	refreshEvery := envDuration("LEADERBOARD_REFRESH_INTERVAL", time.Minute)

	db, err := pgRepo.Connect(dbURL)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	logger.Info("database connected")

	if err := pgRepo.RunMigrations(dbURL, "migrations"); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}
	logger.Info("migrations applied")

	redisClient, err := redisRepo.Connect(redisURL)
	if err != nil {
		logger.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	logger.Info("redis connected")

	userRepo := pgRepo.NewUserRepo(db)
	profileRepo := pgRepo.NewProfileRepo(db)
	tradeRepo := pgRepo.NewTradeRepo(db)
	statsRepo := pgRepo.NewStatsRepo(db)
	boardRepo := redisRepo.NewBoardRepo(redisClient, boardTTL)

	jwtSvc := auth.NewJWTService(jwtSecret)

	journalSvc := journal.NewService(profileRepo, tradeRepo, statsRepo, boardRepo, freeLimit, logger)
	boardSvc := leaderboard.NewService(statsRepo, boardRepo, logger)
	refresher := leaderboard.NewRefresher(boardSvc, refreshEvery)

	hub := gateway.NewHub(boardRepo, logger)

	handlers := gateway.NewHandlers(userRepo, profileRepo, journalSvc, boardSvc, jwtSvc, logger)
	router := gateway.NewRouter(handlers, hub, jwtSvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)
	go refresher.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	logger.Info("server stopped")
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
