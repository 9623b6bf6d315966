package main

import (
	"context"
	"errors"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/api/controller"
	apirepository "neonttt/Tic-Tac-Toe/internal/api/repository"
	"neonttt/Tic-Tac-Toe/internal/api/service"
	"neonttt/Tic-Tac-Toe/internal/bot"
	"neonttt/Tic-Tac-Toe/internal/config"
	"neonttt/Tic-Tac-Toe/internal/db"
	"neonttt/Tic-Tac-Toe/internal/events"
	"neonttt/Tic-Tac-Toe/internal/hub"
	"neonttt/Tic-Tac-Toe/internal/logger"
	"neonttt/Tic-Tac-Toe/internal/repository"
	"neonttt/Tic-Tac-Toe/internal/room"
	"neonttt/Tic-Tac-Toe/internal/server"
	"neonttt/Tic-Tac-Toe/internal/telemetry"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdownTelemetry, err := telemetry.InitOtel(ctx, cfg.OTLPEndpoint, nil)
	if err != nil {
		slog.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	// Initialize Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		slog.Error("failed to initialize redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Initialize SQLite DB
	sqlDB, err := db.Connect(cfg.SQLitePath)
	if err != nil {
		slog.Error("failed to open sqlite db", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()
	if err := db.InitializeDB(sqlDB); err != nil {
		slog.Error("failed to initialize sqlite db", "error", err)
		os.Exit(1)
	}

	// Create repositories
	stores := room.Stores{
		Sessions: repository.NewSessionRepository(rdb, cfg.SessionTTL),
		Settings: repository.NewSettingsRepository(rdb, cfg.Settings()),
		Players:  repository.NewPlayerRepository(rdb),
	}
	userRepo := apirepository.NewUserRepository(sqlDB)
	statsRepo := apirepository.NewStatsRepository(sqlDB)

	// Create services
	calculator := bot.NewBotMoveCalculator(nil)
	userService := service.NewUserService(userRepo, []byte(cfg.JWTSecret))
	statsService := service.NewStatsService(statsRepo)
	publisher := events.NewRedisPublisher(rdb)
	settingsService := service.NewSettingsService(stores.Settings, publisher)
	stores.Stats = statsService
	engineService := service.NewEngineService(calculator)

	// Create controllers
	controllers := server.Controllers{
		User:     controller.NewUserController(userService),
		Settings: controller.NewSettingsController(settingsService),
		Stats:    controller.NewStatsController(statsService),
		Engine:   controller.NewEngineController(engineService),
	}

	// Create hub
	h := hub.NewHub(rdb, stores, publisher,
		bot.WithThinkDelay(cfg.BotThinkDelay),
		bot.WithCalculator(calculator),
	)
	hubDone := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(hubDone)
	}()

	gin.SetMode(gin.ReleaseMode)
	srv := server.NewServer(h, controllers, userService, cfg.WebDir)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("http server started", "http.addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ListenAndServe failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	<-hubDone

	slog.Info("Server exiting")
}
