package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomcast/internal/core/ports"
	"roomcast/internal/core/services"
	httphandlers "roomcast/internal/handlers/http"
	"roomcast/internal/infrastructure/monitoring"
	"roomcast/internal/infrastructure/repositories"
	"roomcast/pkg/config"
	"roomcast/pkg/logger"
	"roomcast/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

var configPaths = []string{
	"configs/config.yaml",
	"/etc/roomcast/config.yaml",
	"config.yaml",
}

func main() {
	// .env.local takes precedence; godotenv never overrides variables already set.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "roomcast: %v\n", err)
		os.Exit(1)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	tp, err := tracing.Init(tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		JaegerURL:      cfg.Tracing.JaegerURL,
		Environment:    cfg.Tracing.Environment,
		SampleRate:     cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	repoFactory, err := repositories.NewRepositoryFactory(startupCtx, cfg, log)
	cancelStartup()
	if err != nil {
		log.Fatalw("failed to connect to record store", "driver", cfg.Store.Driver, "error", err)
	}

	var (
		collector *monitoring.PrometheusCollector
		gatherer  prometheus.Gatherer
	)
	if cfg.Monitoring.PrometheusEnabled {
		collector = monitoring.NewPrometheusCollector(prometheus.DefaultRegisterer)
		gatherer = prometheus.DefaultGatherer
	}

	authService, err := services.NewAuthService(services.AuthConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		Issuer:     cfg.Service.Name,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, repoFactory.UserRepository(), repoFactory.TokenDenylist(), metricsOrNil(collector), log.Named("auth"))
	if err != nil {
		log.Fatalw("failed to create auth service", "error", err)
	}

	roomService := services.NewRoomService(
		repoFactory.RoomRepository(),
		cfg.Rooms.PlaybackBaseURL,
		metricsOrNil(collector),
		log.Named("rooms"),
	)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httphandlers.NewRouter(httphandlers.RouterDeps{
		Config:          cfg,
		Logger:          zapLogger,
		AuthService:     authService,
		RoomService:     roomService,
		StoreCheck:      repoFactory.HealthCheck,
		Metrics:         collector,
		MetricsGatherer: gatherer,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("starting roomcast server",
			"address", cfg.Server.Address,
			"store", repoFactory.Driver(),
			"version", cfg.Service.Version,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Errorw("server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("received shutdown signal", "signal", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("error force closing server", "error", closeErr)
		}
	}

	if err := repoFactory.Close(); err != nil {
		log.Errorw("error closing record store", "error", err)
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Errorw("error shutting down tracer provider", "error", err)
	}

	log.Info("roomcast server stopped")
}

// resolveConfigPath prefers ROOMCAST_CONFIG, then the first existing default path.
func resolveConfigPath() string {
	if path := os.Getenv("ROOMCAST_CONFIG"); path != "" {
		return path
	}
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return configPaths[0]
}

// metricsOrNil avoids handing services a typed nil interface.
func metricsOrNil(c *monitoring.PrometheusCollector) ports.RoomMetrics {
	if c == nil {
		return nil
	}
	return c
}
