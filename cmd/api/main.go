package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/mediplace/lab-api/internal/config"
	"github.com/mediplace/lab-api/internal/handler"
	laborderHandler "github.com/mediplace/lab-api/internal/handler/laborder"
	"github.com/mediplace/lab-api/internal/middleware"
	"github.com/mediplace/lab-api/internal/repository/postgres"
	"github.com/mediplace/lab-api/internal/router"
	laborderService "github.com/mediplace/lab-api/internal/service/laborder"
	"github.com/mediplace/lab-api/pkg/auth"
	"github.com/mediplace/lab-api/pkg/logger"
	"github.com/mediplace/lab-api/pkg/metrics"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.NewMetrics("lab_api", registry)

	// Repositories
	orderRepo := postgres.NewLabOrderRepository(db)
	prescriptionRepo := postgres.NewLabPrescriptionRepository(db)
	resultRepo := postgres.NewLabResultRepository(db)
	testRepo := postgres.NewLabTestRepository(db)
	directoryRepo := postgres.NewDirectoryRepository(db)

	// Services
	orderSvc := laborderService.NewService(
		orderRepo,
		prescriptionRepo,
		resultRepo,
		testRepo,
		directoryRepo,
		appLogger,
		m,
	)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(auth.NewTokenValidator(cfg.JWT.Secret))
	h := handler.NewHandler(db)
	orderHandler := laborderHandler.NewHandler(orderSvc, authMiddleware)

	r := router.NewRouter(orderHandler, h, m, registry, router.RouterConfig{
		RateLimit:  cfg.RateLimit.RequestsPerSecond,
		RateBurst:  cfg.RateLimit.Burst,
		Timeout:    time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORSConfig: middleware.DefaultCORSConfig(),
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	appLogger.Info("server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
