package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onfly/isp-portal-bff-go/internal/config"
	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/handler"
	"github.com/onfly/isp-portal-bff-go/internal/infra/cache"
	"github.com/onfly/isp-portal-bff-go/internal/infra/observability"
	"github.com/onfly/isp-portal-bff-go/internal/infra/resilience"
	"github.com/onfly/isp-portal-bff-go/internal/infra/sgp"
	"github.com/onfly/isp-portal-bff-go/internal/netquality"
	"github.com/onfly/isp-portal-bff-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("sgp_url", cfg.SGPURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
		zap.String("probe_target", cfg.ProbeTarget),
	)
	if cfg.SGPToken == "" {
		logger.Warn("SGP_TOKEN is empty, upstream calls will be rejected")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "isp-portal-bff")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Caches ---
	userCache := cache.New[*domain.User](cfg.CacheTTL)
	typesCache := cache.New[[]domain.TicketType](time.Hour)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("sgp")
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	sgpClient := sgp.NewClient(httpClient, cfg.SGPURL, cfg.SGPToken, cb, resilienceCfg, logger)

	prober := netquality.NewProber(httpClient, cfg.ProbeTarget, cfg.ProbeSamples, cfg.ProbeTimeout, logger)

	// --- Services ---
	portalSvc := service.NewPortal(
		sgpClient,
		userCache,
		typesCache,
		bulkhead,
		metrics,
		logger,
		[]byte(cfg.JWTSecret),
		cfg.JWTAccessTTL,
	)
	networkSvc := service.NewNetwork(prober, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(portalSvc, networkSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
