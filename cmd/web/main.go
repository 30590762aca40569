package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"nightsales-dashboard/internal/config"
	"nightsales-dashboard/internal/middleware"
	"nightsales-dashboard/internal/observability"
	"nightsales-dashboard/internal/server"
	"nightsales-dashboard/internal/services"
)

const sourceLoadTimeout = 30 * time.Second

func loadOptions(cfg config.SalesConfig, logger *slog.Logger) (services.LoadOptions, error) {
	window, err := cfg.Window()
	if err != nil {
		return services.LoadOptions{}, err
	}
	return services.LoadOptions{
		Sheet:  cfg.Sheet,
		Window: window,
		Columns: services.Columns{
			Timestamp: cfg.TimestampColumn,
			Payment:   cfg.PaymentColumn,
			Amount:    cfg.AmountColumn,
		},
		Logger: logger,
	}, nil
}

func newHandler(cfg *config.Config, analytics *services.Analytics, logger *slog.Logger) http.Handler {
	srv := server.NewServer(analytics, logger)
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)
	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger, nil)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	opts, err := loadOptions(cfg.Sales, logger)
	if err != nil {
		logger.Error("invalid sales window", "error", err)
		os.Exit(1)
	}
	analytics := services.NewAnalytics(opts)

	ctx, cancel := context.WithTimeout(context.Background(), sourceLoadTimeout)
	defer cancel()

	start := time.Now()
	if err := analytics.LoadFromFile(ctx, cfg.Sales.File); err != nil {
		logger.Error("failed to load sales source", "source", cfg.Sales.File, "error", err)
		os.Exit(1)
	}
	logger.Info("sales source loaded", "source", cfg.Sales.File, "duration", time.Since(start))

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, analytics, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service")
		return analytics.Close(ctx)
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
