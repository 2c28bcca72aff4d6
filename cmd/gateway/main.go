package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/razorpay-integration/internal/adapters/callback"
	"github.com/DanielPopoola/razorpay-integration/internal/adapters/handler"
	"github.com/DanielPopoola/razorpay-integration/internal/adapters/middleware"
	"github.com/DanielPopoola/razorpay-integration/internal/adapters/postgres"
	"github.com/DanielPopoola/razorpay-integration/internal/adapters/razorpay"
	redisadapter "github.com/DanielPopoola/razorpay-integration/internal/adapters/redis"
	"github.com/DanielPopoola/razorpay-integration/internal/config"
	"github.com/DanielPopoola/razorpay-integration/internal/core/ports"
	"github.com/DanielPopoola/razorpay-integration/internal/core/service"
	"github.com/DanielPopoola/razorpay-integration/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting razorpay integration",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var messageStore ports.MessageStore
	redisClient, err := redisadapter.Connect(ctx, cfg.Redis.RedisOptions())
	if err != nil {
		logger.Warn("redis unavailable, messages will be carried in the url", "error", err)
	} else {
		defer redisClient.Close()
		messageStore = redisadapter.NewMessageStore(redisClient, cfg.Redis.MessageTTL)
	}

	var references ports.ReferenceDocuments
	if cfg.Callback.URL != "" {
		references = callback.NewHTTPNotifier(cfg.Callback, logger)
	} else {
		logger.Warn("no callback url configured, authorized payments will not be reported")
	}

	requestRepo := postgres.NewIntegrationRequestRepository(db)
	settingsStore := postgres.NewSettingsStore(db)
	gateway := razorpay.NewGateway(nil, logger)

	messenger := service.NewMessenger(messageStore, logger)
	settingsService := service.NewSettingsService(settingsStore, gateway, logger)
	checkoutService := service.NewCheckoutService(settingsService, messenger, cfg.Razorpay.BrandImage)
	authService := service.NewAuthorizationService(requestRepo, gateway, settingsService, references, messenger, logger)
	captureService := service.NewCaptureService(requestRepo, gateway, settingsService, cfg.Worker.BatchSize, logger)

	h := handler.NewRazorpayHandler(
		checkoutService,
		authService,
		settingsService,
		messenger,
		cfg.Server.AdminToken,
		logger,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	router := http.Handler(mux)

	srvHandler := middleware.Recovery(logger)(router)
	srvHandler = middleware.Logging(logger)(srvHandler)
	paymentTimeout := cfg.PaymentTimeout()
	srvHandler = middleware.RouteTimeouts(cfg.Server.ReadTimeout, map[string]time.Duration{
		handler.MakePaymentPath: paymentTimeout,
	})(srvHandler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      srvHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: max(cfg.Server.WriteTimeout, paymentTimeout),
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	captureWorker := worker.NewCaptureWorker(
		captureService,
		cfg.Worker.Interval,
		service.SweepOptions{},
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go captureWorker.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
