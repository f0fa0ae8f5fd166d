package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/bookpost-erp/bookpost/internal/analytics"
	"github.com/bookpost-erp/bookpost/internal/app"
	"github.com/bookpost-erp/bookpost/internal/auth"
	"github.com/bookpost-erp/bookpost/internal/bundles"
	"github.com/bookpost-erp/bookpost/internal/bundles/dispatches"
	"github.com/bookpost-erp/bookpost/internal/catalog"
	"github.com/bookpost-erp/bookpost/internal/masterdata/classes"
	"github.com/bookpost-erp/bookpost/internal/masterdata/distributors"
	"github.com/bookpost-erp/bookpost/internal/masterdata/profiles"
	"github.com/bookpost-erp/bookpost/internal/masterdata/schools"
	"github.com/bookpost-erp/bookpost/internal/masterdata/suppliers"
	"github.com/bookpost-erp/bookpost/internal/masterdata/transports"
	"github.com/bookpost-erp/bookpost/internal/payments"
	"github.com/bookpost-erp/bookpost/internal/platform/cache"
	"github.com/bookpost-erp/bookpost/internal/platform/db"
	"github.com/bookpost-erp/bookpost/internal/pos"
	"github.com/bookpost-erp/bookpost/internal/publisher"
	"github.com/bookpost-erp/bookpost/jobs"
	"github.com/bookpost-erp/bookpost/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	pdfClient := report.NewClient(cfg.GotenbergURL)

	schoolsHandler := schools.NewHandler(logger, schools.NewService(schools.NewRepository(pool)))
	classesService := classes.NewService(classes.NewRepository(pool))
	classesHandler := classes.NewHandler(logger, classesService)
	suppliersHandler := suppliers.NewHandler(logger, suppliers.NewService(suppliers.NewRepository(pool)))
	distributorsHandler := distributors.NewHandler(logger, distributors.NewService(distributors.NewRepository(pool)))
	transportsHandler := transports.NewHandler(logger, transports.NewService(transports.NewRepository(pool)))
	profilesHandler := profiles.NewHandler(logger, profiles.NewService(profiles.NewRepository(pool)))

	catalogRepo := catalog.NewRepository(pool)
	legacyClient := catalog.NewLegacyClient(cfg.LegacyAPIURL, cfg.LegacyAPIToken)
	catalogHandler := catalog.NewHandler(logger, catalogRepo, legacyClient)

	bundleService := bundles.NewService(bundles.NewRepository(pool))
	bundlesHandler := bundles.NewHandler(logger, bundleService)

	dispatchService := dispatches.NewService(dispatches.NewRepository(pool))
	dispatchHandler := dispatches.NewHandler(logger, dispatchService, pdfClient, report.ChallanHTML)

	publisherService := publisher.NewService(logger, publisher.NewRepository(pool), jobsClient)
	publisherHandler := publisher.NewHandler(logger, publisherService)

	paymentsHandler := payments.NewHandler(logger, payments.NewService(payments.NewRepository(pool)))

	cartStore := pos.NewStore(redisClient)
	cartLoader := pos.NewLoader(bundleService, catalogRepo, classesService, cartStore)
	posService := pos.NewService(pos.NewSaleRepository(pool), catalogRepo, cartStore, cartLoader, pdfClient, redisClient)
	posHandler := pos.NewHandler(logger, posService)

	analyticsService := analytics.NewService(
		analytics.NewRepository(pool),
		analytics.NewCache(redisClient, 10*time.Minute),
	)
	analyticsHandler := analytics.NewHandler(logger, analyticsService)

	reportHandler := report.NewHandler(pdfClient, logger)
	jobHandler := jobs.NewHandler(asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr}), logger)

	router := app.NewRouter(app.RouterParams{
		Logger: logger,
		Config: cfg,

		AuthMiddleware: auth.NewMiddleware(cfg.JWTSecret),

		SchoolsHandler:      schoolsHandler,
		ClassesHandler:      classesHandler,
		SuppliersHandler:    suppliersHandler,
		DistributorsHandler: distributorsHandler,
		TransportsHandler:   transportsHandler,
		ProfilesHandler:     profilesHandler,

		CatalogHandler:   catalogHandler,
		BundlesHandler:   bundlesHandler,
		DispatchHandler:  dispatchHandler,
		PublisherHandler: publisherHandler,
		PaymentsHandler:  paymentsHandler,
		POSHandler:       posHandler,
		AnalyticsHandler: analyticsHandler,
		ReportHandler:    reportHandler,
		JobHandler:       jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
