package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sakkanal_backend/internal/adapters/storage"
	"sakkanal_backend/internal/analytics"
	"sakkanal_backend/internal/auth"
	"sakkanal_backend/internal/contact"
	"sakkanal_backend/internal/email"
	"sakkanal_backend/internal/events"
	"sakkanal_backend/internal/exports"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/internal/http/router"
	"sakkanal_backend/internal/leads"
	"sakkanal_backend/internal/notification"
	"sakkanal_backend/internal/notification/sse"
	"sakkanal_backend/internal/pdf"
	"sakkanal_backend/internal/report"
	reportservice "sakkanal_backend/internal/report/service"
	"sakkanal_backend/internal/scenarios"
	"sakkanal_backend/internal/scheduler"
	"sakkanal_backend/internal/search"
	"sakkanal_backend/internal/telemetry"
	"sakkanal_backend/migrations"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/db"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/observability"
	"sakkanal_backend/platform/redisconn"
	"sakkanal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if cfg.GetMigrationsAuto() {
		if err := db.RunMigrations(ctx, pool, migrations.FS); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	}

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	var metrics *observability.Metrics
	if cfg.GetMetricsEnabled() {
		metrics = observability.NewMetrics()
	}

	var rdb redis.Cmdable
	var redisClient *redis.Client
	if cfg.GetRedisURL() != "" {
		redisClient, err = redisconn.New(cfg)
		if err != nil {
			log.Error("failed to initialize redis client", "error", err)
			panic("failed to initialize redis client: " + err.Error())
		}
		defer func() { _ = redisClient.Close() }()
		rdb = redisClient
	} else {
		log.Warn("REDIS_URL not configured; tracker state kept in memory and notifications sent inline")
	}

	var converter pdf.Converter
	if cfg.IsGotenbergEnabled() {
		converter = pdf.NewGotenbergClient(cfg.GetGotenbergURL(), cfg.GetGotenbergUsername(), cfg.GetGotenbergPassword())
		log.Info("gotenberg PDF converter initialized", "url", cfg.GetGotenbergURL())
	}

	var archive *reportservice.Archive
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		bucket := cfg.GetMinioBucketReports()
		if err := withRetry(ctx, log, "ensure reports bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		archive = &reportservice.Archive{Storage: storageSvc, Bucket: bucket}
		log.Info("storage service initialized", "reportsBucket", bucket)
	}

	dispatcher, closeDispatcher, err := initDispatcher(cfg, log)
	if err != nil {
		log.Error("failed to initialize notification dispatcher", "error", err)
		panic("failed to initialize notification dispatcher: " + err.Error())
	}
	defer closeDispatcher()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	hub := sse.New(log)
	notificationModule := notification.New(dispatcher, hub, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	scenariosModule := scenarios.NewModule(pool, log)
	leadsModule := leads.NewModule(pool, scenariosModule.Service(), eventBus, metrics, cfg, val, log)
	analyticsModule := analytics.NewModule(pool, metrics, val, log)
	telemetryModule := telemetry.NewModule(pool, rdb, eventBus, metrics, cfg, val, log)
	leadsModule.SetActionTracker(telemetryModule.Events())
	reportModule := report.NewModule(scenariosModule.Service(), converter, archive, eventBus, cfg, val, log)
	contactModule := contact.NewModule(eventBus, cfg, val, log)
	authModule := auth.NewModule(pool, cfg, val, log)
	exportsModule := exports.NewModule(pool, val, log)
	searchModule := search.NewModule(pool, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Metrics:  metrics,
		Modules: []apphttp.Module{
			authModule,
			scenariosModule,
			leadsModule,
			analyticsModule,
			telemetryModule,
			reportModule,
			contactModule,
			notificationModule,
			exportsModule,
			searchModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		// Open SSE streams would otherwise hold Shutdown until the timeout.
		hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initDispatcher queues notifications through asynq when Redis is configured
// and falls back to sending them inline.
func initDispatcher(cfg *config.Config, log *logger.Logger) (notification.Dispatcher, func(), error) {
	if cfg.GetRedisURL() != "" {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info("sales notifications queued", "queue", cfg.GetAsynqQueueName())
		return notification.NewQueueDispatcher(client), func() { _ = client.Close() }, nil
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		return nil, nil, err
	}
	return notification.NewDirectDispatcher(sender, cfg.GetSalesNotifyEmail()), func() {}, nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
