package cmd

import (
	"context"
	"errors"
	"fmt"

	"inventory-tracker/core/config"
	"inventory-tracker/core/database"
	"inventory-tracker/core/lease"
	"inventory-tracker/core/logger"
	"inventory-tracker/core/paginator"
	"inventory-tracker/core/reconcile"
	"inventory-tracker/core/storage"
	"inventory-tracker/core/telemetry"
	"inventory-tracker/feature/inventory/store"
	"inventory-tracker/feature/listing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application holds the components shared by the commands.
type application struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	store     *store.GormStore
	storage   storage.Client
	transport listing.Transport
	redis     *redis.Client
	shutdown  telemetry.ShutdownFunc
}

// bootstrap loads configuration, installs tracing and connects to the
// database. Object storage is opened only when archiving or replaying.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, logg)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("database connection required: %w", err)
	}
	logg.Info("Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.String("name", cfg.Database.Name),
	)

	a := &application{
		cfg:      cfg,
		logger:   logg,
		db:       db,
		store:    store.New(db),
		shutdown: shutdown,
	}

	if cfg.Collector.Archive || cfg.Collector.Transport.Kind == listing.KindReplay {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		a.storage = client
	}
	return a, nil
}

// migrate applies the schema and seeds the configured locations.
func (a *application) migrate(ctx context.Context) error {
	if err := a.store.Migrate(ctx, a.cfg.Collector.Locations); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	a.logger.Info("Database schema ready", zap.Strings("locations", a.cfg.Collector.Locations))
	return nil
}

// reconciler opens the configured transport and builds the cycle engine.
// A read-only reconciler never archives pages, so a dry run leaves object
// storage untouched.
func (a *application) reconciler(ctx context.Context, readOnly bool) (*reconcile.Reconciler, error) {
	policy, err := reconcile.PolicyByName(a.cfg.Collector.MetadataPolicy)
	if err != nil {
		return nil, err
	}

	archive := listing.Archive{Bucket: a.cfg.Storage.Bucket}
	switch {
	case a.cfg.Collector.Transport.Kind == listing.KindReplay:
		archive.Client = a.storage
	case a.cfg.Collector.Archive && !readOnly:
		if err := storage.EnsureBucket(ctx, a.storage, a.cfg.Storage.Bucket, a.cfg.Storage.Region); err != nil {
			return nil, err
		}
		archive.Client = a.storage
	}

	transport, err := listing.Open(ctx, a.cfg.Collector.Transport, archive, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open transport: %w", err)
	}
	a.transport = transport

	pager := paginator.New(transport, listing.NewVendorParser(a.logger), a.cfg.Collector.Paging, a.logger)
	a.logger.Info("Collector configured",
		zap.String("transport", a.cfg.Collector.Transport.Kind),
		zap.Int("page_size", pager.PageSize()),
		zap.Duration("page_delay", a.cfg.Collector.Paging.PageDelay),
		zap.String("metadata_policy", policy.Name()),
	)

	return reconcile.New(a.store, pager, reconcile.Config{
		Query:     a.cfg.Collector.Query,
		Locations: a.cfg.Collector.Locations,
		Policy:    policy,
	}, a.logger), nil
}

// runner wraps rec in the collection loop guarded by the configured lease.
func (a *application) runner(ctx context.Context, rec *reconcile.Reconciler) (*reconcile.Runner, error) {
	runnerCfg := reconcile.RunnerConfig{Interval: a.cfg.Collector.CycleInterval}

	if !a.cfg.Redis.Enabled() {
		return reconcile.NewRunner(rec, runnerCfg, a.logger).WithLease(&lease.LocalLease{}), nil
	}

	client, err := lease.Connect(ctx, a.cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.redis = client

	redisLease := lease.NewRedisLease(client, a.cfg.Redis.Key, a.cfg.Redis.TTL)
	runnerCfg.RenewEvery = redisLease.RenewEvery()
	a.logger.Info("Cycle lease enabled",
		zap.String("key", a.cfg.Redis.Key),
		zap.Duration("ttl", a.cfg.Redis.TTL),
		zap.Duration("renew_every", runnerCfg.RenewEvery),
	)
	return reconcile.NewRunner(rec, runnerCfg, a.logger).WithLease(redisLease), nil
}

// Close releases every resource the application opened.
func (a *application) Close() {
	var errs []error
	if a.transport != nil {
		errs = append(errs, a.transport.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if sqlDB, err := a.db.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(context.Background()))
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("Shutdown incomplete", zap.Error(err))
	}
	_ = a.logger.Sync()
}
