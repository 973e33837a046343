package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"seenjeem-admin/internal/app"
	"seenjeem-admin/internal/config"
	"seenjeem-admin/internal/domain"
	"seenjeem-admin/internal/infra/memory"
	"seenjeem-admin/internal/infra/postgres"
	infraredis "seenjeem-admin/internal/infra/redis"
	"seenjeem-admin/internal/infra/storage"
	"seenjeem-admin/internal/logger"
	"seenjeem-admin/internal/metrics"
)

const serviceName = "seenjeem-admin"

// repositories is the document store behind the catalog and reports.
type repositories interface {
	app.CategoryRepository
	app.QuestionRepository
	app.ReportRepository
}

// backend holds the wired use cases shared by the start and import commands.
type backend struct {
	log      *logrus.Entry
	catalog  *app.CatalogService
	importer *app.Importer
	reports  *app.ReportService
	history  app.ImportHistory
	feed     *app.Feed
	relay    *infraredis.ActivityRelay
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	closers  []func()
}

func buildBackend(ctx context.Context, cfg config.Config, log *logrus.Entry) (*backend, error) {
	b := &backend{log: log, feed: app.NewFeed()}

	guard, err := app.ParseUpdateGuard(cfg.Catalog.UpdateGuard)
	if err != nil {
		return nil, err
	}

	var store repositories = memory.NewStore()
	if cfg.Postgres.URL != "" {
		if _, err := postgres.Migrate(ctx, cfg.Postgres.URL); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		store = postgres.NewStore(pool)
	} else {
		log.Warn("postgres not configured, catalog is kept in memory")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = redisClient.Close() })
	}

	statsTTL := config.TTLDuration(cfg.Stats.TTL, time.Minute)
	counter := app.NewStatsCounter(store)
	var stats app.StatsProvider
	if redisClient != nil {
		stats = infraredis.NewStatsCache(redisClient, counter, statsTTL)
		b.history = infraredis.NewImportHistory(redisClient, cfg.Imports.HistoryLimit,
			config.TTLDuration(cfg.Redis.TTL, 30*24*time.Hour))
		b.relay = infraredis.NewActivityRelay(redisClient, log)
	} else {
		stats = memory.NewStatsCache(counter, statsTTL)
		b.history = memory.NewImportHistory(cfg.Imports.HistoryLimit)
	}

	publish := b.feed.Listener()
	if b.relay != nil {
		publish = b.relay.Publish
	}

	b.registry = prometheus.NewRegistry()
	b.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	b.metrics = metrics.New(b.registry)

	b.catalog = app.NewCatalogService(store, store,
		app.WithUpdateGuard(guard),
		app.WithLogger(log),
		app.WithChangeListener(publish),
		app.WithChangeListener(func(ctx context.Context, _ domain.Activity) { stats.Invalidate(ctx) }),
	)
	b.importer = app.NewImporter(b.catalog,
		app.WithImportHistory(b.history),
		app.WithRowObserver(b.metrics),
	)
	b.reports = app.NewReportService(store, stats, b.catalog)
	return b, nil
}

// runRelay feeds activities published by any instance into the local feed.
func (b *backend) runRelay(ctx context.Context) {
	if b.relay == nil {
		return
	}
	go func() {
		if err := b.relay.Run(ctx, nil, b.feed.Publish); err != nil && ctx.Err() == nil {
			b.log.WithError(err).Error("activity relay stopped")
		}
	}()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func buildMedia(cfg config.Config, log *logrus.Entry) (*app.MediaService, error) {
	s := cfg.Storage
	client, err := storage.New(s.Endpoint, s.Region, s.AccessKey, s.SecretKey, s.Bucket, s.PublicURL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		log.Warn("object storage not configured, media uploads are kept in memory")
		return app.NewMediaService(memory.NewObjectStore("memory://media"), log), nil
	}
	return app.NewMediaService(client, log), nil
}

func loadConfig(path string) (config.Config, *logrus.Entry, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger.New(serviceName, cfg.Log.Level, cfg.Log.Format), nil
}
