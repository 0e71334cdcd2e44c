package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wonny/pulse/internal/cache"
	"github.com/wonny/pulse/internal/market"
	"github.com/wonny/pulse/internal/scoring"
	"github.com/wonny/pulse/internal/universe"
	"github.com/wonny/pulse/pkg/config"
	"github.com/wonny/pulse/pkg/database"
	"github.com/wonny/pulse/pkg/httputil"
	"github.com/wonny/pulse/pkg/logger"
	"github.com/wonny/pulse/pkg/metrics"
	"github.com/wonny/pulse/pkg/redis"
)

// app holds the wired components shared by the server and one-shot commands
type app struct {
	cfg            *config.Config
	log            *logger.Logger
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	db             *database.DB
	redis          *redis.Client
	cache          *cache.Cache
	breakers       *httputil.BreakerRegistry
	service        *market.Service
	repo           *universe.Repository
	universe       universe.Source
	universeSource string
}

// newApp connects optional infrastructure (Postgres, Redis) and builds the market service.
// Callers must call close.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{
		cfg:      cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
	}
	a.metrics = metrics.New(a.registry)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// 1. Database (optional)
	if cfg.Database.Enabled() {
		db, err := database.New(connectCtx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		if err := db.EnsureSchema(connectCtx); err != nil {
			a.close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.repo = universe.NewRepository(db.Pool)
		log.Info("Connected to database")
	}

	// 2. Redis (optional)
	rdb, err := redis.New(connectCtx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rdb
	if rdb.Enabled() {
		log.Info("Connected to redis")
	}

	// 3. Universe
	src, source, err := universe.Resolve(cfg, a.repo)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("resolve universe: %w", err)
	}
	a.universe = src
	a.universeSource = source
	log.WithField("source", source).Info("Universe resolved")

	// 4. Cache + resilience
	a.cache = cache.New(rdb, cfg.Cache, log, a.metrics)
	a.breakers = httputil.NewBreakerRegistry(httputil.DefaultBreakerConfig, log, a.metrics)

	opts := market.ProviderOptions{
		Logger:   log,
		Metrics:  a.metrics,
		Breakers: a.breakers,
		Cache:    a.cache,
	}
	if rdb.Enabled() {
		opts.RateLimiter = redis.NewRateLimiter(rdb, "pulse")
	}

	// 5. Providers + service
	providers, err := market.NewProviders(cfg, opts)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("build providers: %w", err)
	}
	a.service = market.NewService(src, providers, scoring.NewRanker(log, a.metrics), log)

	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}

// setup loads config, builds the logger and wires the app for a one-shot command.
// Logs go to stderr (warn and above unless --verbose) so stdout stays clean.
func setup(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !verbose {
		cfg.LogLevel = "warn"
	}
	return newApp(ctx, cfg, logger.NewWithWriter(cfg, os.Stderr))
}
