// Package bootstrap assembles applyscore's runtime from configuration: the
// store, job cache, report archive and services shared by applyscored and
// the applyscore CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/applyscore/applyscore/internal/archive"
	"github.com/applyscore/applyscore/internal/logging"
	"github.com/applyscore/applyscore/internal/metrics"
	"github.com/applyscore/applyscore/internal/platform"
	"github.com/applyscore/applyscore/internal/screening"
	"github.com/applyscore/applyscore/internal/store"
	"github.com/applyscore/applyscore/pkg/config"
	"github.com/applyscore/applyscore/pkg/scoring"
)

// LoadConfig layers defaults, the YAML file at path (or the nearest
// .applyscore/config.yaml when path is empty), a .env file and the
// environment, then validates the result.
func LoadConfig(path string) (*config.Config, error) {
	if _, err := config.LoadEnvFile(".env"); err != nil {
		return nil, err
	}

	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(wd)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenStore opens the configured persistence backend. SQL backends are
// migrated first when cfg.Migrate is set.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (store.Store, error) {
	if cfg.InMemory {
		logger.Info("using in-memory storage")
		return store.NewMemoryStore(), nil
	}

	driver := platform.Driver(cfg.Driver)
	db, err := platform.Open(ctx, driver, cfg.DSN(),
		platform.Pool{MaxOpen: cfg.PoolMax, MaxIdle: cfg.PoolMin}, cfg.Migrate)
	if err != nil {
		return nil, err
	}
	logger.Info("using sql storage", zap.String("driver", cfg.Driver), zap.Bool("migrated", cfg.Migrate))
	return store.NewSQLStore(db), nil
}

// NewJobCache builds the configured job cache. It returns nil for the
// "none" driver. The returned close function releases any connection.
func NewJobCache(ctx context.Context, cfg config.CacheConfig) (store.JobCache, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.CacheNone:
		return nil, noop, nil
	case config.CacheLRU:
		return store.NewLRUCache(cfg.Size), noop, nil
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return store.NewRedisCache(client, time.Duration(cfg.TTL)*time.Second), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// NewArchive builds the configured report archive. It returns nil for the
// "none" driver.
func NewArchive(ctx context.Context, cfg config.ArchiveConfig) (archive.Archive, error) {
	switch cfg.Driver {
	case config.ArchiveNone:
		return nil, nil
	case config.ArchiveLocal:
		return archive.NewLocalArchive(cfg.Path), nil
	case config.ArchiveS3:
		a, err := archive.NewS3Archive(ctx, archive.S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	case config.ArchiveGCS:
		a, err := archive.NewGCSArchive(ctx, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.Driver)
	}
}

// NewEngine builds a scoring engine with the configured weights.
func NewEngine(cfg config.ScoringConfig) *scoring.Engine {
	return scoring.NewEngine(scoring.WithExtraSelectionPenalty(cfg.ExtraSelectionPenalty))
}

// Runtime is a fully wired set of services.
type Runtime struct {
	Store        store.Store
	Jobs         *screening.JobService
	Applications *screening.ApplicationService
	Engine       *scoring.Engine
	Metrics      *metrics.Metrics

	closers []func() error
}

// Build wires a Runtime from cfg. Call Close when done.
func Build(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*Runtime, error) {
	logger = logging.OrNop(logger)

	st, err := OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Store: st, Metrics: m, closers: []func() error{st.Close}}

	cache, closeCache, err := NewJobCache(ctx, cfg.Cache)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, closeCache)

	var jobs store.JobRepository = st
	if cache != nil {
		jobs = store.NewCachedJobs(st, cache, m, logger)
		logger.Info("job cache enabled", zap.String("driver", cfg.Cache.Driver))
	}

	reports, err := NewArchive(ctx, cfg.Archive)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if gcs, ok := reports.(*archive.GCSArchive); ok {
		rt.closers = append(rt.closers, gcs.Close)
	}

	rt.Engine = NewEngine(cfg.Scoring)
	rt.Jobs = screening.NewJobService(jobs, m, logger)
	rt.Applications = screening.NewApplicationService(st, jobs, rt.Engine, reports, m, logger)
	return rt, nil
}

// Close releases every resource in reverse order of acquisition.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
