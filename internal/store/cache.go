package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/applyscore/applyscore/internal/logging"
	"github.com/applyscore/applyscore/pkg/scoring"
)

// JobCache holds jobs by ID. Jobs never change after creation, so entries
// need no invalidation.
type JobCache interface {
	Get(ctx context.Context, id string) (*scoring.Job, bool, error)
	Put(ctx context.Context, job *scoring.Job) error
}

// LRUCache is a thread-safe in-process LRU cache of jobs. Cached jobs are
// shared between callers and must not be modified.
type LRUCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*scoring.Job
	order   []string // oldest first
}

// DefaultCacheSize is used when NewLRUCache is given a non-positive size.
const DefaultCacheSize = 128

// NewLRUCache creates a cache with the given maximum number of entries.
func NewLRUCache(maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &LRUCache{
		maxSize: maxSize,
		entries: make(map[string]*scoring.Job),
	}
}

// Get retrieves a job from the cache.
func (c *LRUCache) Get(_ context.Context, id string) (*scoring.Job, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.entries[id]
	if !ok {
		return nil, false, nil
	}
	c.moveToEnd(id)
	return job, true, nil
}

// Put adds a job to the cache, evicting the least recently used if full.
func (c *LRUCache) Put(_ context.Context, job *scoring.Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[job.ID]; ok {
		c.entries[job.ID] = job
		c.moveToEnd(job.ID)
		return nil
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[job.ID] = job
	c.order = append(c.order, job.ID)
	return nil
}

// Len returns the number of cached jobs.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRUCache) moveToEnd(id string) {
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, id)
			return
		}
	}
}

// CacheObserver is notified of every cache lookup.
type CacheObserver interface {
	CacheLookup(hit bool)
}

// CachedJobs is a read-through cache in front of a JobRepository. Cache
// failures are logged and fall back to the repository.
type CachedJobs struct {
	JobRepository
	cache    JobCache
	observer CacheObserver
	logger   *zap.Logger
}

// NewCachedJobs wraps repo with cache. observer may be nil.
func NewCachedJobs(repo JobRepository, cache JobCache, observer CacheObserver, logger *zap.Logger) *CachedJobs {
	return &CachedJobs{JobRepository: repo, cache: cache, observer: observer, logger: logging.OrNop(logger)}
}

func (c *CachedJobs) CreateJob(ctx context.Context, job *scoring.Job) error {
	if err := c.JobRepository.CreateJob(ctx, job); err != nil {
		return err
	}
	if err := c.cache.Put(ctx, job); err != nil {
		c.logger.Warn("job cache put failed", zap.String("job_id", job.ID), zap.Error(err))
	}
	return nil
}

func (c *CachedJobs) GetJob(ctx context.Context, id string) (*scoring.Job, error) {
	job, ok, err := c.cache.Get(ctx, id)
	if err != nil {
		c.logger.Warn("job cache get failed", zap.String("job_id", id), zap.Error(err))
	}
	c.observe(ok)
	if ok {
		return job, nil
	}

	job, err = c.JobRepository.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(ctx, job); err != nil {
		c.logger.Warn("job cache put failed", zap.String("job_id", id), zap.Error(err))
	}
	return job, nil
}

func (c *CachedJobs) observe(hit bool) {
	if c.observer != nil {
		c.observer.CacheLookup(hit)
	}
}
