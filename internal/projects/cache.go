package projects

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crescentview/leadgate/pkg/logging"
)

const (
	listCacheKey    = "projects:all"
	slugCachePrefix = "projects:slug:"
)

// CachedRepository is a read-through Redis cache in front of another
// repository. Cache failures never fail a request; reads fall back to
// the underlying repository and writes proceed without invalidation
// confirmation.
type CachedRepository struct {
	repo   Repository
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewCachedRepository(repo Repository, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedRepository {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepository{repo: repo, redis: redisClient, ttl: ttl, logger: logger}
}

func (c *CachedRepository) List(ctx context.Context) ([]Project, error) {
	if data, err := c.redis.Get(ctx, listCacheKey).Bytes(); err == nil {
		var cached []Project
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		c.logger.Warn("project list cache corrupt, refetching", "key", listCacheKey)
	} else if err != redis.Nil {
		c.logger.Warn("project list cache read failed", "error", err)
	}

	out, err := c.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(out); err == nil {
		if err := c.redis.Set(ctx, listCacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("project list cache write failed", "error", err)
		}
	}
	return out, nil
}

func (c *CachedRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	key := slugCachePrefix + slug
	if data, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var cached Project
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		c.logger.Warn("project cache corrupt, refetching", "key", key)
	} else if err != redis.Nil {
		c.logger.Warn("project cache read failed", "slug", slug, "error", err)
	}

	p, err := c.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(p); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("project cache write failed", "slug", slug, "error", err)
		}
	}
	return p, nil
}

func (c *CachedRepository) Create(ctx context.Context, p *Project) error {
	if err := c.repo.Create(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.Slug)
	return nil
}

func (c *CachedRepository) Update(ctx context.Context, p *Project) error {
	if err := c.repo.Update(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.Slug)
	return nil
}

func (c *CachedRepository) Delete(ctx context.Context, slug string) error {
	if err := c.repo.Delete(ctx, slug); err != nil {
		return err
	}
	c.invalidate(ctx, slug)
	return nil
}

func (c *CachedRepository) invalidate(ctx context.Context, slug string) {
	if err := c.redis.Del(ctx, listCacheKey, slugCachePrefix+slug).Err(); err != nil {
		c.logger.Warn("project cache invalidation failed", "slug", slug, "error", err)
	}
}
