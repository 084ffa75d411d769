// internal/sources/cached.go
package sources

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"artmatch/internal/common/logger"
	"artmatch/internal/matching"
)

const keyPrefix = "artmatch:"

// CachedProvider keeps projects, curators and the audience model in Redis in
// front of another provider. Candidate pools are not cached. Redis failures
// are logged and the base provider answers.
type CachedProvider struct {
	base   matching.DataProvider
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedProvider(base matching.DataProvider, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedProvider {
	return &CachedProvider{base: base, redis: client, ttl: ttl, logger: log}
}

func projectKey(id string) string { return keyPrefix + "project:" + id }
func curatorKey(id string) string { return keyPrefix + "curator:" + id }

const audienceKey = keyPrefix + "audience"

// lookup fills dst from key. It reports false on a miss or any cache error.
func (c *CachedProvider) lookup(ctx context.Context, key string, dst interface{}) bool {
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		c.logger.Warn("cache entry unreadable", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	return true
}

func (c *CachedProvider) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (c *CachedProvider) Project(ctx context.Context, id string) (matching.ProjectRequest, error) {
	var project matching.ProjectRequest
	if c.lookup(ctx, projectKey(id), &project) {
		return project, nil
	}
	project, err := c.base.Project(ctx, id)
	if err != nil {
		return matching.ProjectRequest{}, err
	}
	c.store(ctx, projectKey(id), project)
	return project, nil
}

func (c *CachedProvider) Curator(ctx context.Context, id string) (matching.CuratorProfile, error) {
	var curator matching.CuratorProfile
	if c.lookup(ctx, curatorKey(id), &curator) {
		return curator, nil
	}
	curator, err := c.base.Curator(ctx, id)
	if err != nil {
		return matching.CuratorProfile{}, err
	}
	c.store(ctx, curatorKey(id), curator)
	return curator, nil
}

func (c *CachedProvider) Candidates(ctx context.Context, project matching.ProjectRequest) ([]matching.Candidate, error) {
	return c.base.Candidates(ctx, project)
}

func (c *CachedProvider) AudienceModel(ctx context.Context) (matching.AudienceModel, error) {
	var model matching.AudienceModel
	if c.lookup(ctx, audienceKey, &model) {
		return model, nil
	}
	model, err := c.base.AudienceModel(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, audienceKey, model)
	return model, nil
}

// Invalidate drops the cached records for a project and curator, and the
// audience model.
func (c *CachedProvider) Invalidate(ctx context.Context, projectID, curatorID string) error {
	return c.redis.Del(ctx, projectKey(projectID), curatorKey(curatorID), audienceKey).Err()
}
