// Package cache memoizes normalized predictions in Redis. The models are
// deterministic per feature payload, so identical submissions within the
// TTL can skip the upstream call. Image screenings are never cached.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"medscreen-gateway/internal/common/logger"
	"medscreen-gateway/internal/models"

	"github.com/redis/go-redis/v9"
)

type PredictionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewPredictionCache(client *redis.Client, ttl time.Duration, log logger.Logger) *PredictionCache {
	return &PredictionCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

// Key derives the cache key from the condition and the canonical payload
// encoding. Go's map marshaling sorts keys, so equal payloads always hash
// the same.
func Key(condition string, payload map[string]interface{}) string {
	encoded, _ := json.Marshal(payload)
	sum := sha256.Sum256(encoded)
	return fmt.Sprintf("scr:%s:%s", condition, hex.EncodeToString(sum[:]))
}

// Get returns the cached prediction for the payload, or nil on a miss.
// Cache failures are logged and treated as misses; the cache is never on
// the error path of a screening.
func (c *PredictionCache) Get(ctx context.Context, condition string, payload map[string]interface{}) *models.Prediction {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, Key(condition, payload)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("prediction cache read failed", map[string]interface{}{
				"condition": condition,
				"error":     err.Error(),
			})
		}
		return nil
	}

	var pred models.Prediction
	if err := json.Unmarshal([]byte(data), &pred); err != nil {
		c.logger.Warn("prediction cache entry unreadable", map[string]interface{}{
			"condition": condition,
			"error":     err.Error(),
		})
		return nil
	}

	pred.Cached = true
	return &pred
}

// Put stores the prediction under the payload key for the configured TTL.
func (c *PredictionCache) Put(ctx context.Context, condition string, payload map[string]interface{}, pred *models.Prediction) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(pred)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, Key(condition, payload), data, c.ttl).Err(); err != nil {
		c.logger.Warn("prediction cache write failed", map[string]interface{}{
			"condition": condition,
			"error":     err.Error(),
		})
	}
}
