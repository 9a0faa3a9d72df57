package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"summarist-backend-go/internal/models"
)

const (
	premiumStatusKeyPrefix = "premium_status:"
	defaultTTL             = 5 * time.Minute
)

// redisEntitlementCache implements EntitlementCache backed by Redis.
// Cache failures are logged and treated as misses; Redis being down must
// never fail a premium-status query.
type redisEntitlementCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisEntitlementCache connects to Redis and returns the cache. The
// connection is verified with a ping so a misconfigured address fails at
// startup rather than on the first request.
func NewRedisEntitlementCache(addr, password string, db int, logger *zap.Logger) (EntitlementCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Info("Connected to Redis", zap.String("addr", addr))
	return &redisEntitlementCache{client: client, ttl: defaultTTL, logger: logger}, nil
}

func premiumStatusKey(userID string) string {
	return premiumStatusKeyPrefix + userID
}

// Get returns the cached premium status, treating any Redis error or
// decode failure as a miss.
func (c *redisEntitlementCache) Get(ctx context.Context, userID string) (*models.PremiumStatus, bool) {
	val, err := c.client.Get(ctx, premiumStatusKey(userID)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Redis get failed", zap.String("userId", userID), zap.Error(err))
		return nil, false
	}

	var status models.PremiumStatus
	if err := json.Unmarshal([]byte(val), &status); err != nil {
		c.logger.Warn("Corrupt premium-status cache entry", zap.String("userId", userID), zap.Error(err))
		return nil, false
	}
	return &status, true
}

// Set stores the status with the cache TTL. Errors are logged only.
func (c *redisEntitlementCache) Set(ctx context.Context, userID string, status *models.PremiumStatus) {
	data, err := json.Marshal(status)
	if err != nil {
		c.logger.Warn("Failed to encode premium status", zap.String("userId", userID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, premiumStatusKey(userID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis set failed", zap.String("userId", userID), zap.Error(err))
	}
}

// Invalidate drops the user's entry, called by the webhook handler after
// every subscription mutation.
func (c *redisEntitlementCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, premiumStatusKey(userID)).Err(); err != nil {
		c.logger.Warn("Redis delete failed", zap.String("userId", userID), zap.Error(err))
	}
}
