package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"sharc-gateway/internal/models"
)

const profileKeyPrefix = "sharc:profile:"

// DefaultProfileTTL bounds how stale a cached profile may get. Interest
// tags and subscriptions change rarely, so a few minutes is enough.
const DefaultProfileTTL = 5 * time.Minute

// RedisClient is the slice of the redis API the profile cache uses.
// *redis.Client satisfies it.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisProfileCache caches resolved user profiles in Redis, keyed by a
// hash of the bearer token. Tokens themselves are never stored.
type RedisProfileCache struct {
	Client RedisClient
	TTL    time.Duration
}

func NewRedisProfileCache(client RedisClient, ttl time.Duration) *RedisProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &RedisProfileCache{Client: client, TTL: ttl}
}

// Get returns the cached user for the token, or nil on a miss.
func (c *RedisProfileCache) Get(ctx context.Context, token string) (*models.User, error) {
	if c.Client == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}

	payload, err := c.Client.Get(ctx, profileKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get profile from Redis: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}
	return &user, nil
}

// Put stores the user's profile under the token hash with the cache TTL.
func (c *RedisProfileCache) Put(ctx context.Context, token string, user *models.User) error {
	if c.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := c.Client.Set(ctx, profileKey(token), payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store profile in Redis: %w", err)
	}
	return nil
}

func profileKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return profileKeyPrefix + hex.EncodeToString(sum[:])
}
