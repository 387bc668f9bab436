// Package cache provides a redis read-through cache for user directory lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aebalz/wellmind-tracker/internal/metrics"
	"github.com/aebalz/wellmind-tracker/internal/model"
)

// Directory resolves user IDs to contact details.
type Directory interface {
	Lookup(ctx context.Context, userID uint) (*model.UserContact, error)
}

// Client is the subset of *redis.Client used here.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedDirectory serves lookups from redis and falls back to the wrapped
// directory on a miss. Redis errors degrade to a direct lookup; misses of the
// wrapped directory are not cached.
type CachedDirectory struct {
	next   Directory
	client Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedDirectory(next Directory, client Client, ttl time.Duration, logger zerolog.Logger) *CachedDirectory {
	return &CachedDirectory{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "user-cache").Logger(),
	}
}

func userKey(userID uint) string {
	return fmt.Sprintf("wellmind:user:%d", userID)
}

func (c *CachedDirectory) Lookup(ctx context.Context, userID uint) (*model.UserContact, error) {
	key := userKey(userID)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var contact model.UserContact
		if jsonErr := json.Unmarshal(raw, &contact); jsonErr == nil {
			metrics.UserCacheLookups.WithLabelValues("hit").Inc()
			return &contact, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		metrics.UserCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("user cache read failed")
	}
	metrics.UserCacheLookups.WithLabelValues("miss").Inc()

	contact, err := c.next.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(contact)
	if err == nil {
		err = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("user cache write failed")
	}
	return contact, nil
}
