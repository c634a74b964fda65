package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pelican/internal/config"
	"pelican/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// LinkKeyPrefix prefixes resolution cache keys
	LinkKeyPrefix = "link:"
	// DefaultLinkCacheTTL bounds how stale a cached record can get after an
	// out-of-band update
	DefaultLinkCacheTTL = 42 * time.Hour
)

// RedisRepository is the resolution cache backing store
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis repository
func NewRedisRepository(cfg *config.RedisConfig, ttl time.Duration) *RedisRepository {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("Failed to connect to Redis")
	} else {
		log.Info().Msg("Redis connected successfully")
	}

	if ttl <= 0 {
		ttl = DefaultLinkCacheTTL
	}

	return &RedisRepository{
		client: rdb,
		ttl:    ttl,
	}
}

// GetClient returns the Redis client
func (r *RedisRepository) GetClient() *redis.Client {
	return r.client
}

// TTL returns the configured cache entry lifetime
func (r *RedisRepository) TTL() time.Duration {
	return r.ttl
}

// GetLink retrieves a cached link record. A missing key or a value that no
// longer decodes is reported as a miss, never as an error to the caller.
func (r *RedisRepository) GetLink(ctx context.Context, id string) (*model.Link, error) {
	raw, err := r.client.Get(ctx, r.linkKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("link_id", id).Msg("Cache read failed")
		}
		return nil, nil
	}

	var link model.Link
	if err := json.Unmarshal(raw, &link); err != nil {
		log.Warn().Err(err).Str("link_id", id).Msg("Malformed cached link, treating as miss")
		return nil, nil
	}

	return &link, nil
}

// SaveLink caches a link record with the configured TTL. Failures are the
// caller's to swallow; resolution never depends on the cache write.
func (r *RedisRepository) SaveLink(ctx context.Context, link *model.Link) error {
	raw, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.linkKey(link.ID), raw, r.ttl).Err()
}

// Close closes the Redis connection
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) linkKey(id string) string {
	return LinkKeyPrefix + id
}
