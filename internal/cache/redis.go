package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coupon-service/internal/config"
	"coupon-service/internal/payload"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "coupon:qr:"

// entry is the stored form; the PNG is excluded from Artifact's JSON.
type entry struct {
	Artifact *payload.Artifact `json:"artifact"`
	PNG      []byte            `json:"png"`
}

// NewRedisClient connects to Redis and verifies connectivity.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("redis client connected")
	return rdb, nil
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCache creates an artifact cache backed by Redis. Entries expire after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) ArtifactCache {
	return &redisCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "qr-cache").Logger(),
	}
}

func key(couponID uuid.UUID) string {
	return keyPrefix + couponID.String()
}

func (c *redisCache) Get(ctx context.Context, couponID uuid.UUID) (*payload.Artifact, error) {
	raw, err := c.client.Get(ctx, key(couponID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		c.logger.Error().Err(err).Str("coupon_id", couponID.String()).Msg("failed to read cached artifact")
		return nil, fmt.Errorf("failed to read cached artifact: %w", err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.Artifact == nil {
		c.logger.Warn().Str("coupon_id", couponID.String()).Msg("discarding unreadable cached artifact")
		_ = c.client.Del(ctx, key(couponID)).Err()
		return nil, nil
	}

	e.Artifact.PNG = e.PNG
	return e.Artifact, nil
}

func (c *redisCache) Set(ctx context.Context, couponID uuid.UUID, artifact *payload.Artifact) error {
	stored := *artifact
	stored.URL = ""

	raw, err := json.Marshal(entry{Artifact: &stored, PNG: artifact.PNG})
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	if err := c.client.Set(ctx, key(couponID), raw, c.ttl).Err(); err != nil {
		c.logger.Error().Err(err).Str("coupon_id", couponID.String()).Msg("failed to cache artifact")
		return fmt.Errorf("failed to cache artifact: %w", err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, couponID uuid.UUID) error {
	if err := c.client.Del(ctx, key(couponID)).Err(); err != nil {
		c.logger.Error().Err(err).Str("coupon_id", couponID.String()).Msg("failed to drop cached artifact")
		return fmt.Errorf("failed to drop cached artifact: %w", err)
	}
	return nil
}
