package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/asset-dashboard/internal/types"
)

// RedisSource reads the asset list stored as a JSON document under one key
type RedisSource struct {
	client redis.Cmdable
	key    string
}

// NewRedisSource creates a Redis source
func NewRedisSource(client redis.Cmdable, key string) *RedisSource {
	return &RedisSource{client: client, key: key}
}

// Name implements Source
func (s *RedisSource) Name() string { return "redis:" + s.key }

// Fetch implements Source
func (s *RedisSource) Fetch(ctx context.Context) ([]types.Asset, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("key %q not found", s.key)
		}
		return nil, fmt.Errorf("failed to read assets from redis: %w", err)
	}

	return DecodeAssets(bytes.NewReader(data))
}

// Publish stores assets under the source key. Used to seed a Redis-backed
// dashboard; the dashboard itself never writes.
func (s *RedisSource) Publish(ctx context.Context, assets []types.Asset) error {
	var buf bytes.Buffer
	if err := EncodeAssets(&buf, assets); err != nil {
		return fmt.Errorf("encode assets: %w", err)
	}
	return s.client.Set(ctx, s.key, buf.Bytes(), 0).Err()
}
