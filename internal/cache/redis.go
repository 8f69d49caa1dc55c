package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix  = "revenue"
	redisVersionKey = "revenue:version"
)

// Redis guarda as entradas com a versão atual na chave; Invalidate incrementa a versão
// e as entradas antigas expiram pelo TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Version(ctx context.Context) (int64, error) {
	ver, err := r.client.Get(ctx, redisVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

func redisKey(version int64, key string) string {
	return fmt.Sprintf("%s:v%d:%s", redisKeyPrefix, version, key)
}

func (r *Redis) Get(ctx context.Context, version int64, key string, dest interface{}) (bool, error) {
	payload, err := r.client.Get(ctx, redisKey(version, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set grava sob a versão informada. Com a versão já invalidada a entrada fica órfã até expirar.
func (r *Redis) Set(ctx context.Context, version int64, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, redisKey(version, key), raw, r.ttl).Err()
}

func (r *Redis) Invalidate(ctx context.Context) error {
	return r.client.Incr(ctx, redisVersionKey).Err()
}
