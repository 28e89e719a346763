package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores the session snapshot in a Redis hash, one field per
// storage key. Suited to kiosk deployments where several console processes
// on one terminal share a device session.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend creates a backend writing to hash key "session:<device>".
func NewRedisBackend(client *redis.Client, deviceID string) *RedisBackend {
	return &RedisBackend{client: client, key: "session:" + deviceID}
}

func (b *RedisBackend) Load(ctx context.Context) (map[string]string, error) {
	snapshot, err := b.client.HGetAll(ctx, b.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load session hash: %w", err)
	}
	if len(snapshot) == 0 {
		return nil, nil
	}
	return snapshot, nil
}

func (b *RedisBackend) Save(ctx context.Context, snapshot map[string]string) error {
	pipe := b.client.TxPipeline()
	pipe.Del(ctx, b.key)
	fields := make(map[string]any, len(snapshot))
	for k, v := range snapshot {
		fields[k] = v
	}
	pipe.HSet(ctx, b.key, fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session hash: %w", err)
	}
	return nil
}

func (b *RedisBackend) Clear(ctx context.Context) error {
	if err := b.client.Del(ctx, b.key).Err(); err != nil {
		return fmt.Errorf("clear session hash: %w", err)
	}
	return nil
}
