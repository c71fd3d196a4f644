package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates a Medium backed by redis. Slots are stored under
// "<prefix>:<slot>", so several profiles can share one instance.
func NewRedis(client redis.Cmdable, prefix string) *Redis {
	if prefix == "" {
		prefix = "websession"
	}
	return &Redis{
		client: client,
		prefix: prefix,
	}
}

// Redis is a Medium shared by every process pointed at the same instance and
// prefix; the closest analogue to origin-scoped browser storage shared by
// several tabs.
type Redis struct {
	client redis.Cmdable
	prefix string
}

func (r *Redis) key(slot string) string {
	return r.prefix + ":" + slot
}

func (r *Redis) Load(ctx context.Context, slot string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(slot)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("credentials: redis get %s: %w", slot, err)
	default:
		return value, true, nil
	}
}

func (r *Redis) Save(ctx context.Context, slot, value string) error {
	if err := r.client.Set(ctx, r.key(slot), value, 0).Err(); err != nil {
		return fmt.Errorf("credentials: redis set %s: %w", slot, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, slot string) error {
	if err := r.client.Del(ctx, r.key(slot)).Err(); err != nil {
		return fmt.Errorf("credentials: redis del %s: %w", slot, err)
	}
	return nil
}
