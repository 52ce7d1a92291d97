package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// HashStore keeps string values as fields of a single Redis hash.
type HashStore struct {
	key string
}

// NewHashStore creates a store over the hash at key.
func NewHashStore(key string) *HashStore {
	return &HashStore{key: key}
}

// Get returns the field value. ok is false when the field is absent.
func (h *HashStore) Get(ctx context.Context, field string) (value string, ok bool, err error) {
	value, err = client.HGet(ctx, h.key, field).Result()
	if err != nil {
		if IsNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Apply sets and deletes fields in one MULTI/EXEC transaction.
func (h *HashStore) Apply(ctx context.Context, set map[string]string, del []string) error {
	if len(set) == 0 && len(del) == 0 {
		return nil
	}
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(set) > 0 {
			values := make(map[string]interface{}, len(set))
			for k, v := range set {
				values[k] = v
			}
			pipe.HSet(ctx, h.key, values)
		}
		if len(del) > 0 {
			pipe.HDel(ctx, h.key, del...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hash %s: %w", h.key, err)
	}
	return nil
}
