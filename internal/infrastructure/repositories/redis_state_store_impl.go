package repositories

import (
	"context"

	domainerrors "udyokta.backend/internal/domain/errors"
	domainRepos "udyokta.backend/internal/domain/repositories"
	"udyokta.backend/pkg/redis"
)

// RedisStateStore keeps the application state as fields of one Redis hash
type RedisStateStore struct {
	hash *redis.HashStore
}

// NewRedisStateStore creates a state store over the hash at key
func NewRedisStateStore(key string) *RedisStateStore {
	return &RedisStateStore{hash: redis.NewHashStore(key)}
}

// Get returns the value stored under key
func (s *RedisStateStore) Get(ctx context.Context, key string) (string, error) {
	v, ok, err := s.hash.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domainerrors.ErrNotFound
	}
	return v, nil
}

// Put applies every entry in one MULTI/EXEC. Later entries for the same key win.
func (s *RedisStateStore) Put(ctx context.Context, entries ...domainRepos.StateEntry) error {
	set := make(map[string]string)
	deleted := make(map[string]bool)
	var order []string
	for _, e := range entries {
		if e.Delete {
			delete(set, e.Key)
			if !deleted[e.Key] {
				deleted[e.Key] = true
				order = append(order, e.Key)
			}
			continue
		}
		set[e.Key] = e.Value
		deleted[e.Key] = false
	}

	var del []string
	for _, k := range order {
		if deleted[k] {
			del = append(del, k)
		}
	}
	return s.hash.Apply(ctx, set, del)
}
