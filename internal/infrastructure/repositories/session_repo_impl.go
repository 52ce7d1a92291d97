package repositories

import (
	"context"
	"errors"
	"time"

	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/pkg/redis"
)

// SessionRepository stores sessions encrypted in Redis
type SessionRepository struct {
	store *redis.SessionStore
	ttl   time.Duration
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(store *redis.SessionStore, ttl time.Duration) *SessionRepository {
	return &SessionRepository{store: store, ttl: ttl}
}

// Get loads a session by id. A blob that no longer opens is dropped and
// reported as missing.
func (r *SessionRepository) Get(ctx context.Context, id string) (*entities.Session, error) {
	data, err := r.store.GetSession(ctx, id)
	switch {
	case errors.Is(err, redis.ErrSessionNotFound):
		return nil, domainerrors.ErrNotFound
	case errors.Is(err, redis.ErrSessionCorrupt):
		_ = r.store.DeleteSession(ctx, id)
		return nil, domainerrors.ErrNotFound
	case err != nil:
		return nil, err
	}
	return &entities.Session{
		ID:               id,
		AccountID:        data.AccountID,
		SurfacedUrgentID: data.SurfacedUrgentID,
		UrgentActive:     data.UrgentActive,
	}, nil
}

// Save writes the session and refreshes its expiry
func (r *SessionRepository) Save(ctx context.Context, session *entities.Session) error {
	return r.store.SaveSession(ctx, session.ID, &redis.SessionData{
		AccountID:        session.AccountID,
		SurfacedUrgentID: session.SurfacedUrgentID,
		UrgentActive:     session.UrgentActive,
	}, r.ttl)
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.store.DeleteSession(ctx, id)
}
