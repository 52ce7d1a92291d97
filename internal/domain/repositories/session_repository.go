package repositories

import (
	"context"

	"udyokta.backend/internal/domain/entities"
)

// SessionRepository defines per-client session persistence
type SessionRepository interface {
	// Get returns domainerrors.ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*entities.Session, error)
	Save(ctx context.Context, session *entities.Session) error
	Delete(ctx context.Context, id string) error
}
