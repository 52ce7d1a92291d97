package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	domainerrors "udyokta.backend/internal/domain/errors"
	domainRepos "udyokta.backend/internal/domain/repositories"
	"udyokta.backend/internal/infrastructure/models"
)

// StateStoreImpl keeps the application state as rows of a key-value table
type StateStoreImpl struct {
	db  *gorm.DB
	uow domainRepos.UnitOfWork
}

// NewStateStore creates a gorm-backed state store
func NewStateStore(db *gorm.DB) *StateStoreImpl {
	return &StateStoreImpl{db: db, uow: NewUnitOfWork(db)}
}

// Migrate creates the state table when missing
func (s *StateStoreImpl) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.StateEntry{}); err != nil {
		return fmt.Errorf("migrate app_state: %w", err)
	}
	return nil
}

// Get returns the value stored under key
func (s *StateStoreImpl) Get(ctx context.Context, key string) (string, error) {
	var m models.StateEntry
	if err := GetDB(ctx, s.db).Where("state_key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domainerrors.ErrNotFound
		}
		return "", err
	}
	return m.Value, nil
}

// Put upserts or deletes every entry in one transaction
func (s *StateStoreImpl) Put(ctx context.Context, entries ...domainRepos.StateEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.uow.Do(ctx, func(ctx context.Context) error {
		tx := GetDB(ctx, s.db)
		for _, e := range entries {
			if e.Delete {
				if err := tx.Where("state_key = ?", e.Key).Delete(&models.StateEntry{}).Error; err != nil {
					return fmt.Errorf("delete %s: %w", e.Key, err)
				}
				continue
			}
			m := &models.StateEntry{Key: e.Key, Value: e.Value}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "state_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(m).Error
			if err != nil {
				return fmt.Errorf("write %s: %w", e.Key, err)
			}
		}
		return nil
	})
}
