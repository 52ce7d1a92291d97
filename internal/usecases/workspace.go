package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/internal/domain/repositories"
	"udyokta.backend/pkg/logger"
	"udyokta.backend/pkg/metrics"
)

var now = time.Now

// Workspace is the in-memory application state backed by a StateStore.
// Reads share the lock; mutations run on a clone that replaces the live
// state only after the store accepted the write.
type Workspace struct {
	mu    sync.RWMutex
	store repositories.StateStore
	state *entities.AppState
}

// NewWorkspace creates an empty workspace. Call Load before serving.
func NewWorkspace(store repositories.StateStore) *Workspace {
	return &Workspace{store: store, state: emptyState()}
}

func emptyState() *entities.AppState {
	return &entities.AppState{
		Settings: entities.Settings{
			AppName: entities.DefaultAppName,
			Theme:   entities.ThemeLight,
		},
	}
}

// Load replaces the live state with what the store holds. Missing projects
// are seeded with the defaults and written back. The write lock is held
// from the first read to the swap so no Mutate can commit in between.
func (w *Workspace) Load(ctx context.Context) error {
	w.mu.Lock()
	st, err := w.read(ctx)
	if err != nil {
		w.mu.Unlock()
		metrics.StateReload("error")
		return err
	}
	w.state = st
	w.mu.Unlock()

	metrics.StateReload("ok")
	logger.Debug(ctx, "State loaded",
		zap.Int("accounts", len(st.Accounts)),
		zap.Int("projects", len(st.Projects)),
		zap.Int("investments", len(st.Investments)),
		zap.Int("reminders", len(st.Reminders)),
	)
	return nil
}

func (w *Workspace) read(ctx context.Context) (*entities.AppState, error) {
	st := emptyState()

	found, err := w.readJSON(ctx, entities.KeyProjects, &st.Projects)
	if err != nil {
		return nil, err
	}
	if !found {
		st.Projects = entities.DefaultProjects()
		seed, err := encodeKey(st, entities.KeyProjects)
		if err != nil {
			return nil, err
		}
		if err := w.store.Put(ctx, seed); err != nil {
			return nil, fmt.Errorf("seed projects: %w", err)
		}
	}

	collections := []struct {
		key string
		dst interface{}
	}{
		{entities.KeyAccounts, &st.Accounts},
		{entities.KeyInvestments, &st.Investments},
		{entities.KeyReminders, &st.Reminders},
		{entities.KeyPools, &st.Pools},
	}
	for _, c := range collections {
		if _, err := w.readJSON(ctx, c.key, c.dst); err != nil {
			return nil, err
		}
	}

	if v, ok, err := w.get(ctx, entities.KeyAppName); err != nil {
		return nil, err
	} else if ok && v != "" {
		st.Settings.AppName = v
	}
	if v, ok, err := w.get(ctx, entities.KeyAppLogo); err != nil {
		return nil, err
	} else if ok && v != "" {
		st.Settings.AppLogo = null.StringFrom(v)
	}
	if v, _, err := w.get(ctx, entities.KeyTheme); err != nil {
		return nil, err
	} else if v == string(entities.ThemeDark) {
		st.Settings.Theme = entities.ThemeDark
	}
	if v, _, err := w.get(ctx, entities.KeyPermissionsRequested); err != nil {
		return nil, err
	} else {
		st.Settings.PermissionsRequested = v == "true"
	}

	return st, nil
}

func (w *Workspace) get(ctx context.Context, key string) (string, bool, error) {
	v, err := w.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return v, true, nil
}

func (w *Workspace) readJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, ok, err := w.get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Read runs fn against the live state under the read lock. fn must not
// retain or modify what it is given.
func (w *Workspace) Read(fn func(s *entities.AppState)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	fn(w.state)
}

// Mutate applies fn to a copy of the state and persists the keys fn returns,
// in order, as one atomic write. On any error the live state is untouched.
func (w *Workspace) Mutate(ctx context.Context, fn func(s *entities.AppState) ([]string, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.state.Clone()
	keys, err := fn(next)
	if err != nil {
		return err
	}

	entries := make([]repositories.StateEntry, 0, len(keys))
	for _, k := range keys {
		e, err := encodeKey(next, k)
		if err != nil {
			return domainerrors.InternalError(err)
		}
		entries = append(entries, e)
	}
	if err := w.store.Put(ctx, entries...); err != nil {
		logger.Error(ctx, "Failed to persist state", zap.Strings("keys", keys), zap.Error(err))
		return domainerrors.InternalError(fmt.Errorf("persist state: %w", err))
	}

	w.state = next
	return nil
}

func encodeKey(st *entities.AppState, key string) (repositories.StateEntry, error) {
	var v interface{}
	switch key {
	case entities.KeyProjects:
		v = st.Projects
	case entities.KeyInvestments:
		v = st.Investments
	case entities.KeyReminders:
		v = st.Reminders
	case entities.KeyPools:
		v = st.Pools
	case entities.KeyAccounts:
		v = st.Accounts
	case entities.KeyAppName:
		return repositories.StateEntry{Key: key, Value: st.Settings.AppName}, nil
	case entities.KeyAppLogo:
		if !st.Settings.AppLogo.Valid {
			return repositories.StateEntry{Key: key, Delete: true}, nil
		}
		return repositories.StateEntry{Key: key, Value: st.Settings.AppLogo.String}, nil
	case entities.KeyTheme:
		return repositories.StateEntry{Key: key, Value: string(st.Settings.Theme)}, nil
	case entities.KeyPermissionsRequested:
		if !st.Settings.PermissionsRequested {
			return repositories.StateEntry{Key: key, Delete: true}, nil
		}
		return repositories.StateEntry{Key: key, Value: "true"}, nil
	default:
		return repositories.StateEntry{}, fmt.Errorf("unknown state key %q", key)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return repositories.StateEntry{}, fmt.Errorf("encode %s: %w", key, err)
	}
	if string(b) == "null" {
		b = []byte("[]")
	}
	return repositories.StateEntry{Key: key, Value: string(b)}, nil
}

// resolveAccount re-resolves the session account against st. A dangling
// reference is cleared.
func resolveAccount(st *entities.AppState, session *entities.Session) (*entities.Account, error) {
	if !session.Authenticated() {
		return nil, domainerrors.Unauthorized("login required")
	}
	i := entities.FindAccount(st.Accounts, session.AccountID)
	if i < 0 {
		session.Clear()
		return nil, domainerrors.Unauthorized("account no longer exists")
	}
	acc := st.Accounts[i]
	return &acc, nil
}

func requireAdmin(st *entities.AppState, session *entities.Session) (*entities.Account, error) {
	acc, err := resolveAccount(st, session)
	if err != nil {
		return nil, err
	}
	if !acc.Role.IsAdmin() {
		return nil, domainerrors.Forbidden("admin access required")
	}
	return acc, nil
}

// observeUrgent activates the latest urgent reminder when this session has
// not surfaced it yet.
func observeUrgent(session *entities.Session, reminders []entities.Reminder) {
	latest := entities.LatestUrgent(reminders)
	if latest == nil {
		return
	}
	if latest.ID != session.SurfacedUrgentID {
		session.SurfacedUrgentID = latest.ID
		session.UrgentActive = true
	}
}
