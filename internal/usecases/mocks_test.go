package usecases_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/internal/domain/repositories"
	"udyokta.backend/internal/usecases"
)

const testSecret = "#2025#"

// Mock StateStore
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStateStore) Put(ctx context.Context, entries ...repositories.StateEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

// memStateStore is an in-memory StateStore that records every write
type memStateStore struct {
	mu      sync.Mutex
	data    map[string]string
	puts    [][]repositories.StateEntry
	failPut error
}

func newMemStateStore() *memStateStore {
	return &memStateStore{data: map[string]string{}}
}

func (s *memStateStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", domainerrors.ErrNotFound
	}
	return v, nil
}

func (s *memStateStore) Put(_ context.Context, entries ...repositories.StateEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut != nil {
		return s.failPut
	}
	s.puts = append(s.puts, entries)
	for _, e := range entries {
		if e.Delete {
			delete(s.data, e.Key)
			continue
		}
		s.data[e.Key] = e.Value
	}
	return nil
}

func (s *memStateStore) lastPut() []repositories.StateEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.puts) == 0 {
		return nil
	}
	return s.puts[len(s.puts)-1]
}

func (s *memStateStore) failWith(err error) {
	s.mu.Lock()
	s.failPut = err
	s.mu.Unlock()
}

// exactSecret matches the plain code without hashing
type exactSecret string

func (s exactSecret) Matches(code string) bool {
	return code != "" && code == string(s)
}

type fixture struct {
	store      *memStateStore
	ws         *usecases.Workspace
	identity   *usecases.IdentityUsecase
	roles      *usecases.RoleUsecase
	ledger     *usecases.InvestmentUsecase
	notices    *usecases.NoticeUsecase
	dashboard  *usecases.DashboardUsecase
	settings   *usecases.SettingsUsecase
	sessionSeq int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStateStore()
	ws := usecases.NewWorkspace(store)
	require.NoError(t, ws.Load(context.Background()))
	return &fixture{
		store:     store,
		ws:        ws,
		identity:  usecases.NewIdentityUsecase(ws, exactSecret(testSecret)),
		roles:     usecases.NewRoleUsecase(ws),
		ledger:    usecases.NewInvestmentUsecase(ws),
		notices:   usecases.NewNoticeUsecase(ws),
		dashboard: usecases.NewDashboardUsecase(ws),
		settings:  usecases.NewSettingsUsecase(ws),
	}
}

func (f *fixture) newSession() *entities.Session {
	f.sessionSeq++
	return &entities.Session{ID: fmt.Sprintf("sess-%d", f.sessionSeq)}
}

// register creates an account and returns a session signed into it
func (f *fixture) register(t *testing.T, name, email string, role entities.AccountRole) (*entities.Account, *entities.Session) {
	t.Helper()
	s := f.newSession()
	code := ""
	if role != entities.AccountRoleMember {
		code = testSecret
	}
	acc, err := f.identity.Register(context.Background(), s, &entities.RegisterInput{
		Name: name, Email: email, Role: role, SecretCode: code,
	})
	require.NoError(t, err)
	return acc, s
}

func (f *fixture) accounts(t *testing.T) []entities.Account {
	t.Helper()
	var out []entities.Account
	f.ws.Read(func(st *entities.AppState) {
		out = append(out, st.Accounts...)
	})
	return out
}

func roleOf(accounts []entities.Account, id string) entities.AccountRole {
	if i := entities.FindAccount(accounts, id); i >= 0 {
		return accounts[i].Role
	}
	return ""
}
