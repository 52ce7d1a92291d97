package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/internal/domain/repositories"
	"udyokta.backend/internal/interfaces/http/middleware"
	"udyokta.backend/internal/usecases"
	"udyokta.backend/pkg/jwt"
)

const testSecret = "#2025#"

type memStateStore struct {
	mu   sync.Mutex
	data map[string]string
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
	for _, e := range entries {
		if e.Delete {
			delete(s.data, e.Key)
			continue
		}
		s.data[e.Key] = e.Value
	}
	return nil
}

type memSessions struct {
	mu   sync.Mutex
	data map[string]entities.Session
}

func (m *memSessions) Get(_ context.Context, id string) (*entities.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) Save(_ context.Context, s *entities.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = *s
	return nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type plainSecret string

func (s plainSecret) Matches(code string) bool { return code != "" && code == string(s) }

type testServer struct {
	router   *gin.Engine
	store    *memStateStore
	sessions *memSessions
	tokens   *jwt.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &memStateStore{data: map[string]string{}}
	ws := usecases.NewWorkspace(store)
	require.NoError(t, ws.Load(context.Background()))

	sessions := &memSessions{data: map[string]entities.Session{}}
	tokens := jwt.NewJWTService("test-secret", time.Hour, 24*time.Hour)

	identity := usecases.NewIdentityUsecase(ws, plainSecret(testSecret))
	notices := usecases.NewNoticeUsecase(ws)

	auth := NewAuthHandler(identity, notices, tokens, sessions)
	ledger := NewInvestmentHandler(usecases.NewInvestmentUsecase(ws))
	notice := NewNoticeHandler(notices)
	dashboard := NewDashboardHandler(usecases.NewDashboardUsecase(ws))
	settings := NewSettingsHandler(usecases.NewSettingsUsecase(ws))
	admin := NewAdminHandler(usecases.NewRoleUsecase(ws))

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.SessionMiddleware(tokens, sessions))
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/refresh", auth.RefreshToken)
	api.POST("/auth/logout", auth.Logout)
	api.GET("/auth/me", auth.GetMe)
	api.PATCH("/auth/profile", auth.UpdateProfile)
	api.POST("/auth/resign", auth.Resign)
	api.POST("/auth/verify-reset", auth.VerifyReset)
	api.GET("/projects", dashboard.Projects)
	api.GET("/pools", dashboard.Pools)
	api.GET("/dashboard", dashboard.Summary)
	api.GET("/investments", ledger.List)
	api.POST("/investments", ledger.Submit)
	api.GET("/notices", notice.List)
	api.GET("/notices/urgent", notice.Urgent)
	api.POST("/notices/urgent/ack", notice.Acknowledge)
	api.POST("/session/reload", notice.Reload)
	api.GET("/settings", settings.Get)
	api.PUT("/settings/theme", settings.SetTheme)
	api.POST("/settings/permissions", settings.MarkPermissionsRequested)
	api.GET("/admin/accounts", admin.ListAccounts)
	api.PATCH("/admin/accounts/:id/role", admin.ChangeRole)
	api.DELETE("/admin/accounts/:id", admin.RemoveAccount)
	api.POST("/admin/investments/:id/approve", ledger.Approve)
	api.POST("/admin/investments/:id/reject", ledger.Reject)
	api.POST("/admin/notices", notice.Broadcast)
	api.PUT("/admin/branding", settings.UpdateBranding)
	api.DELETE("/admin/branding/logo", settings.ResetLogo)

	return &testServer{router: r, store: store, sessions: sessions, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthorizationHeader, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type authResult struct {
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
	Account      entities.Account   `json:"account"`
	UrgentNotice *entities.Reminder `json:"urgentNotice"`
}

func (s *testServer) register(t *testing.T, name, email string, role entities.AccountRole) authResult {
	t.Helper()
	code := ""
	if role != entities.AccountRoleMember {
		code = testSecret
	}
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": name, "email": email, "role": role, "secretCode": code,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out authResult
	decode(t, w, &out)
	return out
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	decode(t, w, &body)
	return body.Code
}
