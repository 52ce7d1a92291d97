package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/pkg/jwt"
	"udyokta.backend/pkg/logger"
	"udyokta.backend/pkg/metrics"
)

type memSessions struct {
	data    map[string]entities.Session
	saves   int
	getErr  error
	saveErr error
}

func newMemSessions() *memSessions {
	return &memSessions{data: map[string]entities.Session{}}
}

func (m *memSessions) Get(_ context.Context, id string) (*entities.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.data[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) Save(_ context.Context, s *entities.Session) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[s.ID] = *s
	return nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.data, id)
	return nil
}

func TestResponseWriter_Write(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	w := responseWriter{
		ResponseWriter: c.Writer,
		body:           &bytes.Buffer{},
	}

	n, err := w.Write([]byte("ok"))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "ok", w.body.String())
	require.Equal(t, "ok", rec.Body.String())
}

func TestRequestIDMiddleware_GeneratesAndUsesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("generates request id when header missing", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestIDMiddleware())
		r.GET("/x", func(c *gin.Context) {
			id, ok := c.Get(RequestIDKey)
			require.True(t, ok)
			require.NotEmpty(t, id.(string))
			require.Equal(t, id, c.Request.Context().Value(logger.RequestIDKey))
			c.Status(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	})

	t.Run("uses incoming header", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestIDMiddleware())
		r.GET("/x", func(c *gin.Context) {
			require.Equal(t, "req-123", c.GetString(RequestIDKey))
			c.Status(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("replaces unsafe incoming header", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestIDMiddleware())
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		for _, bad := range []string{"a b", "line\nbreak", strings.Repeat("x", 65)} {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set(RequestIDHeader, bad)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			got := rec.Header().Get(RequestIDHeader)
			require.NotEqual(t, bad, got)
			require.True(t, validRequestID(got))
		}
	})
}

func TestLoggerMiddleware_RecordsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/logged/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/logged/7?x=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTeapot, rec.Code)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, scrape.Body.String(), `route="/logged/:id",status="418"`)
}

func newSessionRouter(tokens TokenValidator, sessions *memSessions, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware(tokens, sessions))
	r.POST("/x", handler)
	return r
}

func TestSessionMiddleware_AnonymousSession(t *testing.T) {
	orig := newSessionID
	t.Cleanup(func() { newSessionID = orig })
	newSessionID = func() (string, error) { return "fresh", nil }

	jwtSvc := jwt.NewJWTService("secret", time.Hour, time.Hour)
	sessions := newMemSessions()

	t.Run("unchanged session is not stored", func(t *testing.T) {
		r := newSessionRouter(jwtSvc, sessions, func(c *gin.Context) {
			require.Equal(t, "fresh", GetSession(c).ID)
			require.False(t, GetSession(c).Authenticated())
			c.Status(http.StatusNoContent)
		})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Zero(t, sessions.saves)
	})

	t.Run("signed in session is stored", func(t *testing.T) {
		r := newSessionRouter(jwtSvc, sessions, func(c *gin.Context) {
			GetSession(c).AccountID = "acc-1"
			c.Status(http.StatusOK)
		})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
		require.Equal(t, 1, sessions.saves)
		require.Equal(t, "acc-1", sessions.data["fresh"].AccountID)
	})

	t.Run("id generation failure", func(t *testing.T) {
		newSessionID = func() (string, error) { return "", errors.New("entropy") }
		r := newSessionRouter(jwtSvc, sessions, func(c *gin.Context) { c.Status(http.StatusOK) })
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestSessionMiddleware_BearerToken(t *testing.T) {
	jwtSvc := jwt.NewJWTService("secret", time.Hour, time.Hour)
	sessions := newMemSessions()
	sessions.data["s1"] = entities.Session{ID: "s1", AccountID: "acc-1"}

	pair, err := jwtSvc.GenerateTokenPair("s1", "acc-1", "MEMBER")
	require.NoError(t, err)
	orphan, err := jwtSvc.GenerateTokenPair("gone", "acc-1", "MEMBER")
	require.NoError(t, err)
	expiredSvc := jwt.NewJWTService("secret", -time.Minute, -time.Minute)
	expired, err := expiredSvc.GenerateTokenPair("s1", "acc-1", "MEMBER")
	require.NoError(t, err)

	r := newSessionRouter(jwtSvc, sessions, func(c *gin.Context) {
		s := GetSession(c)
		require.Equal(t, "acc-1", s.AccountID)
		s.UrgentActive = true
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", BearerPrefix + pair.AccessToken, http.StatusOK},
		{"bad format", "Token " + pair.AccessToken, http.StatusUnauthorized},
		{"garbage", BearerPrefix + "nope", http.StatusUnauthorized},
		{"expired", BearerPrefix + expired.AccessToken, http.StatusUnauthorized},
		{"unknown session", BearerPrefix + orphan.AccessToken, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/x", nil)
			req.Header.Set(AuthorizationHeader, tc.header)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)
		})
	}
	require.True(t, sessions.data["s1"].UrgentActive)

	sessions.getErr = errors.New("redis down")
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+pair.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSessionMiddleware_SaveFailureIsLogged(t *testing.T) {
	sessions := newMemSessions()
	sessions.saveErr = errors.New("redis down")
	r := newSessionRouter(jwt.NewJWTService("secret", time.Hour, time.Hour), sessions, func(c *gin.Context) {
		GetSession(c).AccountID = "acc-1"
		c.Status(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, sessions.saves)
}

func TestGetSession_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	require.False(t, GetSession(c).Authenticated())

	c.Set(SessionKey, "not a session")
	require.False(t, GetSession(c).Authenticated())
}
