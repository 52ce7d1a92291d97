package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/internal/domain/repositories"
	"udyokta.backend/internal/interfaces/http/response"
	"udyokta.backend/pkg/crypto"
	"udyokta.backend/pkg/jwt"
	"udyokta.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionKey is the context key for the request session
	SessionKey = "session"
)

var newSessionID = crypto.GenerateSessionID

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

// SessionMiddleware attaches a session to every request. A bearer token
// resumes its stored session; requests without one get a fresh anonymous
// session. The session is written back when the handler changed it.
func SessionMiddleware(tokens TokenValidator, sessions repositories.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		session, err := resolveSession(ctx, c.GetHeader(AuthorizationHeader), tokens, sessions)
		if err != nil {
			logger.Warn(ctx, "Session rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.AbortWithError(c, err)
			return
		}

		before := *session
		c.Set(SessionKey, session)
		c.Request = c.Request.WithContext(context.WithValue(ctx, logger.SessionIDKey, session.ID))

		c.Next()

		if *session == before {
			return
		}
		if err := sessions.Save(ctx, session); err != nil {
			logger.Error(ctx, "Failed to save session", zap.String("session_id", session.ID), zap.Error(err))
		}
	}
}

func resolveSession(ctx context.Context, header string, tokens TokenValidator, sessions repositories.SessionRepository) (*entities.Session, error) {
	if header == "" {
		id, err := newSessionID()
		if err != nil {
			return nil, domainerrors.InternalError(err)
		}
		return &entities.Session{ID: id}, nil
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return nil, domainerrors.Unauthorized("Invalid authorization format. Use: Bearer <token>")
	}

	claims, err := tokens.ValidateToken(strings.TrimPrefix(header, BearerPrefix))
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, domainerrors.Unauthorized("Token has expired")
		}
		return nil, domainerrors.Unauthorized("Invalid token")
	}

	session, err := sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("Session expired")
		}
		return nil, domainerrors.InternalError(err)
	}
	return session, nil
}

// GetSession returns the request session set by SessionMiddleware
func GetSession(c *gin.Context) *entities.Session {
	v, exists := c.Get(SessionKey)
	if !exists {
		return &entities.Session{}
	}
	session, ok := v.(*entities.Session)
	if !ok {
		return &entities.Session{}
	}
	return session
}
