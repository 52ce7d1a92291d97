package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/internal/domain/repositories"
	"udyokta.backend/internal/interfaces/http/middleware"
	"udyokta.backend/internal/interfaces/http/response"
	"udyokta.backend/internal/usecases"
	"udyokta.backend/pkg/jwt"
	"udyokta.backend/pkg/logger"
)

// TokenService issues and validates session-bound tokens
type TokenService interface {
	GenerateTokenPair(sessionID, accountID, role string) (*jwt.TokenPair, error)
	ValidateToken(tokenString string) (*jwt.Claims, error)
	ValidateRefreshToken(tokenString string) (*jwt.Claims, error)
}

// AuthHandler handles identity endpoints
type AuthHandler struct {
	identity *usecases.IdentityUsecase
	notices  *usecases.NoticeUsecase
	tokens   TokenService
	sessions repositories.SessionRepository
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity *usecases.IdentityUsecase, notices *usecases.NoticeUsecase, tokens TokenService, sessions repositories.SessionRepository) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		notices:  notices,
		tokens:   tokens,
		sessions: sessions,
	}
}

// Register handles account registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	session := middleware.GetSession(c)
	account, err := h.identity.Register(c.Request.Context(), session, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.signedIn(c, http.StatusCreated, session, account)
}

// Login handles login by email and optional secret code
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	session := middleware.GetSession(c)
	account, err := h.identity.Login(c.Request.Context(), session, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.signedIn(c, http.StatusOK, session, account)
}

func (h *AuthHandler) signedIn(c *gin.Context, status int, session *entities.Session, account *entities.Account) {
	pair, err := h.tokens.GenerateTokenPair(session.ID, account.ID, string(account.Role))
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to issue tokens", zap.Error(err))
		response.Error(c, domainerrors.InternalError(err))
		return
	}

	response.Success(c, status, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"account":      account,
		"urgentNotice": h.notices.ActiveUrgent(c.Request.Context(), session),
	})
}

// RefreshToken issues a new token pair for a live session
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Refresh token is required"))
		return
	}

	claims, err := h.tokens.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		response.Error(c, domainerrors.Unauthorized("Invalid or expired refresh token"))
		return
	}
	session, err := h.sessions.Get(c.Request.Context(), claims.SessionID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.Unauthorized("Session expired"))
			return
		}
		response.Error(c, domainerrors.InternalError(err))
		return
	}
	account, err := h.identity.Current(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}

	pair, err := h.tokens.GenerateTokenPair(session.ID, account.ID, string(account.Role))
	if err != nil {
		response.Error(c, domainerrors.InternalError(err))
		return
	}
	response.Success(c, http.StatusOK, pair)
}

// Logout signs the session out
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.identity.Logout(c.Request.Context(), middleware.GetSession(c))
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// GetMe returns the session account
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	account, err := h.identity.Current(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": account})
}

// UpdateProfile edits the session account's profile
// PATCH /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var input entities.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	session := middleware.GetSession(c)
	if !session.Authenticated() {
		response.Error(c, domainerrors.Unauthorized("login required"))
		return
	}
	account, err := h.identity.UpdateProfile(c.Request.Context(), session, session.AccountID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": account})
}

// Resign removes the session account. Only a SuperAdmin may resign.
// POST /api/v1/auth/resign
func (h *AuthHandler) Resign(c *gin.Context) {
	session := middleware.GetSession(c)
	account, err := h.identity.Current(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	if account.Role != entities.AccountRoleSuperAdmin {
		response.Error(c, domainerrors.Forbidden("only the super admin can resign"))
		return
	}
	if err := h.identity.Resign(c.Request.Context(), session, session.AccountID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Account removed"})
}

// VerifyReset checks the secret code of a privileged account during access recovery
// POST /api/v1/auth/verify-reset
func (h *AuthHandler) VerifyReset(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	account, err := h.identity.VerifyReset(c.Request.Context(), input.Email, input.SecretCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": account, "verified": true})
}
