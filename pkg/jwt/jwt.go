package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "udyokta"

// Token kinds carried in the "typ" claim
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims binds a token to a server-side session. AccountID and Role are
// informational; callers re-resolve the account from the session.
type Claims struct {
	SessionID string `json:"sid"`
	AccountID string `json:"accountId,omitempty"`
	Role      string `json:"role,omitempty"`
	Kind      string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// JWTService signs and checks HS256 session tokens
type JWTService struct {
	secret []byte
	expiry map[string]time.Duration
	parser *jwt.Parser
}

var signJWTToken = func(token *jwt.Token, secret []byte) (string, error) {
	return token.SignedString(secret)
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string, accessExpiry, refreshExpiry time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		expiry: map[string]time.Duration{
			KindAccess:  accessExpiry,
			KindRefresh: refreshExpiry,
		},
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
		),
	}
}

// GenerateTokenPair issues an access and a refresh token for one session
func (s *JWTService) GenerateTokenPair(sessionID, accountID, role string) (*TokenPair, error) {
	access, err := s.sign(KindAccess, sessionID, accountID, role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(KindRefresh, sessionID, accountID, role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateToken accepts access tokens only
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, KindAccess)
}

// ValidateRefreshToken accepts refresh tokens only
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, KindRefresh)
}

func (s *JWTService) validate(tokenString, kind string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" || claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *JWTService) sign(kind, sessionID, accountID, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		SessionID: sessionID,
		AccountID: accountID,
		Role:      role,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry[kind])),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return signJWTToken(jwt.NewWithClaims(jwt.SigningMethodHS256, claims), s.secret)
}
