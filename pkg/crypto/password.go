package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateRandomToken generates a random token of specified length
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateSessionID generates a 32-character session identifier
func GenerateSessionID() (string, error) {
	return GenerateRandomToken(16)
}

// SecretVerifier checks the shared system secret code. The plain code is
// never kept; only its bcrypt hash is.
type SecretVerifier struct {
	hash string
}

// NewSecretVerifier builds a verifier from a bcrypt hash, or hashes code when
// no hash is configured.
func NewSecretVerifier(code, hash string) (*SecretVerifier, error) {
	if strings.HasPrefix(hash, "$2") {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid secret hash: %w", err)
		}
		return &SecretVerifier{hash: hash}, nil
	}
	if code == "" {
		return nil, fmt.Errorf("secret code is required")
	}
	h, err := HashPassword(code)
	if err != nil {
		return nil, err
	}
	return &SecretVerifier{hash: h}, nil
}

// Matches reports whether code is exactly the system secret.
func (v *SecretVerifier) Matches(code string) bool {
	if code == "" {
		return false
	}
	return CheckPassword(code, v.hash)
}
