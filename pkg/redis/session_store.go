package redis

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCorrupt is returned when a stored blob fails to open.
	ErrSessionCorrupt = errors.New("session payload corrupt")
)

// SessionData holds the per-client state stored in the session
type SessionData struct {
	AccountID        string `json:"accountId,omitempty"`
	SurfacedUrgentID string `json:"surfacedUrgentId,omitempty"`
	UrgentActive     bool   `json:"urgentActive"`
}

// SessionStore keeps sessions in Redis sealed with AES-256-GCM. The session
// id is bound as additional data, so a blob copied under another id fails
// to open.
type SessionStore struct {
	aead cipher.AEAD
}

var (
	setSessionValue = Set
	getSessionValue = Get
	delSessionValue = Del
)

// NewSessionStore creates a session store from a 64 hex char key
func NewSessionStore(encryptionKeyHex string) (*SessionStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &SessionStore{aead: aead}, nil
}

// SaveSession seals data and stores it under the session id with a fresh TTL
func (s *SessionStore) SaveSession(ctx context.Context, sessionID string, data *SessionData, expiration time.Duration) error {
	plain, err := json.Marshal(data)
	if err != nil {
		return err
	}
	sealed, err := s.seal(sessionID, plain)
	if err != nil {
		return err
	}
	return setSessionValue(ctx, sessionKey(sessionID), sealed, expiration)
}

// GetSession loads and opens a stored session
func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*SessionData, error) {
	raw, err := getSessionValue(ctx, sessionKey(sessionID))
	if err != nil {
		if IsNil(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	plain, err := s.open(sessionID, raw)
	if err != nil {
		return nil, err
	}

	var data SessionData
	if err := json.Unmarshal(plain, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	return &data, nil
}

// DeleteSession removes a session from Redis
func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return delSessionValue(ctx, sessionKey(sessionID))
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *SessionStore) seal(sessionID string, plain []byte) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plain)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := s.aead.Seal(nonce, nonce, plain, []byte(sessionID))
	return base64.RawURLEncoding.EncodeToString(out), nil
}

func (s *SessionStore) open(sessionID, encoded string) ([]byte, error) {
	blob, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	n := s.aead.NonceSize()
	if len(blob) < n+s.aead.Overhead() {
		return nil, fmt.Errorf("%w: blob too short", ErrSessionCorrupt)
	}
	plain, err := s.aead.Open(nil, blob[:n], blob[n:], []byte(sessionID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	return plain, nil
}
