package entity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTokenName labels tokens issued by register and login.
	DefaultTokenName = "auth_token"

	tokenBytes = 32 // 43 chars once base64url encoded
)

// SessionToken is a revocable bearer credential owned by an account.
// Only the SHA-256 of the plaintext is kept; the plaintext is handed to the
// client once, at issuance.
type SessionToken struct {
	ID        string
	AccountID string
	Name      string
	Hash      string
	IssuedAt  time.Time
	ExpiresAt *time.Time
}

// IsExpiredAt reports whether the token is no longer valid at t.
func (t *SessionToken) IsExpiredAt(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// HashToken returns the lookup key stored for a plaintext token.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// MintSessionToken creates a new token for accountID. A ttl of zero yields a
// token that never expires.
func MintSessionToken(accountID, name string, now time.Time, ttl time.Duration) (*SessionToken, string, error) {
	if accountID == "" {
		return nil, "", errors.New("account id is required")
	}
	if name == "" {
		name = DefaultTokenName
	}
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, "", err
	}
	plain := base64.RawURLEncoding.EncodeToString(b)

	t := &SessionToken{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Name:      name,
		Hash:      HashToken(plain),
		IssuedAt:  now.UTC(),
	}
	if ttl > 0 {
		exp := t.IssuedAt.Add(ttl)
		t.ExpiresAt = &exp
	}
	return t, plain, nil
}
