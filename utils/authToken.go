package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/o1egl/paseto"
)

const SymmetricKeyLength = 32

var (
	ErrInvalidKeyLength = fmt.Errorf("symmetric key must be %d bytes long", SymmetricKeyLength)
	ErrTokenExpired     = errors.New("token expired")
)

// SessionClaims is the payload of a session cookie. The session itself lives
// in Redis; the token only proves the cookie was issued by this server.
type SessionClaims struct {
	SessionID string    `json:"sid"`
	UserID    uint      `json:"uid"`
	Expiry    time.Time `json:"exp"`
}

// TokenMaker issues and validates PASETO v2 local tokens.
type TokenMaker struct {
	key    []byte
	paseto *paseto.V2
}

func NewTokenMaker(key []byte) (*TokenMaker, error) {
	if len(key) != SymmetricKeyLength {
		return nil, ErrInvalidKeyLength
	}
	return &TokenMaker{key: key, paseto: paseto.NewV2()}, nil
}

func (m *TokenMaker) Issue(sessionID string, userID uint, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		UserID:    userID,
		Expiry:    time.Now().Add(ttl),
	}
	token, err := m.paseto.Encrypt(m.key, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

func (m *TokenMaker) Validate(token string) (*SessionClaims, error) {
	var claims SessionClaims
	if err := m.paseto.Decrypt(token, m.key, &claims, nil); err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}
	if time.Now().After(claims.Expiry) {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}
