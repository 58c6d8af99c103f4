package repositories

import (
	"CareClinic/cache"
	"context"
	"fmt"
	"time"
)

// Session is the server side half of a signed-in browser.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionRepository keeps sessions and password reset codes in Redis.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session, ttl time.Duration) error
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error

	SetResetCode(ctx context.Context, email, code string, ttl time.Duration) error
	GetResetCode(ctx context.Context, email string) (string, error)
	DeleteResetCode(ctx context.Context, email string) error
	// CountResetAttempt records one redemption attempt for email and returns
	// the attempts made inside the current window.
	CountResetAttempt(ctx context.Context, email string, window time.Duration) (int64, error)
}

type sessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(cache *cache.Cache) SessionRepository {
	return &sessionRepository{cache: cache}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func resetCodeKey(email string) string {
	return "reset_code:" + email
}

func resetAttemptsKey(email string) string {
	return "reset_attempts:" + email
}

func (r *sessionRepository) CreateSession(ctx context.Context, session Session, ttl time.Duration) error {
	return r.cache.SetJSON(ctx, sessionKey(session.ID), session, ttl)
}

// GetSession returns nil, nil for unknown or expired sessions.
func (r *sessionRepository) GetSession(ctx context.Context, id string) (*Session, error) {
	var session Session
	found, err := r.cache.GetJSON(ctx, sessionKey(id), &session)
	if err != nil || !found {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, sessionKey(id))
}

func (r *sessionRepository) SetResetCode(ctx context.Context, email, code string, ttl time.Duration) error {
	return r.cache.Set(ctx, resetCodeKey(email), code, ttl)
}

// GetResetCode returns "" when no code is pending.
func (r *sessionRepository) GetResetCode(ctx context.Context, email string) (string, error) {
	return r.cache.Get(ctx, resetCodeKey(email))
}

// DeleteResetCode drops the pending code and its attempt counter.
func (r *sessionRepository) DeleteResetCode(ctx context.Context, email string) error {
	return r.cache.DeleteBatch(ctx, resetCodeKey(email), resetAttemptsKey(email))
}

func (r *sessionRepository) CountResetAttempt(ctx context.Context, email string, window time.Duration) (int64, error) {
	return r.cache.Incr(ctx, resetAttemptsKey(email), window)
}
