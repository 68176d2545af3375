// Package session keeps login sessions behind an injectable Store and binds
// them to a signed cookie.
package session

import (
	"context"
	"time"
)

// DefaultTTL is the fixed lifetime of a session, counted from login.
const DefaultTTL = 24 * time.Hour

// Session maps an opaque token to the user that logged in with it.
type Session struct {
	Token     string    `json:"token"`
	UserID    uint      `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Get returns (nil, nil) for unknown or expired
// tokens. Sweep deletes expired sessions and reports how many went away.
type Store interface {
	Create(ctx context.Context, userID uint, ttl time.Duration) (*Session, error)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	Sweep(ctx context.Context) (int64, error)
}

func newSession(token string, userID uint, ttl time.Duration, now time.Time) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}
