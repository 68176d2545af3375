package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/pkg/jwt"
)

// CookieName is the name of the session cookie.
const CookieName = "yourbuzzfeed.sid"

// Manager ties a Store to the signed session cookie.
type Manager struct {
	store  Store
	codec  *jwt.Codec
	ttl    time.Duration
	secure bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithSecureCookie marks the cookie Secure (production behind TLS).
func WithSecureCookie(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func NewManager(store Store, codec *jwt.Codec, opts ...Option) *Manager {
	m := &Manager{store: store, codec: codec, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the backing session store.
func (m *Manager) Store() Store { return m.store }

// Start opens a session for userID and writes the cookie.
func (m *Manager) Start(c *gin.Context, userID uint) (*Session, error) {
	s, err := m.store.Create(c.Request.Context(), userID, m.ttl)
	if err != nil {
		return nil, err
	}
	token, err := m.codec.Sign(s.Token, s.UserID, m.ttl)
	if err != nil {
		_ = m.store.Delete(c.Request.Context(), s.Token)
		return nil, err
	}
	m.writeCookie(c, token, int(m.ttl.Seconds()))
	return s, nil
}

// Resolve returns the live session behind the request cookie, or nil when
// the cookie is missing, forged, expired or no longer stored.
func (m *Manager) Resolve(c *gin.Context) (*Session, error) {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil, nil
	}
	return m.ResolveToken(c.Request.Context(), raw)
}

// ResolveToken is Resolve for a raw cookie value.
func (m *Manager) ResolveToken(ctx context.Context, raw string) (*Session, error) {
	claims, err := m.codec.Parse(raw)
	if err != nil {
		return nil, nil
	}
	s, err := m.store.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if s == nil || s.UserID != claims.UserID {
		return nil, nil
	}
	return s, nil
}

// End deletes the request's session, if any, and clears the cookie.
func (m *Manager) End(c *gin.Context) error {
	defer m.writeCookie(c, "", -1)
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil
	}
	claims, err := m.codec.Parse(raw)
	if err != nil {
		return nil
	}
	return m.store.Delete(c.Request.Context(), claims.SessionID)
}

func (m *Manager) writeCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", m.secure, true)
}
