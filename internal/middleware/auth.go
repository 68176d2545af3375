package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
	"github.com/yourbuzzfeed/core/internal/pkg/session"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeySID    = "session_id"
)

// Auth returns a middleware that rejects requests without a live session.
func Auth(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := mgr.Resolve(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		if s == nil {
			response.Unauthorized(c)
			return
		}
		setSession(c, s)
		c.Next()
	}
}

// OptionalAuth sets the user ID if a valid session is present, but does not block the request.
func OptionalAuth(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s, err := mgr.Resolve(c); err == nil && s != nil {
			setSession(c, s)
		}
		c.Next()
	}
}

func setSession(c *gin.Context, s *session.Session) {
	c.Set(ContextKeyUserID, s.UserID)
	c.Set(ContextKeySID, s.Token)
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(uint)
	return id
}

// CurrentSessionID extracts the authenticated session token from context.
func CurrentSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySID)
}

// IsAuthenticated returns true if the request carries a live session.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != 0
}
