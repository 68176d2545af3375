package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourbuzzfeed/core/internal/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestManager(t *testing.T, store Store) *Manager {
	t.Helper()
	codec, err := jwt.NewCodec("test-secret")
	require.NoError(t, err)
	return NewManager(store, codec, WithTTL(time.Hour))
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestManagerStartResolveEnd(t *testing.T) {
	store := NewMemoryStore()
	mgr := newTestManager(t, store)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/login", nil)

	s, err := mgr.Start(c, 42)
	require.NoError(t, err)
	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, 3600, ck.MaxAge)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/api/user", nil)
	c2.Request.AddCookie(ck)

	got, err := mgr.Resolve(c2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.Token, got.Token)
	assert.EqualValues(t, 42, got.UserID)

	require.NoError(t, mgr.End(c2))
	cleared := sessionCookie(t, w2)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, 0, store.Len())

	again, err := mgr.ResolveToken(context.Background(), ck.Value)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestManagerRejectsForgedCookie(t *testing.T) {
	store := NewMemoryStore()
	mgr := newTestManager(t, store)
	s, err := store.Create(context.Background(), 1, time.Hour)
	require.NoError(t, err)

	other, err := jwt.NewCodec("another-secret")
	require.NoError(t, err)
	forged, err := other.Sign(s.Token, 1, time.Hour)
	require.NoError(t, err)

	got, err := mgr.ResolveToken(context.Background(), forged)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManagerRejectsUserMismatch(t *testing.T) {
	store := NewMemoryStore()
	mgr := newTestManager(t, store)
	s, err := store.Create(context.Background(), 1, time.Hour)
	require.NoError(t, err)

	token, err := mgr.codec.Sign(s.Token, 2, time.Hour)
	require.NoError(t, err)

	got, err := mgr.ResolveToken(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManagerResolveWithoutCookie(t *testing.T) {
	mgr := newTestManager(t, NewMemoryStore())
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/user", nil)

	got, err := mgr.Resolve(c)
	require.NoError(t, err)
	assert.Nil(t, got)
}
