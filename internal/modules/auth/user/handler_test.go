package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourbuzzfeed/core/internal/config"
	"github.com/yourbuzzfeed/core/internal/middleware"
	"github.com/yourbuzzfeed/core/internal/pkg/jwt"
	"github.com/yourbuzzfeed/core/internal/pkg/password"
	"github.com/yourbuzzfeed/core/internal/pkg/session"
	"github.com/yourbuzzfeed/core/internal/storage"
	"github.com/yourbuzzfeed/core/internal/testutils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	db     *gorm.DB
	store  storage.Storage
	router *gin.Engine
}

func setup(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	db := testutils.SetupTestDB(t)
	store := storage.New(db)
	codec, err := jwt.NewCodec("user-test-secret")
	require.NoError(t, err)
	mgr := session.NewManager(session.NewMemoryStore(), codec)

	r := gin.New()
	NewHandler(NewService(store, nil), mgr, nil, opts...).
		RegisterRoutes(r.Group("/api"), middleware.Auth(mgr))
	return &fixture{db: db, store: store, router: r}
}

func (f *fixture) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	return nil
}

func TestLoginSuccess(t *testing.T) {
	f := setup(t)
	testutils.CreateTestUser(f.db, "admin123", testutils.WithUsername("admin"), testutils.AsAdmin())

	w := f.do(http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "admin", body["username"])
	assert.Equal(t, true, body["isAdmin"])
	assert.NotContains(t, body, "password")
	assert.NotNil(t, sessionCookie(w))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := setup(t)
	testutils.CreateTestUser(f.db, "admin123", testutils.WithUsername("admin"))

	unknown := f.do(http.MethodPost, "/api/login", gin.H{"username": "nobody", "password": "admin123"})
	wrong := f.do(http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "admin124"})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.JSONEq(t, `{"message":"Invalid username or password"}`, wrong.Body.String())
	assert.Nil(t, sessionCookie(wrong))
}

func TestLoginMissingFields(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/api/login", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Username and password are required"}`, w.Body.String())
}

func TestLegacyBcryptPasswordIsRehashed(t *testing.T) {
	f := setup(t)
	u := testutils.CreateTestUser(f.db, "ignored", testutils.WithUsername("legacy"))
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(u).Update("password", string(hashed)).Error)

	w := f.do(http.MethodPost, "/api/login", gin.H{"username": "legacy", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.store.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, password.NeedsRehash(stored.Password))
	assert.True(t, password.Verify("secret", stored.Password))
}

func TestSessionLifecycle(t *testing.T) {
	f := setup(t)
	testutils.CreateTestUser(f.db, "admin123", testutils.WithUsername("admin"))

	w := f.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	login := f.do(http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, login.Code)
	ck := sessionCookie(login)
	require.NotNil(t, ck)

	w = f.do(http.MethodGet, "/api/user", nil, ck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)

	w = f.do(http.MethodPost, "/api/logout", nil, ck)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, w.Body.String())

	w = f.do(http.MethodGet, "/api/user", nil, ck)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutWithoutSession(t *testing.T) {
	f := setup(t)
	w := f.do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupAdminOnlyOnce(t *testing.T) {
	f := setup(t)
	dto := gin.H{"username": "boss", "password": "hunter22", "email": "boss@example.com", "fullName": "The Boss"}

	w := f.do(http.MethodPost, "/api/setup-admin", dto)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = f.do(http.MethodPost, "/api/setup-admin", dto)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"message":"Admin user already exists"}`, w.Body.String())

	w = f.do(http.MethodPost, "/api/login", gin.H{"username": "boss", "password": "hunter22"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupAdminValidation(t *testing.T) {
	f := setup(t)
	w := f.do(http.MethodPost, "/api/setup-admin", gin.H{"username": "boss", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangePassword(t *testing.T) {
	f := setup(t)
	testutils.CreateTestUser(f.db, "oldpass1", testutils.WithUsername("editor"))
	login := f.do(http.MethodPost, "/api/login", gin.H{"username": "editor", "password": "oldpass1"})
	ck := sessionCookie(login)
	require.NotNil(t, ck)

	w := f.do(http.MethodPost, "/api/user/password", gin.H{"currentPassword": "wrong", "newPassword": "newpass1"}, ck)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/api/user/password", gin.H{"currentPassword": "oldpass1", "newPassword": "123"}, ck)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/user/password", gin.H{"currentPassword": "oldpass1", "newPassword": "newpass1"}, ck)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPost, "/api/login", gin.H{"username": "editor", "password": "newpass1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEmergencyAdminRoute(t *testing.T) {
	off := setup(t)
	testutils.CreateTestUser(off.db, "pw123456", testutils.WithUsername("admin"), testutils.AsAdmin())
	w := off.do(http.MethodGet, "/api/emergency-admin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	on := setup(t, WithEmergencyAdmin(true))
	w = on.do(http.MethodGet, "/api/emergency-admin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Admin user not found"}`, w.Body.String())

	testutils.CreateTestUser(on.db, "pw123456", testutils.WithUsername("admin"), testutils.AsAdmin())
	w = on.do(http.MethodGet, "/api/emergency-admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestEnsureSeedAdmin(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewService(storage.New(db), nil)
	ctx := context.Background()

	created, err := svc.EnsureSeedAdmin(ctx, config.AdminSeedConfig{})
	require.NoError(t, err)
	assert.False(t, created)

	seed := config.AdminSeedConfig{Username: "admin", Password: "admin123"}
	created, err = svc.EnsureSeedAdmin(ctx, seed)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureSeedAdmin(ctx, seed)
	require.NoError(t, err)
	assert.False(t, created)

	u, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
}
