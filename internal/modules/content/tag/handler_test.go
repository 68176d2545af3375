package tag

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
	"github.com/yourbuzzfeed/core/internal/storage"
	"github.com/yourbuzzfeed/core/internal/testutils"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func allowAll(c *gin.Context) { c.Next() }

func denyAll(c *gin.Context) { response.Unauthorized(c) }

func setupRouter(t *testing.T, authMW gin.HandlerFunc) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutils.SetupTestDB(t)
	r := gin.New()
	NewHandler(NewService(storage.New(db))).RegisterRoutes(r.Group("/api"), authMW)
	return db, r
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListIsSortedByName(t *testing.T) {
	db, r := setupRouter(t, allowAll)
	testutils.CreateTestTag(db, "Zebras")
	testutils.CreateTestTag(db, "Aardvarks")

	w := do(r, http.MethodGet, "/api/tags", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []models.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 2)
	assert.Equal(t, "Aardvarks", tags[0].Name)
	assert.Equal(t, "Zebras", tags[1].Name)
}

func TestArticlesByTag(t *testing.T) {
	db, r := setupRouter(t, allowAll)
	older := testutils.CreateTestArticle(db, testutils.WithPublishDate(time.Now().Add(-time.Hour)))
	newer := testutils.CreateTestArticle(db)
	testutils.CreateTestArticle(db)
	tag := testutils.CreateTestTag(db, "Celebs", older.ID, newer.ID)

	w := do(r, http.MethodGet, "/api/tags/"+tag.Slug+"/articles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var arts []models.Article
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &arts))
	require.Len(t, arts, 2)
	assert.Equal(t, newer.ID, arts[0].ID)
	assert.Equal(t, older.ID, arts[1].ID)

	empty := testutils.CreateTestTag(db, "Lonely")
	w = do(r, http.MethodGet, "/api/tags/"+empty.Slug+"/articles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(r, http.MethodGet, "/api/tags/missing/articles", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Tag not found"}`, w.Body.String())
}

func TestCreateTag(t *testing.T) {
	_, r := setupRouter(t, allowAll)

	w := do(r, http.MethodPost, "/api/tags", gin.H{"name": "Reality TV"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "reality-tv", created.Slug)

	w = do(r, http.MethodPost, "/api/tags", gin.H{"name": "Reality TV"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/tags", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRequiresAuth(t *testing.T) {
	_, r := setupRouter(t, denyAll)

	w := do(r, http.MethodPost, "/api/tags", gin.H{"name": "Nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/tags", nil).Code)
}
