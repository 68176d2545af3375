package category

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

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

func TestGetUnknownSlug(t *testing.T) {
	_, r := setupRouter(t, allowAll)

	w := do(r, http.MethodGet, "/api/categories/unknown-slug", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Category not found"}`, w.Body.String())
}

func TestListAndGet(t *testing.T) {
	db, r := setupRouter(t, allowAll)
	testutils.CreateTestCategory(db, testutils.WithCategorySlug("celebrity"))
	testutils.CreateTestCategory(db)

	w := do(r, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cats []models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	assert.Len(t, cats, 2)

	w = do(r, http.MethodGet, "/api/categories/celebrity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"celebrity"`)
	assert.Contains(t, w.Body.String(), `"bgColor"`)
}

func TestCategoryArticles(t *testing.T) {
	db, r := setupRouter(t, allowAll)
	cat := testutils.CreateTestCategory(db, testutils.WithCategorySlug("animals"))
	for i := 0; i < 3; i++ {
		testutils.CreateTestArticle(db, testutils.WithCategory(cat.ID))
	}
	testutils.CreateTestArticle(db)

	w := do(r, http.MethodGet, "/api/categories/animals/articles?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var articles []models.Article
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &articles))
	assert.Len(t, articles, 2)

	w = do(r, http.MethodGet, "/api/categories/missing/articles", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateUpdateDelete(t *testing.T) {
	_, r := setupRouter(t, allowAll)

	w := do(r, http.MethodPost, "/api/categories", gin.H{"name": "Pop Culture"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pop-culture", created.Slug)
	assert.NotEmpty(t, created.Color)

	w = do(r, http.MethodPost, "/api/categories", gin.H{"name": "Pop Culture"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPatch, "/api/categories/"+itoa(created.ID), gin.H{"description": "All the gossip"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "All the gossip")

	w = do(r, http.MethodPatch, "/api/categories/9999", gin.H{"description": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/api/categories/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodDelete, "/api/categories/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Category not found"}`, w.Body.String())
}

func TestCreateValidation(t *testing.T) {
	_, r := setupRouter(t, allowAll)
	w := do(r, http.MethodPost, "/api/categories", gin.H{"slug": "no-name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/api/categories/abc", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/categories", gin.H{"name": "   ", "slug": "blank"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Category name cannot be empty"}`, w.Body.String())
}

func TestUpdateRejectsBlankName(t *testing.T) {
	_, r := setupRouter(t, allowAll)
	w := do(r, http.MethodPost, "/api/categories", gin.H{"name": "Quizzes"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(r, http.MethodPatch, "/api/categories/"+itoa(created.ID), gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Category name cannot be empty"}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/categories/quizzes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Quizzes"`)
}

func TestMutationsRequireAuth(t *testing.T) {
	_, r := setupRouter(t, denyAll)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/categories", gin.H{"name": "X"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodDelete, "/api/categories/1", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/categories", nil).Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
