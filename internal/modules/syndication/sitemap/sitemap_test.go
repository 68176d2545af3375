package sitemap

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourbuzzfeed/core/internal/config"
	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/storage"
	"github.com/yourbuzzfeed/core/internal/testutils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSitemap(t *testing.T) {
	db := testutils.SetupTestDB(t)
	cat := testutils.CreateTestCategory(db, testutils.WithCategorySlug("celebrities"))
	testutils.CreateTestArticle(db, testutils.WithSlug("famous-cats"), testutils.WithCategory(cat.ID))
	draft := testutils.CreateTestArticle(db, testutils.WithSlug("unfinished"))
	require.NoError(t, db.Model(&models.Article{}).Where("id = ?", draft.ID).Update("is_published", false).Error)

	r := gin.New()
	NewHandler(storage.New(db), config.SiteConfig{URL: "https://ybf.test"}).RegisterRoutes(r.Group(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var set urlSet
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &set))
	locs := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		locs = append(locs, u.Loc)
	}
	assert.Equal(t, []string{
		"https://ybf.test",
		"https://ybf.test/category/celebrities",
		"https://ybf.test/article/famous-cats",
	}, locs)
}

func TestSitemapIncludesEveryArticle(t *testing.T) {
	db := testutils.SetupTestDB(t)
	for i := 0; i < storage.MaxLimit+5; i++ {
		testutils.CreateTestArticle(db)
	}
	h := NewHandler(storage.New(db), config.SiteConfig{URL: "https://ybf.test"})

	set, err := h.build(t.Context())
	require.NoError(t, err)
	assert.Len(t, set.URLs, 1+storage.MaxLimit+5)
}

func TestSitemapIsCached(t *testing.T) {
	db := testutils.SetupTestDB(t)
	testutils.CreateTestArticle(db, testutils.WithSlug("first"))
	h := NewHandler(storage.New(db), config.SiteConfig{URL: "https://ybf.test"})
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }
	r := gin.New()
	h.RegisterRoutes(r.Group(""))

	get := func() string {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
		require.Equal(t, http.StatusOK, w.Code)
		return w.Body.String()
	}

	assert.Contains(t, get(), "/article/first")
	testutils.CreateTestArticle(db, testutils.WithSlug("second"))
	assert.NotContains(t, get(), "/article/second")

	now = now.Add(cacheTTL)
	assert.Contains(t, get(), "/article/second")
}
