package feed

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

var site = config.SiteConfig{URL: "https://ybf.test", Title: "YBF", Description: "Lists & news"}

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutils.SetupTestDB(t)
	now := time.Now()
	testutils.CreateTestArticle(db, testutils.WithSlug("older"), testutils.WithPublishDate(now.Add(-time.Hour)))
	newest := testutils.CreateTestArticle(db, testutils.WithSlug("newest"), testutils.WithPublishDate(now))
	draft := testutils.CreateTestArticle(db, testutils.WithSlug("draft"), testutils.WithPublishDate(now.Add(time.Hour)))
	require.NoError(t, db.Model(&models.Article{}).Where("id = ?", draft.ID).Update("is_published", false).Error)
	require.NoError(t, db.Model(&models.Article{}).Where("id = ?", newest.ID).Update("featured_image", "https://img.test/a.jpg").Error)

	r := gin.New()
	NewHandler(storage.New(db), site).RegisterRoutes(r.Group(""))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRSS(t *testing.T) {
	r := setup(t)

	w := get(r, "/feed.xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))

	var doc rssDoc
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "YBF", doc.Channel.Title)
	assert.Equal(t, "Lists & news", doc.Channel.Description)
	require.Len(t, doc.Channel.Items, 2)
	assert.Equal(t, "https://ybf.test/article/newest", doc.Channel.Items[0].Link)
	require.NotNil(t, doc.Channel.Items[0].Enclosure)
	assert.Equal(t, "https://img.test/a.jpg", doc.Channel.Items[0].Enclosure.URL)
	assert.Nil(t, doc.Channel.Items[1].Enclosure)
	assert.Equal(t, "An excerpt", doc.Channel.Items[1].Description.Text)
}

func TestAtom(t *testing.T) {
	r := setup(t)

	for _, path := range []string{"/atom.xml", "/feed?type=atom"} {
		w := get(r, path)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "application/atom+xml; charset=utf-8", w.Header().Get("Content-Type"))

		var doc atomDoc
		require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &doc))
		require.Len(t, doc.Entries, 2)
		assert.Equal(t, "https://ybf.test/article/newest", doc.Entries[0].ID)
		assert.Equal(t, "html", doc.Entries[0].Content.Type)
		assert.Equal(t, "<p>Some content</p>", doc.Entries[0].Content.Body)
	}
}
