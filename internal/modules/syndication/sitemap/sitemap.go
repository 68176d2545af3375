package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/config"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
	"github.com/yourbuzzfeed/core/internal/storage"
)

const (
	// maxURLs is the sitemap protocol's per-file limit.
	maxURLs  = 50000
	cacheTTL = 5 * time.Minute
)

type Handler struct {
	store storage.Storage
	site  config.SiteConfig
	now   func() time.Time

	mu       sync.Mutex
	cached   []byte
	cachedAt time.Time
}

func NewHandler(store storage.Storage, site config.SiteConfig) *Handler {
	return &Handler{store: store, site: site, now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sitemap.xml", h.render)
	rg.GET("/sitemap", h.render)
}

type urlSet struct {
	XMLName xml.Name   `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

func (h *Handler) render(c *gin.Context) {
	body, err := h.document(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// document returns the encoded sitemap, rebuilt at most once per cacheTTL.
func (h *Handler) document(ctx context.Context) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cached != nil && h.now().Sub(h.cachedAt) < cacheTTL {
		return h.cached, nil
	}

	set, err := h.build(ctx)
	if err != nil {
		return nil, err
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	h.cached = append([]byte(xml.Header), out...)
	h.cachedAt = h.now()
	return h.cached, nil
}

func (h *Handler) build(ctx context.Context) (*urlSet, error) {
	set := &urlSet{URLs: []urlEntry{{
		Loc:        h.site.URL,
		LastMod:    h.now().Format("2006-01-02"),
		ChangeFreq: "hourly",
		Priority:   1.0,
	}}}

	categories, err := h.store.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, cat := range categories {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        h.site.URL + "/category/" + cat.Slug,
			ChangeFreq: "daily",
			Priority:   0.6,
		})
	}

	if len(set.URLs) >= maxURLs {
		set.URLs = set.URLs[:maxURLs]
		return set, nil
	}
	refs, err := h.store.GetPublishedArticleRefs(ctx, maxURLs-len(set.URLs))
	if err != nil {
		return nil, err
	}
	for _, a := range refs {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        h.site.URL + "/article/" + a.Slug,
			LastMod:    a.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   0.8,
		})
	}
	return set, nil
}
