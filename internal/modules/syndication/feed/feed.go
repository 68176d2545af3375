// Package feed serves the latest published articles as RSS 2.0 and Atom.
package feed

import (
	"context"
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/config"
	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
	"github.com/yourbuzzfeed/core/internal/storage"
)

const feedSize = 20

type Handler struct {
	store storage.Storage
	site  config.SiteConfig
	now   func() time.Time
}

func NewHandler(store storage.Storage, site config.SiteConfig) *Handler {
	return &Handler{store: store, site: site, now: time.Now}
}

// RegisterRoutes mounts the feeds. /feed picks the format from ?type=.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/feed", func(c *gin.Context) {
		h.render(c, c.DefaultQuery("type", "rss"))
	})
	rg.GET("/feed.xml", func(c *gin.Context) { h.render(c, "rss") })
	rg.GET("/atom.xml", func(c *gin.Context) { h.render(c, "atom") })
}

func (h *Handler) render(c *gin.Context, kind string) {
	articles, err := h.latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	var (
		doc         interface{}
		contentType string
	)
	switch kind {
	case "atom":
		doc, contentType = h.atom(articles), "application/atom+xml; charset=utf-8"
	default:
		doc, contentType = h.rss(articles), "application/rss+xml; charset=utf-8"
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}

// latest returns the newest published articles. Drafts are skipped, so a
// page may come back short.
func (h *Handler) latest(ctx context.Context) ([]models.Article, error) {
	articles, err := h.store.GetArticles(ctx, feedSize, 0)
	if err != nil {
		return nil, err
	}
	out := articles[:0]
	for _, a := range articles {
		if a.IsPublished {
			out = append(out, a)
		}
	}
	return out, nil
}

func (h *Handler) articleURL(a models.Article) string {
	return h.site.URL + "/article/" + a.Slug
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	GUID        string        `xml:"guid"`
	PubDate     string        `xml:"pubDate"`
	Description cdata         `xml:"description"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

func (h *Handler) rss(articles []models.Article) rssDoc {
	items := make([]rssItem, 0, len(articles))
	for _, a := range articles {
		item := rssItem{
			Title:       a.Title,
			Link:        h.articleURL(a),
			GUID:        h.articleURL(a),
			PubDate:     a.PublishDate.Format(time.RFC1123Z),
			Description: cdata{Text: a.Excerpt},
		}
		if a.FeaturedImage != "" {
			item.Enclosure = &rssEnclosure{URL: a.FeaturedImage, Type: "image/jpeg"}
		}
		items = append(items, item)
	}
	return rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         h.site.Title,
			Link:          h.site.URL,
			Description:   h.site.Description,
			LastBuildDate: h.now().Format(time.RFC1123Z),
			Items:         items,
		},
	}
}

type atomDoc struct {
	XMLName  xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle"`
	Link     atomLink    `xml:"link"`
	Updated  string      `xml:"updated"`
	ID       string      `xml:"id"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
}

type atomEntry struct {
	Title   string      `xml:"title"`
	Link    atomLink    `xml:"link"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Summary string      `xml:"summary"`
	Content atomContent `xml:"content"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Body string `xml:",cdata"`
}

func (h *Handler) atom(articles []models.Article) atomDoc {
	entries := make([]atomEntry, 0, len(articles))
	for _, a := range articles {
		entries = append(entries, atomEntry{
			Title:   a.Title,
			Link:    atomLink{Href: h.articleURL(a)},
			ID:      h.articleURL(a),
			Updated: a.UpdatedAt.Format(time.RFC3339),
			Summary: a.Excerpt,
			Content: atomContent{Type: "html", Body: a.Content},
		})
	}
	return atomDoc{
		Title:    h.site.Title,
		Subtitle: h.site.Description,
		Link:     atomLink{Href: h.site.URL},
		Updated:  h.now().Format(time.RFC3339),
		ID:       h.site.URL + "/",
		Entries:  entries,
	}
}
