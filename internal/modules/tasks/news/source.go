package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/yourbuzzfeed/core/internal/config"
)

// Story is one candidate item pulled from a source.
type Story struct {
	Title   string
	URL     string
	Summary string
}

// Source yields the current top stories of one feed.
type Source interface {
	Name() string
	Category() string
	Fetch(ctx context.Context, limit int) ([]Story, error)
}

// BuildSources turns configured feeds into sources.
func BuildSources(cfg []config.NewsSource) ([]Source, error) {
	sources := make([]Source, 0, len(cfg))
	for _, sc := range cfg {
		switch sc.Kind {
		case config.SourceKindRSS:
			sources = append(sources, NewRSSSource(sc.Name, sc.URL, sc.Category))
		case config.SourceKindHackerNews:
			sources = append(sources, NewHackerNewsSource(sc.Name, sc.URL, sc.Category))
		default:
			return nil, fmt.Errorf("news source %q: unknown kind %q", sc.Name, sc.Kind)
		}
	}
	return sources, nil
}

type rssSource struct {
	name     string
	url      string
	category string
	parser   *gofeed.Parser
}

func NewRSSSource(name, url, category string) Source {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 20 * time.Second}
	parser.UserAgent = userAgent
	return &rssSource{name: name, url: url, category: category, parser: parser}
}

func (s *rssSource) Name() string     { return s.name }
func (s *rssSource) Category() string { return s.category }

func (s *rssSource) Fetch(ctx context.Context, limit int) ([]Story, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.url, err)
	}
	stories := make([]Story, 0, limit)
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Link) == "" || strings.TrimSpace(item.Title) == "" {
			continue
		}
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		stories = append(stories, Story{
			Title:   strings.TrimSpace(item.Title),
			URL:     strings.TrimSpace(item.Link),
			Summary: summary,
		})
		if len(stories) == limit {
			break
		}
	}
	return stories, nil
}

type hnItem struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
	Text  string `json:"text"`
	Dead  bool   `json:"dead"`
}

// hackerNewsSource reads the Firebase API. Stories without an external URL
// (Ask HN and friends) are skipped.
type hackerNewsSource struct {
	name     string
	baseURL  string
	category string
	client   *http.Client
}

func NewHackerNewsSource(name, baseURL, category string) Source {
	return &hackerNewsSource{
		name:     name,
		baseURL:  strings.TrimRight(baseURL, "/"),
		category: category,
		client:   &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *hackerNewsSource) Name() string     { return s.name }
func (s *hackerNewsSource) Category() string { return s.category }

func (s *hackerNewsSource) Fetch(ctx context.Context, limit int) ([]Story, error) {
	var ids []int64
	if err := s.getJSON(ctx, "/v0/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("fetch top stories: %w", err)
	}

	stories := make([]Story, 0, limit)
	var itemErrs []error
	// Look a little past limit so skipped items do not leave the batch short.
	for i := 0; i < len(ids) && i < limit*3 && len(stories) < limit; i++ {
		var item *hnItem
		if err := s.getJSON(ctx, fmt.Sprintf("/v0/item/%d.json", ids[i]), &item); err != nil {
			itemErrs = append(itemErrs, fmt.Errorf("fetch item %d: %w", ids[i], err))
			continue
		}
		if item == nil || item.Dead || item.Type != "story" || item.URL == "" || item.Title == "" {
			continue
		}
		stories = append(stories, Story{Title: item.Title, URL: item.URL, Summary: item.Text})
	}
	// A bad item only fails the source when nothing else could be read.
	if len(stories) == 0 && len(itemErrs) > 0 {
		return nil, errors.Join(itemErrs...)
	}
	return stories, nil
}

func (s *hackerNewsSource) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
