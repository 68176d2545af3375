// Package image finds featured images for generated articles.
package image

import (
	"context"
	"strings"

	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"go.uber.org/zap"
)

// SearchResult is the answer to an image search. Photo is nil when the
// fallback image was used.
type SearchResult struct {
	Query    string `json:"query"`
	URL      string `json:"url"`
	Photo    *Photo `json:"photo"`
	Fallback bool   `json:"fallback"`
}

// Finder resolves images through Unsplash and optionally mirrors them to S3.
// A nil unsplash client always yields the fallback image.
type Finder struct {
	unsplash *UnsplashClient
	mirror   *S3Mirror
	fallback string
	log      *zap.Logger
}

func NewFinder(unsplash *UnsplashClient, mirror *S3Mirror, fallback string, log *zap.Logger) *Finder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Finder{unsplash: unsplash, mirror: mirror, fallback: fallback, log: log.Named("image")}
}

func (f *Finder) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	res := &SearchResult{Query: query, URL: f.fallback, Fallback: true}
	if f.unsplash == nil || query == "" {
		return res, nil
	}
	photo, err := f.unsplash.Search(ctx, query)
	if err != nil {
		return nil, apperr.Upstream("Failed to search images", err)
	}
	if photo != nil {
		res.URL = photo.URL
		res.Photo = photo
		res.Fallback = false
	}
	return res, nil
}

// FeaturedImage never fails: lookup and mirror errors are logged and the
// best URL known so far is returned.
func (f *Finder) FeaturedImage(ctx context.Context, query string) string {
	res, err := f.Search(ctx, query)
	if err != nil {
		f.log.Warn("image search failed", zap.String("query", query), zap.Error(err))
		return f.fallback
	}
	if res.Fallback || f.mirror == nil {
		return res.URL
	}
	mirrored, err := f.mirror.Mirror(ctx, res.URL)
	if err != nil {
		f.log.Warn("image mirror failed", zap.String("url", res.URL), zap.Error(err))
		return res.URL
	}
	return mirrored
}
