package ai

import (
	"context"

	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"github.com/yourbuzzfeed/core/internal/storage"
	"go.uber.org/zap"
)

// ImageSource resolves a featured image URL for a search query. It falls back
// to a placeholder instead of failing.
type ImageSource interface {
	FeaturedImage(ctx context.Context, query string) string
}

// Publisher persists generated content: image lookup, category and tag
// resolution, then the article row.
type Publisher struct {
	store  storage.Storage
	images ImageSource
	log    *zap.Logger
}

func NewPublisher(store storage.Storage, images ImageSource, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{store: store, images: images, log: log.Named("publisher")}
}

// Publish stores g as a published article. A zero authorID leaves the
// article without an author.
func (p *Publisher) Publish(ctx context.Context, authorID uint, g *Generated) (*models.Article, error) {
	in := storage.NewArticle{
		Title:         g.Title,
		Excerpt:       g.Excerpt,
		Content:       g.Content,
		FeaturedImage: g.FeaturedImage,
		ContentType:   g.ContentType,
	}
	if authorID != 0 {
		in.AuthorID = &authorID
	}
	if in.FeaturedImage == "" && p.images != nil {
		in.FeaturedImage = p.images.FeaturedImage(ctx, g.ImageQuery)
	}
	if g.Category != "" {
		cat, err := p.store.EnsureCategory(ctx, g.Category)
		if err != nil && !apperr.Is(err, apperr.KindValidation) {
			return nil, err
		}
		if cat != nil {
			in.CategoryID = &cat.ID
		}
	}

	a, err := p.store.CreateArticle(ctx, in)
	if err != nil {
		return nil, err
	}
	for _, name := range g.Tags {
		tag, err := p.store.EnsureTag(ctx, name)
		if err != nil {
			p.log.Warn("skip tag", zap.String("tag", name), zap.Error(err))
			continue
		}
		if err := p.store.AddTagToArticle(ctx, a.ID, tag.ID); err != nil {
			return nil, err
		}
	}
	p.log.Info("article published", zap.Uint("id", a.ID), zap.String("slug", a.Slug), zap.String("type", string(a.ContentType)))
	return a, nil
}
