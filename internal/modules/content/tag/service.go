package tag

import (
	"context"

	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"github.com/yourbuzzfeed/core/internal/storage"
)

type CreateTagDTO struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"max=120"`
}

type Service struct {
	store storage.Storage
}

func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]models.Tag, error) {
	return s.store.GetTags(ctx)
}

// Articles lists the newest articles carrying the tag.
func (s *Service) Articles(ctx context.Context, slug string, limit int) ([]models.Article, error) {
	tag, err := s.store.GetTagBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, apperr.NotFound("Tag")
	}
	return s.store.GetArticlesByTag(ctx, tag.ID, limit)
}

func (s *Service) Create(ctx context.Context, dto CreateTagDTO) (*models.Tag, error) {
	return s.store.CreateTag(ctx, &models.Tag{Name: dto.Name, Slug: storage.Slugify(dto.Slug)})
}
