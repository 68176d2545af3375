package category

import (
	"context"
	"strings"

	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"github.com/yourbuzzfeed/core/internal/storage"
)

const msgEmptyName = "Category name cannot be empty"

type CreateCategoryDTO struct {
	Name        string `json:"name"        binding:"required,max=100"`
	Slug        string `json:"slug"        binding:"max=120"`
	Description string `json:"description"`
	Color       string `json:"color"`
	BgColor     string `json:"bgColor"`
}

type Service struct {
	store storage.Storage
}

func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	return s.store.GetCategories(ctx)
}

// GetBySlug returns NotFound when no category has slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	cat, err := s.store.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.NotFound("Category")
	}
	return cat, nil
}

// Articles lists the newest articles of the category with slug.
func (s *Service) Articles(ctx context.Context, slug string, limit int) ([]models.Article, error) {
	if _, err := s.GetBySlug(ctx, slug); err != nil {
		return nil, err
	}
	return s.store.GetArticlesByCategorySlug(ctx, slug, limit)
}

func (s *Service) Create(ctx context.Context, dto CreateCategoryDTO) (*models.Category, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, apperr.Validation(msgEmptyName)
	}
	return s.store.CreateCategory(ctx, &models.Category{
		Name:        name,
		Slug:        dto.Slug,
		Description: dto.Description,
		Color:       dto.Color,
		BgColor:     dto.BgColor,
	})
}

func (s *Service) Update(ctx context.Context, id uint, patch storage.CategoryPatch) (*models.Category, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperr.Validation(msgEmptyName)
		}
		patch.Name = &name
	}
	return s.store.UpdateCategory(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.store.DeleteCategory(ctx, id)
}
