package article

import (
	"context"

	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
	"github.com/yourbuzzfeed/core/internal/pkg/taskgroup"
	"github.com/yourbuzzfeed/core/internal/storage"
	"go.uber.org/zap"
)

type Service struct {
	store       storage.Storage
	concurrency int
	log         *zap.Logger
}

func NewService(store storage.Storage, concurrency int, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, concurrency: concurrency, log: log.Named("article")}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Article, error) {
	return s.store.GetArticles(ctx, limit, offset)
}

func (s *Service) Featured(ctx context.Context, limit int) ([]models.Article, error) {
	return s.store.GetFeaturedArticles(ctx, limit)
}

func (s *Service) Popular(ctx context.Context, limit int) ([]models.Article, error) {
	return s.store.GetPopularArticles(ctx, limit)
}

// View resolves an article by slug, counts the view and returns it with
// its category and tags.
func (s *Service) View(ctx context.Context, slug string) (*Detail, error) {
	a, err := s.store.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("Article")
	}
	if err := s.store.IncrementArticleViews(ctx, a.ID); err != nil {
		return nil, err
	}
	a.Views++
	return s.detail(ctx, a)
}

func (s *Service) detail(ctx context.Context, a *models.Article) (*Detail, error) {
	d := &Detail{Article: *a, Tags: []models.Tag{}}
	if a.CategoryID != nil {
		cat, err := s.store.GetCategory(ctx, *a.CategoryID)
		if err != nil {
			return nil, err
		}
		d.Category = cat
	}
	tags, err := s.store.GetArticleTags(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	d.Tags = tags
	return d, nil
}

// Share counts a share and returns the new total.
func (s *Service) Share(ctx context.Context, id uint) (int64, error) {
	if err := s.store.IncrementArticleShares(ctx, id); err != nil {
		return 0, err
	}
	a, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return 0, err
	}
	if a == nil {
		return 0, apperr.NotFound("Article")
	}
	return a.Shares, nil
}

func (s *Service) Related(ctx context.Context, id uint, limit int) ([]models.Article, error) {
	return s.store.GetRelatedArticles(ctx, id, limit)
}

// Create stores the article and links the named tags, creating missing ones.
func (s *Service) Create(ctx context.Context, authorID uint, dto CreateArticleDTO) (*Detail, error) {
	in := storage.NewArticle{
		Title:         dto.Title,
		Slug:          dto.Slug,
		Excerpt:       dto.Excerpt,
		Content:       dto.Content,
		FeaturedImage: dto.FeaturedImage,
		PublishDate:   dto.PublishDate,
		CategoryID:    dto.CategoryID,
		IsPublished:   dto.IsPublished,
		IsFeatured:    dto.IsFeatured,
		ContentType:   dto.ContentType,
		ReadTime:      dto.ReadTime,
	}
	if authorID != 0 {
		in.AuthorID = &authorID
	}
	if dto.CategoryID != nil {
		cat, err := s.store.GetCategory(ctx, *dto.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, apperr.Validation("Unknown categoryId")
		}
	}

	a, err := s.store.CreateArticle(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.Tag(ctx, a.ID, dto.Tags); err != nil {
		return nil, err
	}
	return s.detail(ctx, a)
}

// Tag links every non-empty name to the article.
func (s *Service) Tag(ctx context.Context, articleID uint, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		tag, err := s.store.EnsureTag(ctx, name)
		if err != nil {
			if apperr.Is(err, apperr.KindValidation) {
				continue
			}
			return err
		}
		if err := s.store.AddTagToArticle(ctx, articleID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Update(ctx context.Context, id uint, patch storage.ArticlePatch) (*models.Article, error) {
	return s.store.UpdateArticle(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.store.DeleteArticle(ctx, id)
}

// BulkDelete deletes every id independently; one failure does not stop the
// others.
func (s *Service) BulkDelete(ctx context.Context, ids []uint) response.BatchResult[BulkItem] {
	results := taskgroup.Run(ctx, s.concurrency, ids, func(ctx context.Context, id uint) (struct{}, error) {
		return struct{}{}, s.store.DeleteArticle(ctx, id)
	})

	out := response.BatchResult[BulkItem]{Results: make([]BulkItem, len(results))}
	for i, r := range results {
		item := BulkItem{ID: ids[i], Success: r.OK()}
		if r.Err != nil {
			item.Error = apperr.PublicMessage(r.Err)
			if !apperr.Is(r.Err, apperr.KindNotFound) {
				s.log.Error("bulk delete failed", zap.Uint("articleId", ids[i]), zap.Error(r.Err))
			}
		}
		out.Results[i] = item
	}
	out.Successful, out.Failed = taskgroup.Count(results)
	return out
}
