package storage

import (
	"context"
	"strings"
	"time"

	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/modules/processing/markdown"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"gorm.io/gorm"
)

const newestFirst = "publish_date DESC, id DESC"

func (s *DatabaseStorage) GetArticles(ctx context.Context, limit, offset int) ([]models.Article, error) {
	if offset < 0 {
		offset = 0
	}
	arts := make([]models.Article, 0)
	err := s.conn(ctx).
		Order(newestFirst).
		Limit(clampLimit(limit, DefaultPageSize)).
		Offset(offset).
		Find(&arts).Error
	if err != nil {
		return nil, dbErr("list articles", err)
	}
	return arts, nil
}

// GetPublishedArticleRefs reads only slug and updated_at of up to limit
// published articles, newest first. Unlike the page queries, limit is not
// clamped to MaxLimit.
func (s *DatabaseStorage) GetPublishedArticleRefs(ctx context.Context, limit int) ([]ArticleRef, error) {
	refs := make([]ArticleRef, 0)
	err := s.conn(ctx).
		Model(&models.Article{}).
		Select("slug", "updated_at").
		Where("is_published = ?", true).
		Order(newestFirst).
		Limit(limit).
		Scan(&refs).Error
	if err != nil {
		return nil, dbErr("list article refs", err)
	}
	return refs, nil
}

func (s *DatabaseStorage) GetArticle(ctx context.Context, id uint) (*models.Article, error) {
	var a models.Article
	ok, err := first(s.conn(ctx).Where("id = ?", id), &a)
	if err != nil {
		return nil, dbErr("get article", err)
	}
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *DatabaseStorage) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var a models.Article
	ok, err := first(s.conn(ctx).Where("slug = ?", slug), &a)
	if err != nil {
		return nil, dbErr("get article by slug", err)
	}
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *DatabaseStorage) GetFeaturedArticles(ctx context.Context, limit int) ([]models.Article, error) {
	arts := make([]models.Article, 0)
	err := s.conn(ctx).
		Where("is_featured = ?", true).
		Order(newestFirst).
		Limit(clampLimit(limit, DefaultFeaturedLimit)).
		Find(&arts).Error
	if err != nil {
		return nil, dbErr("list featured articles", err)
	}
	return arts, nil
}

func (s *DatabaseStorage) GetPopularArticles(ctx context.Context, limit int) ([]models.Article, error) {
	arts := make([]models.Article, 0)
	err := s.conn(ctx).
		Order("views DESC, id DESC").
		Limit(clampLimit(limit, DefaultPopularLimit)).
		Find(&arts).Error
	if err != nil {
		return nil, dbErr("list popular articles", err)
	}
	return arts, nil
}

func (s *DatabaseStorage) GetArticlesByCategory(ctx context.Context, categoryID uint, limit int) ([]models.Article, error) {
	arts := make([]models.Article, 0)
	err := s.conn(ctx).
		Where("category_id = ?", categoryID).
		Order(newestFirst).
		Limit(clampLimit(limit, DefaultCategoryLimit)).
		Find(&arts).Error
	if err != nil {
		return nil, dbErr("list category articles", err)
	}
	return arts, nil
}

// GetArticlesByCategorySlug returns (nil, nil) when the category does not exist.
func (s *DatabaseStorage) GetArticlesByCategorySlug(ctx context.Context, slug string, limit int) ([]models.Article, error) {
	cat, err := s.GetCategoryBySlug(ctx, slug)
	if err != nil || cat == nil {
		return nil, err
	}
	return s.GetArticlesByCategory(ctx, cat.ID, limit)
}

// GetRelatedArticles returns the newest articles sharing the article's
// category, excluding the article itself.
func (s *DatabaseStorage) GetRelatedArticles(ctx context.Context, articleID uint, limit int) ([]models.Article, error) {
	arts := make([]models.Article, 0)
	src, err := s.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if src == nil || src.CategoryID == nil {
		return arts, nil
	}
	err = s.conn(ctx).
		Where("category_id = ? AND id <> ?", *src.CategoryID, articleID).
		Order(newestFirst).
		Limit(clampLimit(limit, DefaultRelatedLimit)).
		Find(&arts).Error
	if err != nil {
		return nil, dbErr("list related articles", err)
	}
	return arts, nil
}

func (s *DatabaseStorage) IncrementArticleViews(ctx context.Context, id uint) error {
	return s.increment(ctx, id, "views")
}

func (s *DatabaseStorage) IncrementArticleShares(ctx context.Context, id uint) error {
	return s.increment(ctx, id, "shares")
}

// increment bumps a counter column in a single UPDATE statement.
func (s *DatabaseStorage) increment(ctx context.Context, id uint, column string) error {
	res := s.conn(ctx).
		Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return dbErr("increment "+column, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Article")
	}
	return nil
}

func (s *DatabaseStorage) CreateArticle(ctx context.Context, in NewArticle) (*models.Article, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("Content is required")
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = models.ContentTypeArticle
	}
	if !contentType.Valid() {
		return nil, apperr.Validation("Unknown content type")
	}

	row := models.Article{
		Title:         title,
		Excerpt:       strings.TrimSpace(in.Excerpt),
		Content:       in.Content,
		FeaturedImage: strings.TrimSpace(in.FeaturedImage),
		AuthorID:      in.AuthorID,
		CategoryID:    in.CategoryID,
		IsPublished:   true,
		IsFeatured:    in.IsFeatured,
		ContentType:   contentType,
		ReadTime:      in.ReadTime,
	}
	if in.IsPublished != nil {
		row.IsPublished = *in.IsPublished
	}
	row.PublishDate = time.Now()
	if in.PublishDate != nil && !in.PublishDate.IsZero() {
		row.PublishDate = *in.PublishDate
	}
	if row.ReadTime <= 0 {
		row.ReadTime = markdown.ReadTime(row.Content)
	}
	if row.Excerpt == "" {
		row.Excerpt = markdown.Excerpt(row.Content, 0)
	}

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if explicit := Slugify(in.Slug); explicit != "" {
			row.Slug = explicit
		} else {
			slug, err := uniqueSlug(tx, &models.Article{}, Slugify(title), "article")
			if err != nil {
				return err
			}
			row.Slug = slug
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, writeErr("create article", "Article slug already exists", err)
	}
	return &row, nil
}

func (s *DatabaseStorage) UpdateArticle(ctx context.Context, id uint, patch ArticlePatch) (*models.Article, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperr.Validation("Title cannot be empty")
		}
		updates["title"] = title
	}
	if patch.Slug != nil {
		slug := Slugify(*patch.Slug)
		if slug == "" {
			return nil, apperr.Validation("Slug cannot be empty")
		}
		updates["slug"] = slug
	}
	if patch.Excerpt != nil {
		updates["excerpt"] = *patch.Excerpt
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
		if patch.ReadTime == nil {
			updates["read_time"] = markdown.ReadTime(*patch.Content)
		}
	}
	if patch.ReadTime != nil && *patch.ReadTime > 0 {
		updates["read_time"] = *patch.ReadTime
	}
	if patch.FeaturedImage != nil {
		updates["featured_image"] = *patch.FeaturedImage
	}
	if patch.PublishDate != nil && !patch.PublishDate.IsZero() {
		updates["publish_date"] = *patch.PublishDate
	}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.IsPublished != nil {
		updates["is_published"] = *patch.IsPublished
	}
	if patch.IsFeatured != nil {
		updates["is_featured"] = *patch.IsFeatured
	}
	if patch.ContentType != nil {
		if !patch.ContentType.Valid() {
			return nil, apperr.Validation("Unknown content type")
		}
		updates["content_type"] = *patch.ContentType
	}

	current, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("Article")
	}
	if len(updates) == 0 {
		return current, nil
	}
	if err := s.conn(ctx).Model(&models.Article{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, writeErr("update article", "Article slug already exists", err)
	}
	return s.GetArticle(ctx, id)
}

// DeleteArticle removes the article's tag links and the article in one transaction.
func (s *DatabaseStorage) DeleteArticle(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleTag{}).Error; err != nil {
			return dbErr("delete article tags", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Article{})
		if res.Error != nil {
			return dbErr("delete article", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Article")
		}
		return nil
	})
}
