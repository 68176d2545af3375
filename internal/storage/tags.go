package storage

import (
	"context"
	"strings"

	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"gorm.io/gorm/clause"
)

func (s *DatabaseStorage) GetTags(ctx context.Context) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	if err := s.conn(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, dbErr("list tags", err)
	}
	return tags, nil
}

func (s *DatabaseStorage) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var t models.Tag
	ok, err := first(s.conn(ctx).Where("id = ?", id), &t)
	if err != nil {
		return nil, dbErr("get tag", err)
	}
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *DatabaseStorage) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var t models.Tag
	ok, err := first(s.conn(ctx).Where("slug = ?", slug), &t)
	if err != nil {
		return nil, dbErr("get tag by slug", err)
	}
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *DatabaseStorage) CreateTag(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	row := *t
	row.ID = 0
	row.Name = strings.TrimSpace(row.Name)
	if row.Slug == "" {
		row.Slug = Slugify(row.Name)
	}
	if row.Slug == "" {
		return nil, apperr.Validation("Tag name cannot be empty")
	}
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return nil, writeErr("create tag", "Tag already exists", err)
	}
	return &row, nil
}

// EnsureTag returns the tag whose slug matches name, creating it when missing.
func (s *DatabaseStorage) EnsureTag(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return nil, apperr.Validation("Tag name cannot be empty")
	}
	existing, err := s.GetTagBySlug(ctx, slug)
	if err != nil || existing != nil {
		return existing, err
	}
	row := models.Tag{Name: name, Slug: slug}
	err = s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return nil, dbErr("ensure tag", err)
	}
	return s.GetTagBySlug(ctx, slug)
}

// AddTagToArticle links a tag to an article. Linking twice is a no-op.
func (s *DatabaseStorage) AddTagToArticle(ctx context.Context, articleID, tagID uint) error {
	link := models.ArticleTag{ArticleID: articleID, TagID: tagID}
	err := s.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "article_id"}, {Name: "tag_id"}},
			DoNothing: true,
		}).
		Create(&link).Error
	if err != nil {
		return dbErr("add tag to article", err)
	}
	return nil
}

func (s *DatabaseStorage) GetArticleTags(ctx context.Context, articleID uint) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	err := s.conn(ctx).
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Where("article_tags.article_id = ?", articleID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, dbErr("list article tags", err)
	}
	return tags, nil
}

// GetArticlesByTag resolves the tag's article ids through the join table
// and batch-fetches them newest first.
func (s *DatabaseStorage) GetArticlesByTag(ctx context.Context, tagID uint, limit int) ([]models.Article, error) {
	arts := make([]models.Article, 0)
	var ids []uint
	err := s.conn(ctx).
		Model(&models.ArticleTag{}).
		Where("tag_id = ?", tagID).
		Pluck("article_id", &ids).Error
	if err != nil {
		return nil, dbErr("list tag article ids", err)
	}
	if len(ids) == 0 {
		return arts, nil
	}
	err = s.conn(ctx).
		Where("id IN ?", ids).
		Order(newestFirst).
		Limit(clampLimit(limit, DefaultCategoryLimit)).
		Find(&arts).Error
	if err != nil {
		return nil, dbErr("list tag articles", err)
	}
	return arts, nil
}

// GetArticlesByTagSlug returns (nil, nil) when the tag does not exist.
func (s *DatabaseStorage) GetArticlesByTagSlug(ctx context.Context, slug string, limit int) ([]models.Article, error) {
	tag, err := s.GetTagBySlug(ctx, slug)
	if err != nil || tag == nil {
		return nil, err
	}
	return s.GetArticlesByTag(ctx, tag.ID, limit)
}
