// Package storage is the only component that talks to the relational store.
// Lookups by id or slug return (nil, nil) when nothing matches; updates and
// deletes of a missing row return an apperr NotFound error.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"gorm.io/gorm"
)

const (
	DefaultPageSize      = 20
	DefaultFeaturedLimit = 1
	DefaultPopularLimit  = 5
	DefaultRelatedLimit  = 3
	DefaultCategoryLimit = 20
	MaxLimit             = 100
)

// Storage exposes every persistence operation the HTTP layer and the
// generation pipelines need.
type Storage interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetAdminUser(ctx context.Context) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, patch UserPatch) (*models.User, error)

	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	EnsureCategory(ctx context.Context, name string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	GetArticles(ctx context.Context, limit, offset int) ([]models.Article, error)
	GetArticle(ctx context.Context, id uint) (*models.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
	GetFeaturedArticles(ctx context.Context, limit int) ([]models.Article, error)
	GetPopularArticles(ctx context.Context, limit int) ([]models.Article, error)
	GetArticlesByCategory(ctx context.Context, categoryID uint, limit int) ([]models.Article, error)
	GetArticlesByCategorySlug(ctx context.Context, slug string, limit int) ([]models.Article, error)
	GetRelatedArticles(ctx context.Context, articleID uint, limit int) ([]models.Article, error)
	IncrementArticleViews(ctx context.Context, id uint) error
	IncrementArticleShares(ctx context.Context, id uint) error
	CreateArticle(ctx context.Context, in NewArticle) (*models.Article, error)
	UpdateArticle(ctx context.Context, id uint, patch ArticlePatch) (*models.Article, error)
	DeleteArticle(ctx context.Context, id uint) error
	GetPublishedArticleRefs(ctx context.Context, limit int) ([]ArticleRef, error)

	GetTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error)
	CreateTag(ctx context.Context, t *models.Tag) (*models.Tag, error)
	EnsureTag(ctx context.Context, name string) (*models.Tag, error)
	AddTagToArticle(ctx context.Context, articleID, tagID uint) error
	GetArticleTags(ctx context.Context, articleID uint) ([]models.Tag, error)
	GetArticlesByTag(ctx context.Context, tagID uint, limit int) ([]models.Article, error)
	GetArticlesByTagSlug(ctx context.Context, slug string, limit int) ([]models.Article, error)

	Ping(ctx context.Context) error
}

// UserPatch lists the user columns that may change after creation.
type UserPatch struct {
	Password *string
	Email    *string
	FullName *string
	IsAdmin  *bool
}

// ArticleRef is the slug and last change of a published article.
type ArticleRef struct {
	Slug      string
	UpdatedAt time.Time
}

// CategoryPatch lists mutable category columns.
type CategoryPatch struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	BgColor     *string `json:"bgColor"`
}

// NewArticle is the input of CreateArticle. Counters are not part of it:
// every article starts with zero views and shares.
type NewArticle struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	FeaturedImage string
	PublishDate   *time.Time
	AuthorID      *uint
	CategoryID    *uint
	IsPublished   *bool
	IsFeatured    bool
	ContentType   models.ContentType
	ReadTime      int
}

// ArticlePatch lists mutable article columns. Views and shares are only
// changed through the increment operations.
type ArticlePatch struct {
	Title         *string             `json:"title"`
	Slug          *string             `json:"slug"`
	Excerpt       *string             `json:"excerpt"`
	Content       *string             `json:"content"`
	FeaturedImage *string             `json:"featuredImage"`
	PublishDate   *time.Time          `json:"publishDate"`
	CategoryID    *uint               `json:"categoryId"`
	IsPublished   *bool               `json:"isPublished"`
	IsFeatured    *bool               `json:"isFeatured"`
	ContentType   *models.ContentType `json:"contentType"`
	ReadTime      *int                `json:"readTime"`
}

// DatabaseStorage implements Storage on gorm.
type DatabaseStorage struct {
	db *gorm.DB
}

var _ Storage = (*DatabaseStorage)(nil)

// New wraps an open gorm connection.
func New(db *gorm.DB) *DatabaseStorage {
	return &DatabaseStorage{db: db}
}

// DB exposes the underlying connection for health checks and migrations.
func (s *DatabaseStorage) DB() *gorm.DB { return s.db }

func (s *DatabaseStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return dbErr("resolve sql db", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return dbErr("ping", err)
	}
	return nil
}

func (s *DatabaseStorage) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// first loads a single row into dest, mapping a miss to (false, nil).
func first(q *gorm.DB, dest interface{}) (bool, error) {
	err := q.Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func dbErr(op string, err error) error {
	return apperr.Internal(fmt.Errorf("%s: %w", op, err))
}

// writeErr maps a write failure, turning unique-key violations into conflicts.
func writeErr(op, conflictMsg string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict(conflictMsg)
	}
	return dbErr(op, err)
}
