package testutils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/password"
	"gorm.io/gorm"
)

// CreateTestUser creates a user with a unique username/email and the given
// plaintext password hashed the production way.
func CreateTestUser(db *gorm.DB, plain string, opts ...UserOption) *models.User {
	uniqueID := uuid.New().String()[:8]
	hash, err := password.Hash(plain)
	if err != nil {
		panic(fmt.Sprintf("Failed to hash test password: %v", err))
	}
	u := &models.User{
		Username: "test_user_" + uniqueID,
		Password: hash,
		Email:    "test_" + uniqueID + "@example.com",
		FullName: "Test User",
	}
	for _, opt := range opts {
		opt(u)
	}
	if err := db.Create(u).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}
	return u
}

// UserOption configures a test user.
type UserOption func(*models.User)

func WithUsername(username string) UserOption {
	return func(u *models.User) { u.Username = username }
}

func AsAdmin() UserOption {
	return func(u *models.User) { u.IsAdmin = true }
}

// CreateTestCategory creates a category with a unique slug.
func CreateTestCategory(db *gorm.DB, opts ...CategoryOption) *models.Category {
	uniqueID := uuid.New().String()[:8]
	c := &models.Category{
		Name:    "Category " + uniqueID,
		Slug:    "category-" + uniqueID,
		Color:   "#e11d48",
		BgColor: "#ffe4e6",
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := db.Create(c).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test category: %v", err))
	}
	return c
}

// CategoryOption configures a test category.
type CategoryOption func(*models.Category)

func WithCategorySlug(slug string) CategoryOption {
	return func(c *models.Category) { c.Slug = slug }
}

// CreateTestArticle creates a published article with a unique slug.
func CreateTestArticle(db *gorm.DB, opts ...ArticleOption) *models.Article {
	uniqueID := uuid.New().String()[:8]
	a := &models.Article{
		Title:       "Article " + uniqueID,
		Slug:        "article-" + uniqueID,
		Excerpt:     "An excerpt",
		Content:     "<p>Some content</p>",
		PublishDate: time.Now(),
		IsPublished: true,
		ContentType: models.ContentTypeArticle,
		ReadTime:    1,
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := db.Create(a).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test article: %v", err))
	}
	return a
}

// ArticleOption configures a test article.
type ArticleOption func(*models.Article)

func WithSlug(slug string) ArticleOption {
	return func(a *models.Article) { a.Slug = slug }
}

func WithCategory(id uint) ArticleOption {
	return func(a *models.Article) { a.CategoryID = &id }
}

func WithPublishDate(t time.Time) ArticleOption {
	return func(a *models.Article) { a.PublishDate = t }
}

func WithViews(n int64) ArticleOption {
	return func(a *models.Article) { a.Views = n }
}

func Featured() ArticleOption {
	return func(a *models.Article) { a.IsFeatured = true }
}

// CreateTestTag creates a tag and links it to the given articles.
func CreateTestTag(db *gorm.DB, name string, articleIDs ...uint) *models.Tag {
	tag := &models.Tag{Name: name, Slug: "tag-" + uuid.New().String()[:8]}
	if err := db.Create(tag).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test tag: %v", err))
	}
	for _, id := range articleIDs {
		if err := db.Create(&models.ArticleTag{ArticleID: id, TagID: tag.ID}).Error; err != nil {
			panic(fmt.Sprintf("Failed to link test tag: %v", err))
		}
	}
	return tag
}
