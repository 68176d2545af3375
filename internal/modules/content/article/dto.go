package article

import (
	"time"

	"github.com/yourbuzzfeed/core/internal/models"
)

type CreateArticleDTO struct {
	Title         string             `json:"title"         binding:"required,max=300"`
	Slug          string             `json:"slug"          binding:"max=320"`
	Excerpt       string             `json:"excerpt"`
	Content       string             `json:"content"       binding:"required"`
	FeaturedImage string             `json:"featuredImage"`
	PublishDate   *time.Time         `json:"publishDate"`
	CategoryID    *uint              `json:"categoryId"`
	IsPublished   *bool              `json:"isPublished"`
	IsFeatured    bool               `json:"isFeatured"`
	ContentType   models.ContentType `json:"contentType"`
	ReadTime      int                `json:"readTime"      binding:"gte=0"`
	Tags          []string           `json:"tags"`
}

type BulkDeleteDTO struct {
	IDs []uint `json:"ids" binding:"required,min=1,max=100"`
}

// Detail is an article with its category and tags resolved.
type Detail struct {
	models.Article
	Category *models.Category `json:"category"`
	Tags     []models.Tag     `json:"tags"`
}

// BulkItem is the per-id outcome of a bulk delete.
type BulkItem struct {
	ID      uint   `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type shareResponse struct {
	ID     uint  `json:"id"`
	Shares int64 `json:"shares"`
}
