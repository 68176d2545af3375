package models

import "time"

// ContentType distinguishes regular articles, numbered listicles and rewritten news.
type ContentType string

const (
	ContentTypeArticle  ContentType = "article"
	ContentTypeListicle ContentType = "listicle"
	ContentTypeNews     ContentType = "news"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeArticle, ContentTypeListicle, ContentTypeNews:
		return true
	}
	return false
}

// Article is a published (or draft) piece of content. AuthorID and CategoryID
// are weak references; the rows they point at may be gone.
type Article struct {
	Base
	Title         string      `json:"title"         gorm:"size:512;not null"`
	Slug          string      `json:"slug"          gorm:"size:191;uniqueIndex;not null"`
	Excerpt       string      `json:"excerpt"       gorm:"type:text"`
	Content       string      `json:"content"       gorm:"type:text;not null"`
	FeaturedImage string      `json:"featuredImage" gorm:"size:1024"`
	PublishDate   time.Time   `json:"publishDate"   gorm:"index;not null"`
	AuthorID      *uint       `json:"authorId"`
	CategoryID    *uint       `json:"categoryId"    gorm:"index"`
	IsPublished   bool        `json:"isPublished"   gorm:"not null"`
	IsFeatured    bool        `json:"isFeatured"    gorm:"not null;index"`
	ContentType   ContentType `json:"contentType"   gorm:"size:32;not null"`
	Views         int64       `json:"views"         gorm:"not null;default:0;index"`
	Shares        int64       `json:"shares"        gorm:"not null;default:0"`
	ReadTime      int         `json:"readTime"      gorm:"not null"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func (Article) TableName() string { return "articles" }
