package models

// Tag is a free-form label attached to articles through ArticleTag.
type Tag struct {
	ID   uint   `json:"id"   gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:191;not null"`
	Slug string `json:"slug" gorm:"size:191;uniqueIndex;not null"`
}

func (Tag) TableName() string { return "tags" }

// ArticleTag links an article to a tag. A pair appears at most once.
type ArticleTag struct {
	ID        uint `json:"id"        gorm:"primaryKey;autoIncrement"`
	ArticleID uint `json:"articleId" gorm:"not null;uniqueIndex:idx_article_tag"`
	TagID     uint `json:"tagId"     gorm:"not null;uniqueIndex:idx_article_tag;index"`
}

func (ArticleTag) TableName() string { return "article_tags" }
