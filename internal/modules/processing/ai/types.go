package ai

import "github.com/yourbuzzfeed/core/internal/models"

// ContentRequest asks for one freeform article.
type ContentRequest struct {
	Topic    string
	Category string
	Tone     string
}

// ListicleRequest asks for a numbered list article with Items entries.
type ListicleRequest struct {
	Topic    string
	Category string
	Items    int
}

// NewsInput is a scraped story handed to the rewriter.
type NewsInput struct {
	Title  string
	Source string
	URL    string
	Text   string
}

// Generated is LLM output normalised into article fields. Content is HTML.
type Generated struct {
	Title         string             `json:"title"`
	Excerpt       string             `json:"excerpt"`
	Content       string             `json:"content"`
	Tags          []string           `json:"tags"`
	ImageQuery    string             `json:"imageQuery"`
	Category      string             `json:"category,omitempty"`
	ContentType   models.ContentType `json:"contentType"`
	FeaturedImage string             `json:"featuredImage,omitempty"`
}

type generateContentDTO struct {
	Topic    string `json:"topic"    binding:"required,max=300"`
	Category string `json:"category" binding:"max=100"`
	Tone     string `json:"tone"     binding:"max=100"`
}

type generateIdeasDTO struct {
	Category string `json:"category" binding:"required,max=100"`
	Count    int    `json:"count"    binding:"gte=0,lte=20"`
}

type generateListicleDTO struct {
	Topic    string `json:"topic"    binding:"required,max=300"`
	Category string `json:"category" binding:"max=100"`
	Items    int    `json:"items"    binding:"gte=0,lte=25"`
}

// BatchTopic is one entry of a batch generation request. Type is "article"
// (default) or "listicle".
type BatchTopic struct {
	Topic    string             `json:"topic"    binding:"required,max=300"`
	Category string             `json:"category" binding:"max=100"`
	Type     models.ContentType `json:"type"     binding:"omitempty,oneof=article listicle"`
}

type batchGenerateDTO struct {
	Items    []BatchTopic `json:"items"    binding:"max=20,dive"`
	Category string       `json:"category" binding:"max=100"`
	Count    int          `json:"count"    binding:"gte=0,lte=20"`
}

// BatchItem is the per-topic outcome of a batch generation.
type BatchItem struct {
	Topic     string `json:"topic"`
	Success   bool   `json:"success"`
	ArticleID uint   `json:"articleId,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Error     string `json:"error,omitempty"`
}

type ideasResponse struct {
	Ideas []string `json:"ideas"`
}
