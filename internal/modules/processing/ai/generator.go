package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/modules/processing/markdown"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"go.uber.org/zap"
)

const generateFailedMessage = "Failed to generate content"

// Generator turns prompts into normalised article fields. It never touches
// storage.
type Generator struct {
	llm Completer
	log *zap.Logger
}

func NewGenerator(llm Completer, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{llm: llm, log: log.Named("generator")}
}

type articleOutput struct {
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	ImageQuery string   `json:"imageQuery"`
}

type listicleOutput struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Intro   string `json:"intro"`
	Items   []struct {
		Heading string `json:"heading"`
		Body    string `json:"body"`
	} `json:"items"`
	Outro      string   `json:"outro"`
	Tags       []string `json:"tags"`
	ImageQuery string   `json:"imageQuery"`
}

func (g *Generator) Content(ctx context.Context, req ContentRequest) (*Generated, error) {
	var out articleOutput
	systemPrompt, prompt := buildArticlePrompt(req)
	if err := g.complete(ctx, systemPrompt, prompt, &out); err != nil {
		return nil, err
	}
	return g.normalize(out, req.Topic, req.Category, models.ContentTypeArticle)
}

// Listicle asks for items separately and numbers them itself so the
// headings stay consistent whatever the model returns.
func (g *Generator) Listicle(ctx context.Context, req ListicleRequest) (*Generated, error) {
	var out listicleOutput
	systemPrompt, prompt := buildListiclePrompt(req)
	if err := g.complete(ctx, systemPrompt, prompt, &out); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, apperr.Upstream(generateFailedMessage, fmt.Errorf("listicle has no items"))
	}

	var md strings.Builder
	if intro := strings.TrimSpace(out.Intro); intro != "" {
		md.WriteString(intro)
		md.WriteString("\n\n")
	}
	n := 0
	for _, item := range out.Items {
		heading := strings.TrimSpace(item.Heading)
		if heading == "" {
			continue
		}
		n++
		fmt.Fprintf(&md, "## %d. %s\n\n", n, heading)
		if body := strings.TrimSpace(item.Body); body != "" {
			md.WriteString(body)
			md.WriteString("\n\n")
		}
	}
	if outro := strings.TrimSpace(out.Outro); outro != "" {
		md.WriteString(outro)
	}

	return g.normalize(articleOutput{
		Title:      out.Title,
		Excerpt:    out.Excerpt,
		Content:    md.String(),
		Tags:       out.Tags,
		ImageQuery: out.ImageQuery,
	}, req.Topic, req.Category, models.ContentTypeListicle)
}

// Ideas returns up to count distinct topic suggestions for category.
func (g *Generator) Ideas(ctx context.Context, category string, count int) ([]string, error) {
	count = clampCount(count, defaultIdeaCount, maxIdeaCount)
	var out ideasResponse
	systemPrompt, prompt := buildIdeasPrompt(category, count)
	if err := g.complete(ctx, systemPrompt, prompt, &out); err != nil {
		return nil, err
	}
	ideas := dedupeStrings(out.Ideas, count)
	if len(ideas) == 0 {
		return nil, apperr.Upstream(generateFailedMessage, fmt.Errorf("no ideas returned"))
	}
	return ideas, nil
}

// RewriteNews turns a scraped story into an original news article.
func (g *Generator) RewriteNews(ctx context.Context, in NewsInput) (*Generated, error) {
	var out articleOutput
	systemPrompt, prompt := buildNewsPrompt(in)
	if err := g.complete(ctx, systemPrompt, prompt, &out); err != nil {
		return nil, err
	}
	return g.normalize(out, in.Title, "", models.ContentTypeNews)
}

func (g *Generator) complete(ctx context.Context, systemPrompt, prompt string, out interface{}) error {
	raw, err := g.llm.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		g.log.Warn("completion failed", zap.Error(err))
		return apperr.Upstream(generateFailedMessage, err)
	}
	if err := unmarshalAIJSON(raw, out); err != nil {
		g.log.Warn("unparseable completion", zap.String("raw", truncateText(raw, 200)))
		return apperr.Upstream(generateFailedMessage, err)
	}
	return nil
}

func (g *Generator) normalize(out articleOutput, topic, category string, contentType models.ContentType) (*Generated, error) {
	title := strings.TrimSpace(out.Title)
	content := markdown.RenderMarkdownContent(out.Content)
	if title == "" || content == "" {
		return nil, apperr.Upstream(generateFailedMessage, fmt.Errorf("missing title or content"))
	}

	excerpt := strings.TrimSpace(out.Excerpt)
	if excerpt == "" {
		excerpt = markdown.Excerpt(content, 0)
	}
	query := strings.TrimSpace(out.ImageQuery)
	if query == "" {
		query = strings.TrimSpace(topic)
	}
	return &Generated{
		Title:       title,
		Excerpt:     excerpt,
		Content:     content,
		Tags:        dedupeStrings(out.Tags, maxTags),
		ImageQuery:  query,
		Category:    strings.TrimSpace(category),
		ContentType: contentType,
	}, nil
}

// dedupeStrings trims, drops empties and case-insensitive repeats, and keeps
// at most limit entries.
func dedupeStrings(in []string, limit int) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
