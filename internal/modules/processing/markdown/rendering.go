package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithXHTML(),
	),
)

// articlePolicy keeps formatting, links and images and strips scripts,
// event handlers and unsafe URL schemes.
var articlePolicy = bluemonday.UGCPolicy()

// RenderMarkdownContent turns generated Markdown into article HTML. Input that
// already looks like HTML skips Markdown rendering. Either way the result is
// sanitized.
func RenderMarkdownContent(markdownText string) string {
	return SanitizeHTML(renderMarkdown(markdownText))
}

// SanitizeHTML strips anything not allowed in article bodies.
func SanitizeHTML(s string) string {
	return strings.TrimSpace(articlePolicy.Sanitize(s))
}

func renderMarkdown(markdownText string) string {
	text := strings.TrimSpace(markdownText)
	if text == "" || LooksLikeHTML(text) {
		return text
	}

	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &out); err != nil {
		return "<p>" + template.HTMLEscapeString(text) + "</p>"
	}
	return out.String()
}

// LooksLikeHTML reports whether s starts with a block-level tag.
func LooksLikeHTML(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "<") {
		return false
	}
	lower := strings.ToLower(s)
	for _, tag := range []string{"<p", "<h1", "<h2", "<h3", "<div", "<ol", "<ul", "<article", "<section", "<figure", "<blockquote"} {
		if strings.HasPrefix(lower, tag) {
			return true
		}
	}
	return false
}
