package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownContent(t *testing.T) {
	out := RenderMarkdownContent("## 1. First\n\nSome **bold** text.")
	assert.Contains(t, out, "<h2>1. First</h2>")
	assert.Contains(t, out, "<strong>bold</strong>")

	assert.Equal(t, "", RenderMarkdownContent("   "))
	assert.Equal(t, "<p>already html</p>", RenderMarkdownContent("  <p>already html</p>\n"))
}

func TestRenderMarkdownContentStripsScripts(t *testing.T) {
	out := RenderMarkdownContent(`<p>Hello</p><script>alert(1)</script><img src="https://img.test/a.jpg" onerror="alert(2)"><a href="javascript:alert(3)">x</a>`)
	assert.Contains(t, out, "<p>Hello</p>")
	assert.Contains(t, out, `src="https://img.test/a.jpg"`)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "javascript:")

	md := RenderMarkdownContent("Intro\n\n<script>alert(1)</script>\n\n[link](javascript:alert(1))")
	assert.Contains(t, md, "<p>Intro</p>")
	assert.NotContains(t, md, "<script")
	assert.NotContains(t, md, "javascript:")
}

func TestPlainText(t *testing.T) {
	got := PlainText(`<h2>Title</h2><p>Hello <em>world</em></p><script>var x = 1;</script><style>p{}</style>`)
	assert.Equal(t, "Title Hello world", got)
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, ReadTime(""))
	assert.Equal(t, 1, ReadTime("<p>short</p>"))

	words := strings.Repeat("word ", 200)
	assert.Equal(t, 1, ReadTime("<p>"+words+"</p>"))
	assert.Equal(t, 2, ReadTime("<p>"+words+"extra</p>"))
	assert.Equal(t, 5, ReadTime("<p>"+strings.Repeat("word ", 1000)+"</p>"))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Short text", Excerpt("<p>Short text</p>", 0))

	long := "<p>" + strings.Repeat("lorem ipsum ", 40) + "</p>"
	ex := Excerpt(long, 50)
	assert.True(t, strings.HasSuffix(ex, "..."))
	assert.LessOrEqual(t, len([]rune(ex)), 53)
}
