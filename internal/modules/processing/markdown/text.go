package markdown

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	wordsPerMinute   = 200
	defaultExcerptLn = 160
)

// PlainText strips tags from an HTML fragment, dropping script and style bodies.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			name, _ := z.TagName()
			if isSkippedTag(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if isSkippedTag(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// WordCount counts whitespace-separated words in the text of an HTML fragment.
func WordCount(fragment string) int {
	return len(strings.Fields(PlainText(fragment)))
}

// ReadTime estimates reading minutes at 200 words per minute, never below one.
func ReadTime(fragment string) int {
	minutes := int(math.Ceil(float64(WordCount(fragment)) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Excerpt returns the first n runes of the fragment's text, cut at a word
// boundary when possible. n <= 0 uses the default length.
func Excerpt(fragment string, n int) string {
	if n <= 0 {
		n = defaultExcerptLn
	}
	text := PlainText(fragment)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}

func isSkippedTag(name []byte) bool {
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
