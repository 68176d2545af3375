package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Query holds parsed pagination parameters.
type Query struct {
	Limit  int
	Offset int
}

// FromContext reads limit and offset from the query string. Missing or
// malformed values fall back to defaultLimit and zero.
func FromContext(c *gin.Context, defaultLimit int) Query {
	return Query{
		Limit:  Limit(c, defaultLimit),
		Offset: Offset(c),
	}
}

// Limit reads the limit query parameter, clamped to [1, MaxLimit].
func Limit(c *gin.Context, def int) int {
	if def <= 0 {
		def = DefaultLimit
	}
	limit := parseIntOr(c.Query("limit"), def)
	if limit < 1 {
		limit = def
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit
}

// Offset reads the offset query parameter; negatives become zero.
func Offset(c *gin.Context) int {
	offset := parseIntOr(c.Query("offset"), 0)
	if offset < 0 {
		offset = 0
	}
	return offset
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
