package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ctxFor(rawQuery string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/articles?"+rawQuery, nil)
	return c
}

func TestFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		want  Query
	}{
		{"", Query{Limit: 20, Offset: 0}},
		{"limit=5&offset=10", Query{Limit: 5, Offset: 10}},
		{"limit=abc&offset=-3", Query{Limit: 20, Offset: 0}},
		{"limit=0", Query{Limit: 20, Offset: 0}},
		{"limit=1000", Query{Limit: MaxLimit, Offset: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.want, FromContext(ctxFor(tc.query), DefaultLimit))
		})
	}
}

func TestLimitUsesCallerDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	assert.Equal(t, 5, Limit(ctxFor(""), 5))
	assert.Equal(t, 3, Limit(ctxFor("limit=3"), 5))
}
