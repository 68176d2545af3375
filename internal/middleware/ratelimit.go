package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/pkg/redis"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
	"go.uber.org/zap"
)

// RateLimit allows limit requests per client IP within each fixed window.
// A nil client disables limiting. Redis failures let the request through.
func RateLimit(rc *redis.Client, name string, limit int64, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc == nil || limit <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		bucket := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("ybf:rate_limit:%s:%s:%d", name, ip, bucket)

		count, err := rc.IncrWindow(c.Request.Context(), key, window+time.Second)
		if err != nil {
			if log != nil {
				log.Warn("rate limit unavailable", zap.Error(err))
			}
			c.Next()
			return
		}

		if count > limit {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
