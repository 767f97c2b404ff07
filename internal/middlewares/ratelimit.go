package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	logger "github.com/27100340/chat-app-backend-v1/middleware/log"
)

const rateLimitWindow = time.Minute

// RateLimitMiddleware enforces a fixed-window request limit per client
// IP, counted in redis so all nodes share the budget. Fails open: when
// redis is unreachable requests pass, throttling is not worth an outage.
func RateLimitMiddleware(client *redis.Client, limit int, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		window := time.Now().Unix() / int64(rateLimitWindow.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), window)

		pipe := client.Pipeline()
		count := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, rateLimitWindow+time.Second)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}

		if count.Val() > int64(limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
