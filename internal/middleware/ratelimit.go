package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tourlog/internal/metrics"
	"tourlog/internal/ratelimit"
	"tourlog/pkg/response"
)

// RateLimitByIP rejects clients that exceed the limiter with 429.
// Limiter failures let the request through.
func RateLimitByIP(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.FullPath()+"|"+c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			metrics.RateLimitedTotal.Inc()
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Error(http.StatusTooManyRequests, "Too many requests, try again later"))
			return
		}
		c.Next()
	}
}
