package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tourlog/pkg/response"
)

// Logging writes one structured event per request
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event = event.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("ip", c.ClientIP())

		if reqID := GetRequestID(c); reqID != "" {
			event = event.Str("request_id", reqID)
		}
		if ua := c.Request.UserAgent(); ua != "" {
			event = event.Str("user_agent", ua)
		}
		if claims := ClaimsFrom(c); claims != nil {
			event = event.Str("user", claims.Username)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.Msg("http_request")
	}
}

// Recover turns a panic into a sanitized 500
func Recover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("request_id", GetRequestID(c)).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "An unexpected error occurred"))
			}
		}()
		c.Next()
	}
}
