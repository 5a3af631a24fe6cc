package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tourlog/internal/apperr"
	"tourlog/internal/middleware"
	"tourlog/internal/service"
	"tourlog/pkg/response"
)

// respondError writes err with the status its kind maps to. Unclassified
// errors are logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	ae := apperr.As(err)
	if ae == nil {
		ae = apperr.Internal(err)
	}
	status := apperr.HTTPStatus(ae)

	if status >= http.StatusInternalServerError {
		cause := ae.Cause
		if cause == nil {
			cause = errors.New(ae.Message)
		}
		log.Error().Err(cause).
			Str("request_id", middleware.GetRequestID(c)).
			Str("path", c.FullPath()).
			Msg("request failed")
		_ = c.Error(cause)
	}

	if len(ae.Details) > 0 {
		c.JSON(status, response.ValidationError(status, ae.Message, ae.Details))
		return
	}
	c.JSON(status, response.Error(status, ae.Message))
}

// bindJSON decodes the body into req, answering 400 itself on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return false
	}
	return true
}

func currentActor(c *gin.Context) service.Actor {
	return service.ActorFromClaims(middleware.ClaimsFrom(c))
}
