package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tourlog/internal/apperr"
	"tourlog/internal/auth"
	"tourlog/internal/model"
	"tourlog/pkg/response"
)

const claimsKey = "claims"

// Authenticate requires a valid "Authorization: Bearer <token>" header.
// A missing header is 401; a token that fails validation for any reason is 403.
func Authenticate(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		tokenString = strings.TrimSpace(tokenString)
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Invalid or expired token"))
			return
		}

		c.Set(claimsKey, claims)
		c.Set("userID", claims.UserID)
		c.Set("userRole", string(claims.Role))
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Authenticate, or nil
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// RequireRole admits only the given role. Must run after Authenticate.
func RequireRole(role model.Role) gin.HandlerFunc {
	return RequireAnyRole(role)
}

// RequireAnyRole admits any of the given roles. Must run after Authenticate.
func RequireAnyRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		deny(c, auth.RequireAnyRole(ClaimsFrom(c), roles...))
	}
}

// RequirePermission admits admins and holders of perm. Must run after Authenticate.
func RequirePermission(perm model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		deny(c, auth.RequirePermission(ClaimsFrom(c), perm))
	}
}

func deny(c *gin.Context, err error) {
	if err == nil {
		c.Next()
		return
	}
	status := apperr.HTTPStatus(err)
	c.AbortWithStatusJSON(status, response.Error(status, err.Error()))
}
