package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourlog/internal/auth"
	"tourlog/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: "middleware-test-secret"})
	require.NoError(t, err)
	return tokens
}

func issue(t *testing.T, tokens *auth.TokenService, role model.Role, perms ...model.Permission) string {
	t.Helper()
	token, err := tokens.Issue(&model.User{ID: uuid.New(), Username: "u", DisplayName: "U", Role: role, Permissions: perms})
	require.NoError(t, err)
	return token
}

func newRouter(tokens *auth.TokenService, guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Authenticate(tokens)}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, ClaimsFrom(c).Username)
	})
	r.GET("/protected", handlers...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	tokens := newTokens(t)
	other, err := auth.NewTokenService(auth.TokenConfig{Secret: "someone-else"})
	require.NoError(t, err)
	r := newRouter(tokens)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong_scheme", "Basic abc", http.StatusUnauthorized},
		{"bearer_without_token", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", http.StatusForbidden},
		{"foreign_key", "Bearer " + issue(t, other, model.RoleAdmin), http.StatusForbidden},
		{"valid", "Bearer " + issue(t, tokens, model.RoleUser), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(r, tt.header).Code)
		})
	}
}

func TestRequireAnyRole(t *testing.T) {
	tokens := newTokens(t)
	r := newRouter(tokens, RequireAnyRole(model.RoleAdmin, model.RoleSupervisor))

	assert.Equal(t, http.StatusOK, do(r, "Bearer "+issue(t, tokens, model.RoleSupervisor)).Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer "+issue(t, tokens, model.RoleAdmin)).Code)

	w := do(r, "Bearer "+issue(t, tokens, model.RoleUser, model.PermSettingsStations))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"status":"error","status_code":403,"message":"Access denied: insufficient role"}`, w.Body.String())
}

func TestRequirePermission(t *testing.T) {
	tokens := newTokens(t)
	r := newRouter(tokens, RequirePermission(model.PermReports))

	assert.Equal(t, http.StatusOK, do(r, "Bearer "+issue(t, tokens, model.RoleAdmin)).Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer "+issue(t, tokens, model.RoleEmployee, model.PermReports)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+issue(t, tokens, model.RoleManager, model.PermSearch)).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 26)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

type stubLimiter struct {
	allowed bool
	err     error
}

func (s stubLimiter) Allow(context.Context, string) (bool, error) { return s.allowed, s.err }

func TestRateLimitByIP(t *testing.T) {
	tests := []struct {
		name    string
		limiter stubLimiter
		want    int
	}{
		{"allowed", stubLimiter{allowed: true}, http.StatusOK},
		{"denied", stubLimiter{allowed: false}, http.StatusTooManyRequests},
		{"limiter_down_fails_open", stubLimiter{err: errors.New("redis down")}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/login", RateLimitByIP(tt.limiter), func(c *gin.Context) { c.Status(http.StatusOK) })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRecover(t *testing.T) {
	r := gin.New()
	r.Use(Recover())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}
