package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourlog/internal/middleware"
	"tourlog/internal/service"
	"tourlog/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes binds /auth endpoints. limit guards the credential endpoints.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, authn, limit gin.HandlerFunc) {
	group := router.Group("/auth")
	{
		group.POST("/register", limit, h.Register)
		group.POST("/login", limit, h.Login)
		group.GET("/me", authn, h.Me)
	}
}

// Register creates an identity and signs it in
// @Summary      Register
// @Description  Creates an identity with the lowest-privilege role. The very first identity keeps the requested role.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterRequest  true  "Registration"
// @Success      201      {object}  response.Response{data=service.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// Login verifies credentials and returns a session token
// @Summary      Login
// @Description  Verifies username and password, returning the identity and a 7-day token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Me echoes the claims of the presented token
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.ClaimsResponse}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, service.ClaimsView(middleware.ClaimsFrom(c))))
}
