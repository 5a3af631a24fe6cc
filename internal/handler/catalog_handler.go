package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourlog/internal/model"
	"tourlog/pkg/response"
)

type CatalogResponse struct {
	Roles       []model.Role          `json:"roles"`
	Permissions []model.PermissionDef `json:"permissions"`
}

// GetCatalog lists the closed role and permission sets
// @Summary      Role and permission catalog
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=handler.CatalogResponse}
// @Router       /api/catalog [get]
func GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, CatalogResponse{
		Roles:       model.Roles,
		Permissions: model.Permissions,
	}))
}
