package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourlog/internal/middleware"
	"tourlog/internal/model"
	"tourlog/internal/repository"
	"tourlog/internal/service"
	"tourlog/pkg/response"
)

// ReferenceHandler serves one lookup table. Reads need a token; writes need
// role admin or supervisor.
type ReferenceHandler[T repository.ReferenceEntry] struct {
	path    string
	service service.ReferenceService[T]
}

func NewStationHandler(svc service.StationService) *ReferenceHandler[model.PoliceStation] {
	return &ReferenceHandler[model.PoliceStation]{path: "/police-stations", service: svc}
}

func NewPortHandler(svc service.PortService) *ReferenceHandler[model.Port] {
	return &ReferenceHandler[model.Port]{path: "/ports", service: svc}
}

func (h *ReferenceHandler[T]) RegisterRoutes(router *gin.RouterGroup, authn gin.HandlerFunc) {
	group := router.Group(h.path, authn)
	group.GET("", h.List)

	editors := group.Group("", middleware.RequireAnyRole(model.RoleAdmin, model.RoleSupervisor))
	{
		editors.POST("", h.Create)
		editors.PUT("/:id", h.Update)
		editors.DELETE("/:id", h.Delete)
	}
}

// List returns every entry ordered by name
// @Summary      List reference entries
// @Tags         reference
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.PoliceStation}
// @Router       /api/police-stations [get]
// @Router       /api/ports [get]
func (h *ReferenceHandler[T]) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// Create adds an entry; names are unique
// @Summary      Create a reference entry
// @Tags         reference
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateReferenceRequest  true  "Entry"
// @Success      201      {object}  response.Response{data=model.PoliceStation}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/police-stations [post]
// @Router       /api/ports [post]
func (h *ReferenceHandler[T]) Create(c *gin.Context) {
	var req service.CreateReferenceRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.service.Create(c.Request.Context(), currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// Update renames an entry or changes its governorate
// @Summary      Update a reference entry
// @Tags         reference
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Entry ID"
// @Param        payload  body      service.UpdateReferenceRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.PoliceStation}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/police-stations/{id} [put]
// @Router       /api/ports/{id} [put]
func (h *ReferenceHandler[T]) Update(c *gin.Context) {
	var req service.UpdateReferenceRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.service.Update(c.Request.Context(), currentActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// Delete removes an entry. Records keep the name they were stored with.
// @Summary      Delete a reference entry
// @Tags         reference
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry ID"
// @Success      204
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/police-stations/{id} [delete]
// @Router       /api/ports/{id} [delete]
func (h *ReferenceHandler[T]) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
