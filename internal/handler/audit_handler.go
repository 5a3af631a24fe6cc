package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourlog/internal/middleware"
	"tourlog/internal/model"
	"tourlog/internal/repository"
	"tourlog/internal/service"
	"tourlog/pkg/pagination"
	"tourlog/pkg/response"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup, authn gin.HandlerFunc) {
	router.GET("/audit-logs", authn, middleware.RequirePermission(model.PermAuditLog), h.GetAuditLogs)
}

// GetAuditLogs handles GET /audit-logs
// @Summary      Get audit logs
// @Description  Returns a paginated audit trail, newest first
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        action    query     string  false  "Action, e.g. CREATE_RECORD"
// @Param        entityId  query     string  false  "Entity ID"
// @Success      200       {object}  response.Response{data=response.Page}
// @Failure      403       {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.AuditFilter{
		Action:   c.Query("action"),
		EntityID: c.Query("entityId"),
	}

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, logs, params.Page, params.Limit, total))
}
