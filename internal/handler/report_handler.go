package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tourlog/internal/middleware"
	"tourlog/internal/model"
	"tourlog/internal/service"
	"tourlog/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup, authn gin.HandlerFunc) {
	reports := router.Group("/reports", authn, middleware.RequirePermission(model.PermReports))
	{
		reports.GET("/summary", h.GetSummary)
		reports.GET("/export", h.ExportRecords)
	}
	router.GET("/dashboard", authn, middleware.RequirePermission(model.PermDashboard), h.GetDashboard)
}

// GetSummary counts records grouped by one column
// @Summary      Grouped record counts
// @Description  Accepts the same filter parameters as /api/records/search
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        groupBy  query     string  false  "governorate, rank, office, policeStation, actionType or month"
// @Success      200      {object}  response.Response{data=service.SummaryResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	var q service.RecordQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid search filter"))
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), c.Query("groupBy"), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// ExportRecords downloads matching records as a workbook
// @Summary      Export records
// @Description  Writes an .xlsx with the import headers so the file can be re-imported
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/reports/export [get]
func (h *ReportHandler) ExportRecords(c *gin.Context) {
	var q service.RecordQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid search filter"))
		return
	}

	var buf bytes.Buffer
	if err := h.reportService.Export(c.Request.Context(), q, &buf); err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("records-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetDashboard returns headline counts for the landing page
// @Summary      Dashboard statistics
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.DashboardStats}
// @Failure      403  {object}  response.Response
// @Router       /api/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	stats, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
