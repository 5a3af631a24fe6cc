package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tourlog/internal/importer"
	"tourlog/internal/service"
	"tourlog/pkg/response"
)

// ImportRequest carries rows the client mapped from its own spreadsheet parse
type ImportRequest struct {
	Records []importer.CandidateRecord `json:"records"`
}

type RecordHandler struct {
	recordService  service.RecordService
	importService  service.ImportService
	maxUploadBytes int64
}

func NewRecordHandler(recordService service.RecordService, importService service.ImportService, maxUploadBytes int64) *RecordHandler {
	return &RecordHandler{recordService: recordService, importService: importService, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes binds /records. Any authenticated identity may use them.
func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup, authn gin.HandlerFunc) {
	records := router.Group("/records", authn)
	{
		records.GET("", h.ListRecords)
		records.POST("", h.CreateRecord)
		records.GET("/search", h.SearchRecords)
		records.POST("/import", h.ImportRecords)
		records.GET("/:id", h.GetRecord)
		records.PUT("/:id", h.UpdateRecord)
		// TODO: gate record deletion by role once the product owner decides who may delete
		records.DELETE("/:id", h.DeleteRecord)
	}
}

// ListRecords returns every record, oldest first
// @Summary      List records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RecordResponse}
// @Router       /api/records [get]
func (h *RecordHandler) ListRecords(c *gin.Context) {
	records, err := h.recordService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, records))
}

// SearchRecords filters records by any combination of fields
// @Summary      Search records
// @Description  Exact match on governorate, rank, office, policeStation and recordNumber; substring match on names, outgoingNumber, militaryNumber and recordedNotes; inclusive tourDate range.
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        governorate     query     string  false  "Governorate"
// @Param        rank            query     string  false  "Rank"
// @Param        office          query     string  false  "Office"
// @Param        policeStation   query     string  false  "Police station"
// @Param        recordNumber    query     int     false  "Record number"
// @Param        firstName       query     string  false  "First name contains"
// @Param        outgoingNumber  query     string  false  "Outgoing number contains"
// @Param        startDate       query     string  false  "Tour date from (YYYY-MM-DD)"
// @Param        endDate         query     string  false  "Tour date to (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=[]service.RecordResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/records/search [get]
func (h *RecordHandler) SearchRecords(c *gin.Context) {
	var q service.RecordQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid search filter"))
		return
	}

	records, err := h.recordService.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, records))
}

// GetRecord returns one record
// @Summary      Get a record
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record ID"
// @Success      200  {object}  response.Response{data=service.RecordResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/records/{id} [get]
func (h *RecordHandler) GetRecord(c *gin.Context) {
	record, err := h.recordService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// CreateRecord stores a new record and assigns its record number
// @Summary      Create a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRecordRequest  true  "Record"
// @Success      201      {object}  response.Response{data=service.RecordResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/records [post]
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req service.CreateRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.recordService.Create(c.Request.Context(), currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

// UpdateRecord changes the supplied fields only
// @Summary      Update a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Record ID"
// @Param        payload  body      service.UpdateRecordRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.RecordResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/records/{id} [put]
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	var req service.UpdateRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.recordService.Update(c.Request.Context(), currentActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// DeleteRecord hard-deletes a record
// @Summary      Delete a record
// @Tags         records
// @Security     BearerAuth
// @Param        id   path      string  true  "Record ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /api/records/{id} [delete]
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	if err := h.recordService.Delete(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportRecords bulk-creates records; each row succeeds or fails on its own
// @Summary      Import records
// @Description  Accepts an .xlsx upload in field "file", or JSON {"records": [...]} already mapped by the client.
// @Tags         records
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        file     formData  file                   false  "Spreadsheet (.xlsx)"
// @Param        payload  body      handler.ImportRequest  false  "Mapped rows"
// @Success      200      {object}  response.Response{data=service.ImportResult}
// @Failure      400      {object}  response.Response
// @Router       /api/records/import [post]
func (h *RecordHandler) ImportRecords(c *gin.Context) {
	ctx := c.Request.Context()

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, response.Error(http.StatusRequestEntityTooLarge, "Uploaded file is too large"))
				return
			}
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing spreadsheet in form field 'file'"))
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()

		res, err := h.importService.ImportFile(ctx, currentActor(c), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
		return
	}

	var req ImportRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.importService.ImportBatch(ctx, currentActor(c), req.Records)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}
