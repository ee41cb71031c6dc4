package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/internal/middleware"
	"github.com/noah-isme/coverage-api/internal/models"
	"github.com/noah-isme/coverage-api/internal/service"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
	"github.com/noah-isme/coverage-api/pkg/response"
)

type coverageService interface {
	Summary(ctx context.Context, scope models.SchoolScope, absenceID string) (*dto.CoverageSummaryResponse, bool, error)
	UpdateRequestStatus(ctx context.Context, scope models.SchoolScope, id string, req dto.UpdateCoverageRequestStatusRequest) (*models.CoverageRequest, error)
	CancelShift(ctx context.Context, scope models.SchoolScope, shiftID string) (*models.CoverageRequestShift, error)
}

type coverageExporter interface {
	Export(ctx context.Context, scope models.SchoolScope, absenceID, format string) (*service.ExportFile, error)
}

// CoverageHandler exposes coverage summaries and coverage request lifecycle endpoints.
type CoverageHandler struct {
	service  coverageService
	exporter coverageExporter
}

// NewCoverageHandler builds a new handler.
func NewCoverageHandler(service coverageService, exporter coverageExporter) *CoverageHandler {
	return &CoverageHandler{service: service, exporter: exporter}
}

// Summary godoc
// @Summary Coverage summary and badges for an absence
// @Tags Coverage
// @Produce json
// @Param id path string true "Absence ID"
// @Param school_id query string false "School override"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /absences/{id}/coverage [get]
func (h *CoverageHandler) Summary(c *gin.Context) {
	summary, hit, err := h.service.Summary(c.Request.Context(), schoolScope(c, ""), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download the coverage report of an absence
// @Tags Coverage
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Absence ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /absences/{id}/coverage/export [get]
func (h *CoverageHandler) Export(c *gin.Context) {
	file, err := h.exporter.Export(c.Request.Context(), schoolScope(c, ""), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

// UpdateStatus godoc
// @Summary Change a coverage request status
// @Tags Coverage
// @Accept json
// @Produce json
// @Param id path string true "Coverage request ID"
// @Param payload body dto.UpdateCoverageRequestStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /coverage-requests/{id}/status [patch]
func (h *CoverageHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateCoverageRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	updated, err := h.service.UpdateRequestStatus(c.Request.Context(), schoolScope(c, req.SchoolID), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// CancelShift godoc
// @Summary Cancel one coverage shift
// @Tags Coverage
// @Produce json
// @Param shiftId path string true "Coverage shift ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /coverage-requests/shifts/{shiftId}/cancel [post]
func (h *CoverageHandler) CancelShift(c *gin.Context) {
	shift, err := h.service.CancelShift(c.Request.Context(), schoolScope(c, ""), c.Param("shiftId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shift, nil)
}
