package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/internal/models"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
	"github.com/noah-isme/coverage-api/pkg/response"
)

type absenceService interface {
	Create(ctx context.Context, scope models.SchoolScope, req dto.CreateAbsenceRequest) (*dto.AbsenceDetail, error)
	Get(ctx context.Context, scope models.SchoolScope, id string) (*dto.AbsenceDetail, error)
	Activate(ctx context.Context, scope models.SchoolScope, id string) (*dto.AbsenceDetail, error)
	Cancel(ctx context.Context, scope models.SchoolScope, id string) (*dto.AbsenceDetail, error)
}

// AbsenceHandler exposes absence lifecycle endpoints.
type AbsenceHandler struct {
	service absenceService
}

// NewAbsenceHandler builds a new handler.
func NewAbsenceHandler(service absenceService) *AbsenceHandler {
	return &AbsenceHandler{service: service}
}

// Create godoc
// @Summary Create a draft absence
// @Tags Absences
// @Accept json
// @Produce json
// @Param payload body dto.CreateAbsenceRequest true "Absence payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /absences [post]
func (h *AbsenceHandler) Create(c *gin.Context) {
	var req dto.CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid absence payload"))
		return
	}
	detail, err := h.service.Create(c.Request.Context(), schoolScope(c, req.SchoolID), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Get godoc
// @Summary Get an absence with its shifts
// @Tags Absences
// @Produce json
// @Param id path string true "Absence ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /absences/{id} [get]
func (h *AbsenceHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), schoolScope(c, ""), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Activate godoc
// @Summary Activate a draft absence and open its coverage request
// @Tags Absences
// @Produce json
// @Param id path string true "Absence ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /absences/{id}/activate [post]
func (h *AbsenceHandler) Activate(c *gin.Context) {
	detail, err := h.service.Activate(c.Request.Context(), schoolScope(c, ""), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Cancel godoc
// @Summary Cancel an absence and its coverage
// @Tags Absences
// @Produce json
// @Param id path string true "Absence ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /absences/{id}/cancel [post]
func (h *AbsenceHandler) Cancel(c *gin.Context) {
	detail, err := h.service.Cancel(c.Request.Context(), schoolScope(c, ""), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}
