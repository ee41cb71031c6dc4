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

type substituteResponseService interface {
	Respond(ctx context.Context, scope models.SchoolScope, req dto.SubstituteResponseRequest) (*dto.SubstituteResponseResult, error)
	GetContact(ctx context.Context, scope models.SchoolScope, coverageRequestID, substituteID string) (*dto.SubstituteContactDetail, error)
}

type subAssignmentService interface {
	Assign(ctx context.Context, scope models.SchoolScope, req dto.CreateSubAssignmentRequest) (*models.SubAssignment, error)
	Cancel(ctx context.Context, scope models.SchoolScope, id string) (*models.SubAssignment, error)
}

// SubstituteHandler exposes substitute responses and assignment booking.
type SubstituteHandler struct {
	responses   substituteResponseService
	assignments subAssignmentService
}

// NewSubstituteHandler builds a new handler.
func NewSubstituteHandler(responses substituteResponseService, assignments subAssignmentService) *SubstituteHandler {
	return &SubstituteHandler{responses: responses, assignments: assignments}
}

// Respond godoc
// @Summary Record a substitute's shift availability and optionally book shifts
// @Tags Substitutes
// @Accept json
// @Produce json
// @Param payload body dto.SubstituteResponseRequest true "Response payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /substitute-responses [post]
func (h *SubstituteHandler) Respond(c *gin.Context) {
	var req dto.SubstituteResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid substitute response payload"))
		return
	}
	result, err := h.responses.Respond(c.Request.Context(), schoolScope(c, req.SchoolID), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GetContact godoc
// @Summary Get a substitute's stored response on a coverage request
// @Tags Substitutes
// @Produce json
// @Param id path string true "Coverage request ID"
// @Param substituteId path string true "Substitute ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /coverage-requests/{id}/substitutes/{substituteId} [get]
func (h *SubstituteHandler) GetContact(c *gin.Context) {
	detail, err := h.responses.GetContact(c.Request.Context(), schoolScope(c, ""), c.Param("id"), c.Param("substituteId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Assign godoc
// @Summary Book a substitute onto a coverage shift
// @Tags Substitutes
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sub-assignments [post]
func (h *SubstituteHandler) Assign(c *gin.Context) {
	var req dto.CreateSubAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	assignment, err := h.assignments.Assign(c.Request.Context(), schoolScope(c, req.SchoolID), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// CancelAssignment godoc
// @Summary Cancel a substitute assignment
// @Tags Substitutes
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /sub-assignments/{id}/cancel [post]
func (h *SubstituteHandler) CancelAssignment(c *gin.Context) {
	assignment, err := h.assignments.Cancel(c.Request.Context(), schoolScope(c, ""), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}
