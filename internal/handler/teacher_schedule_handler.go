package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/internal/middleware"
	"github.com/noah-isme/coverage-api/internal/models"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
	"github.com/noah-isme/coverage-api/pkg/response"
)

type conflictChecker interface {
	CheckScheduleConflicts(ctx context.Context, scope models.SchoolScope, checks []models.PlacementCheck) ([]models.ScheduleConflict, error)
}

type placementCreator interface {
	CreatePlacements(ctx context.Context, scope models.SchoolScope, req dto.CreateTeacherSchedulesRequest) (*dto.CreateTeacherSchedulesResult, error)
}

type baselineUsageService interface {
	IsStaffUsedInBaselineSchedule(ctx context.Context, staffID string, scope models.SchoolScope) (bool, error)
	IsClassroomUsedInBaselineSchedule(ctx context.Context, classroomID string, scope models.SchoolScope) (bool, error)
	IsClassGroupUsedInBaselineSchedule(ctx context.Context, classGroupID string, scope models.SchoolScope) (bool, error)
	IsTimeSlotUsedInBaselineSchedule(ctx context.Context, timeSlotID string, scope models.SchoolScope) (bool, error)
}

// TeacherScheduleHandler exposes baseline placement endpoints.
type TeacherScheduleHandler struct {
	conflicts  conflictChecker
	placements placementCreator
	usage      baselineUsageService
}

// NewTeacherScheduleHandler builds a new handler.
func NewTeacherScheduleHandler(conflicts conflictChecker, placements placementCreator, usage baselineUsageService) *TeacherScheduleHandler {
	return &TeacherScheduleHandler{conflicts: conflicts, placements: placements, usage: usage}
}

// CheckConflicts godoc
// @Summary Detect conflicts for proposed placements without writing
// @Tags TeacherSchedules
// @Accept json
// @Produce json
// @Param payload body dto.CheckConflictsRequest true "Placements to check"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teacher-schedules/conflicts [post]
func (h *TeacherScheduleHandler) CheckConflicts(c *gin.Context) {
	var req dto.CheckConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conflict check payload"))
		return
	}
	conflicts, err := h.conflicts.CheckScheduleConflicts(c.Request.Context(), schoolScope(c, req.SchoolID), req.Checks)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "conflict_count", len(conflicts))
	response.JSON(c, http.StatusOK, conflicts, nil, middleware.ExtractMeta(c))
}

// Create godoc
// @Summary Create baseline placements
// @Description Conflicting batches are rejected unless resolution is replace or floater.
// @Tags TeacherSchedules
// @Accept json
// @Produce json
// @Param payload body dto.CreateTeacherSchedulesRequest true "Placements"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teacher-schedules [post]
func (h *TeacherScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateTeacherSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid placement payload"))
		return
	}
	result, err := h.placements.CreatePlacements(c.Request.Context(), schoolScope(c, req.SchoolID), req)
	if err != nil {
		if result != nil {
			response.Error(c, err, map[string]interface{}{"conflicts": result.Conflicts})
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// StaffUsage godoc
// @Summary Whether a staff member is used by the active baseline schedule
// @Tags BaselineUsage
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} response.Envelope
// @Router /baseline-usage/staff/{id} [get]
func (h *TeacherScheduleHandler) StaffUsage(c *gin.Context) {
	h.usageResponse(c, "staff", h.usage.IsStaffUsedInBaselineSchedule)
}

// ClassroomUsage godoc
// @Summary Whether a classroom is used by the active baseline schedule
// @Tags BaselineUsage
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /baseline-usage/classrooms/{id} [get]
func (h *TeacherScheduleHandler) ClassroomUsage(c *gin.Context) {
	h.usageResponse(c, "classroom", h.usage.IsClassroomUsedInBaselineSchedule)
}

// ClassGroupUsage godoc
// @Summary Whether a class group is used by the active baseline schedule
// @Tags BaselineUsage
// @Produce json
// @Param id path string true "Class group ID"
// @Success 200 {object} response.Envelope
// @Router /baseline-usage/class-groups/{id} [get]
func (h *TeacherScheduleHandler) ClassGroupUsage(c *gin.Context) {
	h.usageResponse(c, "class_group", h.usage.IsClassGroupUsedInBaselineSchedule)
}

// TimeSlotUsage godoc
// @Summary Whether a time slot is used by the active baseline schedule
// @Tags BaselineUsage
// @Produce json
// @Param id path string true "Time slot ID"
// @Success 200 {object} response.Envelope
// @Router /baseline-usage/time-slots/{id} [get]
func (h *TeacherScheduleHandler) TimeSlotUsage(c *gin.Context) {
	h.usageResponse(c, "time_slot", h.usage.IsTimeSlotUsedInBaselineSchedule)
}

func (h *TeacherScheduleHandler) usageResponse(c *gin.Context, kind string, lookup func(context.Context, string, models.SchoolScope) (bool, error)) {
	id := c.Param("id")
	inUse, err := lookup(c.Request.Context(), id, schoolScope(c, ""))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BaselineUsageResponse{Kind: kind, ID: id, InUse: inUse}, nil)
}
