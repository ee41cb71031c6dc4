package dto

import "github.com/noah-isme/coverage-api/internal/models"

// ConflictResolution selects how placement conflicts are handled on create.
type ConflictResolution string

const (
	// ResolutionReject refuses the whole batch when any conflict exists.
	ResolutionReject ConflictResolution = "reject"
	// ResolutionReplace removes the conflicting placements before inserting.
	ResolutionReplace ConflictResolution = "replace"
	// ResolutionFloater inserts conflicting proposals as floaters.
	ResolutionFloater ConflictResolution = "floater"
)

// CheckConflictsRequest carries placements to test without writing.
type CheckConflictsRequest struct {
	SchoolID string                  `json:"school_id"`
	Checks   []models.PlacementCheck `json:"checks" validate:"required,min=1,dive"`
}

// PlacementInput is one proposed recurring placement.
type PlacementInput struct {
	TeacherID    string  `json:"teacher_id" validate:"required"`
	DayOfWeekID  string  `json:"day_of_week_id" validate:"required"`
	TimeSlotID   string  `json:"time_slot_id" validate:"required"`
	ClassroomID  string  `json:"classroom_id" validate:"required"`
	ClassGroupID *string `json:"class_group_id"`
	IsFloater    bool    `json:"is_floater"`
}

// CreateTeacherSchedulesRequest creates placements in one batch.
type CreateTeacherSchedulesRequest struct {
	SchoolID   string             `json:"school_id"`
	Placements []PlacementInput   `json:"placements" validate:"required,min=1,dive"`
	Resolution ConflictResolution `json:"resolution" validate:"omitempty,oneof=reject replace floater"`
}

// CreateTeacherSchedulesResult reports the outcome of a placement batch.
type CreateTeacherSchedulesResult struct {
	Created   []models.TeacherSchedule  `json:"created"`
	Conflicts []models.ScheduleConflict `json:"conflicts"`
	Removed   []string                  `json:"removed"`
}

// BaselineUsageResponse answers a baseline usage lookup.
type BaselineUsageResponse struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	InUse bool   `json:"in_use"`
}
