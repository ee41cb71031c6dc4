package dto

import (
	"github.com/noah-isme/coverage-api/internal/coverage"
	"github.com/noah-isme/coverage-api/internal/models"
)

// SubstituteResponseRequest is a substitute's declared response to a coverage request.
// Shift sets hold `date|time-slot-code` keys. Version must echo the contact version last
// read, or 0 when no contact exists yet.
type SubstituteResponseRequest struct {
	SchoolID          string                `json:"school_id"`
	CoverageRequestID string                `json:"coverage_request_id"`
	SubstituteID      string                `json:"substitute_id" validate:"required"`
	ResponseStatus    models.ResponseStatus `json:"response_status" validate:"omitempty,oneof=none pending confirmed declined"`
	IsContacted       bool                  `json:"is_contacted"`
	Notes             *string               `json:"notes" validate:"omitempty,max=1000"`
	Version           int                   `json:"version" validate:"min=0"`
	Selected          []string              `json:"selected"`
	Override          []string              `json:"override"`
	Available         []string              `json:"available"`
	Unavailable       []string              `json:"unavailable"`
	BookAssignments   bool                  `json:"book_assignments"`
}

// SubstituteResponseResult reports what was persisted for a response.
type SubstituteResponseResult struct {
	Contact          *models.SubstituteContact             `json:"contact"`
	Overrides        []coverage.ShiftOverrideRecord        `json:"overrides"`
	SelectedShiftIDs []string                              `json:"selected_shift_ids"`
	Assignments      []models.SubAssignment                `json:"assignments"`
	ShiftStates      map[string]coverage.ShiftAvailability `json:"shift_states"`
}

// SubstituteContactDetail is a stored contact with the override rows of its last response.
type SubstituteContactDetail struct {
	Contact   *models.SubstituteContact `json:"contact"`
	Overrides []models.ShiftOverride    `json:"overrides"`
}

// CreateSubAssignmentRequest books a substitute onto a coverage shift.
type CreateSubAssignmentRequest struct {
	SchoolID               string  `json:"school_id"`
	CoverageRequestShiftID string  `json:"coverage_request_shift_id" validate:"required"`
	SubstituteID           string  `json:"substitute_id" validate:"required"`
	IsPartial              bool    `json:"is_partial"`
	PartialStartTime       *string `json:"partial_start_time" validate:"required_if=IsPartial true,omitempty,datetime=15:04"`
	PartialEndTime         *string `json:"partial_end_time" validate:"required_if=IsPartial true,omitempty,datetime=15:04"`
}
