package dto

import "github.com/noah-isme/coverage-api/internal/models"

// CreateAbsenceRequest declares a staff absence. ShiftKeys are `date|time-slot-code` keys and
// are only read in selected_shifts mode.
type CreateAbsenceRequest struct {
	SchoolID      string                    `json:"school_id"`
	StaffID       string                    `json:"staff_id" validate:"required"`
	StartDate     string                    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string                    `json:"end_date" validate:"required,datetime=2006-01-02"`
	SelectionMode models.ShiftSelectionMode `json:"shift_selection_mode" validate:"required,oneof=all_scheduled selected_shifts"`
	ShiftKeys     []string                  `json:"shift_keys" validate:"omitempty,dive,required"`
	Reason        *string                   `json:"reason" validate:"omitempty,max=500"`
}

// AbsenceDetail bundles an absence with the shifts it affects.
type AbsenceDetail struct {
	Absence           *models.AbsenceRequest `json:"absence"`
	Shifts            []models.AbsenceShift  `json:"shifts"`
	CoverageRequestID *string                `json:"coverage_request_id,omitempty"`
}
