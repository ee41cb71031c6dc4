package models

import "time"

// SubAssignment binds a substitute to a coverage-request shift on a date.
type SubAssignment struct {
	ID                     string              `db:"id" json:"id"`
	CoverageRequestShiftID string              `db:"coverage_request_shift_id" json:"coverage_request_shift_id"`
	SubstituteID           string              `db:"substitute_id" json:"substitute_id"`
	Date                   string              `db:"date" json:"date"`
	IsPartial              bool                `db:"is_partial" json:"is_partial"`
	PartialStartTime       *string             `db:"partial_start_time" json:"partial_start_time,omitempty"`
	PartialEndTime         *string             `db:"partial_end_time" json:"partial_end_time,omitempty"`
	Status                 SubAssignmentStatus `db:"status" json:"status"`
	CreatedAt              time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time           `db:"updated_at" json:"updated_at"`
}
