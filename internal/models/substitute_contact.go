package models

import "time"

// ResponseStatus captures a candidate substitute's answer to a coverage request.
type ResponseStatus string

const (
	ResponseStatusNone      ResponseStatus = "none"
	ResponseStatusPending   ResponseStatus = "pending"
	ResponseStatusConfirmed ResponseStatus = "confirmed"
	ResponseStatusDeclined  ResponseStatus = "declined"
)

// SubstituteContact records contact and response state for one candidate on one request.
type SubstituteContact struct {
	ID                string         `db:"id" json:"id"`
	CoverageRequestID string         `db:"coverage_request_id" json:"coverage_request_id"`
	SubstituteID      string         `db:"substitute_id" json:"substitute_id"`
	ResponseStatus    ResponseStatus `db:"response_status" json:"response_status"`
	IsContacted       bool           `db:"is_contacted" json:"is_contacted"`
	ContactedAt       *time.Time     `db:"contacted_at" json:"contacted_at,omitempty"`
	Notes             *string        `db:"notes" json:"notes,omitempty"`
	Version           int            `db:"version" json:"version"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// ShiftOverride records per-shift selection for a substitute contact.
type ShiftOverride struct {
	ID                     string    `db:"id" json:"id"`
	SubstituteContactID    string    `db:"substitute_contact_id" json:"substitute_contact_id"`
	CoverageRequestShiftID string    `db:"coverage_request_shift_id" json:"coverage_request_shift_id"`
	Selected               bool      `db:"selected" json:"selected"`
	OverrideAvailability   bool      `db:"override_availability" json:"override_availability"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
}
