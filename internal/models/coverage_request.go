package models

import "time"

// CoverageRequest is the need to staff one or more shifts.
type CoverageRequest struct {
	ID        string                `db:"id" json:"id"`
	SchoolID  string                `db:"school_id" json:"school_id"`
	AbsenceID *string               `db:"absence_id" json:"absence_id,omitempty"`
	StaffID   string                `db:"staff_id" json:"staff_id"`
	Status    CoverageRequestStatus `db:"status" json:"status"`
	CreatedAt time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt time.Time             `db:"updated_at" json:"updated_at"`
}

// CoverageRequestShift is one concrete (date, time slot, classroom) unit of needed coverage.
type CoverageRequestShift struct {
	ID                string              `db:"id" json:"id"`
	CoverageRequestID string              `db:"coverage_request_id" json:"coverage_request_id"`
	AbsenceShiftID    *string             `db:"absence_shift_id" json:"absence_shift_id,omitempty"`
	Date              string              `db:"date" json:"date"`
	TimeSlotID        string              `db:"time_slot_id" json:"time_slot_id"`
	TimeSlotCode      string              `db:"time_slot_code" json:"time_slot_code"`
	ClassroomID       string              `db:"classroom_id" json:"classroom_id"`
	ClassroomName     string              `db:"classroom_name" json:"classroom_name"`
	Status            CoverageShiftStatus `db:"status" json:"status"`
	CreatedAt         time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at" json:"updated_at"`
}
