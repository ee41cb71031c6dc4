package models

import "time"

// ShiftSelectionMode describes which scheduled shifts an absence affects.
type ShiftSelectionMode string

const (
	// ShiftSelectionAllScheduled covers every baseline shift in the date range.
	ShiftSelectionAllScheduled ShiftSelectionMode = "all_scheduled"
	// ShiftSelectionSelected covers only the explicitly listed shift keys.
	ShiftSelectionSelected ShiftSelectionMode = "selected_shifts"
)

// AbsenceRequest is a staff member's declared unavailability over a date range.
type AbsenceRequest struct {
	ID             string             `db:"id" json:"id"`
	SchoolID       string             `db:"school_id" json:"school_id"`
	StaffID        string             `db:"staff_id" json:"staff_id"`
	StartDate      string             `db:"start_date" json:"start_date"`
	EndDate        string             `db:"end_date" json:"end_date"`
	Status         AbsenceStatus      `db:"status" json:"status"`
	SelectionMode  ShiftSelectionMode `db:"shift_selection_mode" json:"shift_selection_mode"`
	Reason         *string            `db:"reason" json:"reason,omitempty"`
	CoverageStatus *string            `db:"coverage_status" json:"coverage_status,omitempty"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at" json:"updated_at"`
}

// AbsenceShift is one concrete shift affected by an absence.
type AbsenceShift struct {
	ID            string    `db:"id" json:"id"`
	AbsenceID     string    `db:"absence_id" json:"absence_id"`
	Date          string    `db:"date" json:"date"`
	DayOfWeekID   string    `db:"day_of_week_id" json:"day_of_week_id"`
	TimeSlotID    string    `db:"time_slot_id" json:"time_slot_id"`
	TimeSlotCode  string    `db:"time_slot_code" json:"time_slot_code"`
	ClassroomID   string    `db:"classroom_id" json:"classroom_id"`
	ClassroomName string    `db:"classroom_name" json:"classroom_name"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
