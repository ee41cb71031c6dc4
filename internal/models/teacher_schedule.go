package models

import "time"

// TeacherSchedule is a recurring baseline placement of a teacher.
type TeacherSchedule struct {
	ID           string    `db:"id" json:"id"`
	SchoolID     string    `db:"school_id" json:"school_id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	DayOfWeekID  string    `db:"day_of_week_id" json:"day_of_week_id"`
	TimeSlotID   string    `db:"time_slot_id" json:"time_slot_id"`
	ClassGroupID *string   `db:"class_group_id" json:"class_group_id,omitempty"`
	ClassroomID  string    `db:"classroom_id" json:"classroom_id"`
	IsFloater    bool      `db:"is_floater" json:"is_floater"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherScheduleSlot is a baseline placement joined with calendar details, used to
// derive the dated shifts an absence affects.
type TeacherScheduleSlot struct {
	TeacherScheduleID string `db:"teacher_schedule_id"`
	DayOfWeekID       string `db:"day_of_week_id"`
	DayNumber         int    `db:"day_number"`
	TimeSlotID        string `db:"time_slot_id"`
	TimeSlotCode      string `db:"time_slot_code"`
	ClassroomID       string `db:"classroom_id"`
	ClassroomName     string `db:"classroom_name"`
}

// PlacementCheck is a proposed placement to test for conflicts.
type PlacementCheck struct {
	TeacherID   string `json:"teacher_id" validate:"required"`
	DayOfWeekID string `json:"day_of_week_id" validate:"required"`
	TimeSlotID  string `json:"time_slot_id" validate:"required"`
	ClassroomID string `json:"classroom_id" validate:"required"`
}

// ScheduleConflict describes a placement that collides with a proposal. Stored placements
// carry TeacherScheduleID; earlier proposals of the same batch carry ProposalIndex.
type ScheduleConflict struct {
	TeacherScheduleID string  `db:"id" json:"teacher_schedule_id,omitempty"`
	TeacherID         string  `db:"teacher_id" json:"teacher_id"`
	DayOfWeekID       string  `db:"day_of_week_id" json:"day_of_week_id"`
	TimeSlotID        string  `db:"time_slot_id" json:"time_slot_id"`
	ClassroomID       string  `db:"classroom_id" json:"classroom_id"`
	ClassGroupID      *string `db:"class_group_id" json:"class_group_id,omitempty"`
	TargetClassroomID string  `db:"-" json:"target_classroom_id"`
	ProposalIndex     *int    `db:"-" json:"proposal_index,omitempty"`
}
