package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/coverage-api/internal/models"
)

// TeacherScheduleRepository reads and writes baseline teacher placements.
type TeacherScheduleRepository struct {
	db *sqlx.DB
}

// NewTeacherScheduleRepository creates a new teacher schedule repository.
func NewTeacherScheduleRepository(db *sqlx.DB) *TeacherScheduleRepository {
	return &TeacherScheduleRepository{db: db}
}

// ListSlotsByTeacher returns a teacher's weekly placements joined with calendar details.
func (r *TeacherScheduleRepository) ListSlotsByTeacher(ctx context.Context, schoolID, teacherID string) ([]models.TeacherScheduleSlot, error) {
	const query = `SELECT t.id AS teacher_schedule_id, t.day_of_week_id, d.day_number, t.time_slot_id, ts.code AS time_slot_code, t.classroom_id, c.name AS classroom_name
FROM teacher_schedules t
JOIN days_of_week d ON d.id = t.day_of_week_id
JOIN time_slots ts ON ts.id = t.time_slot_id
JOIN classrooms c ON c.id = t.classroom_id
WHERE t.school_id = $1 AND t.teacher_id = $2
ORDER BY d.day_number ASC, ts.code ASC`
	var slots []models.TeacherScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, schoolID, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher schedule slots: %w", err)
	}
	return slots, nil
}

// FindConflicting returns non-floater placements of the same teacher, day and slot in a
// different classroom.
func (r *TeacherScheduleRepository) FindConflicting(ctx context.Context, schoolID string, check models.PlacementCheck) ([]models.ScheduleConflict, error) {
	const query = `SELECT id, teacher_id, day_of_week_id, time_slot_id, classroom_id, class_group_id
FROM teacher_schedules
WHERE school_id = $1 AND teacher_id = $2 AND day_of_week_id = $3 AND time_slot_id = $4 AND classroom_id <> $5 AND is_floater = false
ORDER BY id ASC`
	var conflicts []models.ScheduleConflict
	if err := r.db.SelectContext(ctx, &conflicts, query, schoolID, check.TeacherID, check.DayOfWeekID, check.TimeSlotID, check.ClassroomID); err != nil {
		return nil, fmt.Errorf("find conflicting schedules: %w", err)
	}
	for i := range conflicts {
		conflicts[i].TargetClassroomID = check.ClassroomID
	}
	return conflicts, nil
}

// BulkCreate inserts placements inside the caller's transaction.
func (r *TeacherScheduleRepository) BulkCreate(ctx context.Context, exec sqlx.ExtContext, schedules []models.TeacherSchedule) error {
	now := time.Now().UTC()
	for i := range schedules {
		payload := schedules[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		payload.CreatedAt = now
		payload.UpdatedAt = now
		const query = `INSERT INTO teacher_schedules (id, school_id, teacher_id, day_of_week_id, time_slot_id, class_group_id, classroom_id, is_floater, created_at, updated_at) VALUES (:id, :school_id, :teacher_id, :day_of_week_id, :time_slot_id, :class_group_id, :classroom_id, :is_floater, :created_at, :updated_at)`
		if _, err := sqlx.NamedExecContext(ctx, exec, query, &payload); err != nil {
			return fmt.Errorf("create teacher schedule: %w", err)
		}
		schedules[i] = payload
	}
	return nil
}

// DeleteByIDs removes placements by id.
func (r *TeacherScheduleRepository) DeleteByIDs(ctx context.Context, exec sqlx.ExtContext, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `DELETE FROM teacher_schedules WHERE id = ANY($1)`
	if _, err := exec.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("delete teacher schedules: %w", err)
	}
	return nil
}
