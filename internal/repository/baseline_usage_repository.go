package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// BaselineUsageRepository answers whether master data is referenced by an active baseline
// schedule cell.
type BaselineUsageRepository struct {
	db *sqlx.DB
}

// NewBaselineUsageRepository creates a new baseline usage repository.
func NewBaselineUsageRepository(db *sqlx.DB) *BaselineUsageRepository {
	return &BaselineUsageRepository{db: db}
}

// StaffInUse reports whether the staff member teaches in any active cell.
func (r *BaselineUsageRepository) StaffInUse(ctx context.Context, schoolID, staffID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM schedule_cells WHERE school_id = $1 AND staff_id = $2 AND is_active = true)`
	return r.exists(ctx, "staff", query, schoolID, staffID)
}

// ClassroomInUse reports whether the classroom hosts any active cell.
func (r *BaselineUsageRepository) ClassroomInUse(ctx context.Context, schoolID, classroomID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM schedule_cells WHERE school_id = $1 AND classroom_id = $2 AND is_active = true)`
	return r.exists(ctx, "classroom", query, schoolID, classroomID)
}

// TimeSlotInUse reports whether any active cell occupies the time slot.
func (r *BaselineUsageRepository) TimeSlotInUse(ctx context.Context, schoolID, timeSlotID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM schedule_cells WHERE school_id = $1 AND time_slot_id = $2 AND is_active = true)`
	return r.exists(ctx, "time slot", query, schoolID, timeSlotID)
}

// ClassGroupInUse reports whether the class group is attached to an active cell through
// the membership table.
func (r *BaselineUsageRepository) ClassGroupInUse(ctx context.Context, schoolID, classGroupID string) (bool, error) {
	const query = `SELECT EXISTS (
SELECT 1 FROM schedule_cell_class_groups m
JOIN schedule_cells c ON c.id = m.schedule_cell_id
WHERE c.school_id = $1 AND m.class_group_id = $2 AND c.is_active = true)`
	return r.exists(ctx, "class group", query, schoolID, classGroupID)
}

func (r *BaselineUsageRepository) exists(ctx context.Context, subject, query string, args ...interface{}) (bool, error) {
	var found bool
	if err := r.db.GetContext(ctx, &found, query, args...); err != nil {
		return false, fmt.Errorf("check %s baseline usage: %w", subject, err)
	}
	return found, nil
}
