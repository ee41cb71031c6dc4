package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/coverage-api/internal/models"
)

const subAssignmentColumns = `a.id, a.coverage_request_shift_id, a.substitute_id, to_char(a.date, 'YYYY-MM-DD') AS date, a.is_partial, a.partial_start_time, a.partial_end_time, a.status, a.created_at, a.updated_at`

// SubAssignmentRepository persists substitute assignments.
type SubAssignmentRepository struct {
	db *sqlx.DB
}

// NewSubAssignmentRepository creates a new sub assignment repository.
func NewSubAssignmentRepository(db *sqlx.DB) *SubAssignmentRepository {
	return &SubAssignmentRepository{db: db}
}

// FindByID loads an assignment.
func (r *SubAssignmentRepository) FindByID(ctx context.Context, id string) (*models.SubAssignment, error) {
	query := `SELECT ` + subAssignmentColumns + ` FROM sub_assignments a WHERE a.id = $1`
	var assignment models.SubAssignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create stores a new active assignment. A second active assignment on the same shift fails
// with ErrDuplicate.
func (r *SubAssignmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.SubAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.Status == "" {
		assignment.Status = models.SubAssignmentStatusActive
	}
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	const query = `INSERT INTO sub_assignments (id, coverage_request_shift_id, substitute_id, date, is_partial, partial_start_time, partial_end_time, status, created_at, updated_at) VALUES (:id, :coverage_request_shift_id, :substitute_id, :date, :is_partial, :partial_start_time, :partial_end_time, :status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, assignment); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create sub assignment: %w: %w", ErrDuplicate, err)
		}
		return fmt.Errorf("create sub assignment: %w", err)
	}
	return nil
}

// CountActiveByShift counts active assignments on a shift inside the caller's transaction.
func (r *SubAssignmentRepository) CountActiveByShift(ctx context.Context, exec sqlx.ExtContext, shiftID string) (int, error) {
	const query = `SELECT COUNT(*) FROM sub_assignments WHERE coverage_request_shift_id = $1 AND status = $2`
	var count int
	if err := sqlx.GetContext(ctx, exec, &count, query, shiftID, models.SubAssignmentStatusActive); err != nil {
		return 0, fmt.Errorf("count active sub assignments: %w", err)
	}
	return count, nil
}

// ListActiveByCoverageRequest returns active assignments across every shift of a request.
func (r *SubAssignmentRepository) ListActiveByCoverageRequest(ctx context.Context, coverageRequestID string) ([]models.SubAssignment, error) {
	query := `SELECT ` + subAssignmentColumns + `
FROM sub_assignments a
JOIN coverage_request_shifts s ON s.id = a.coverage_request_shift_id
WHERE s.coverage_request_id = $1 AND a.status = $2
ORDER BY a.created_at ASC`
	var assignments []models.SubAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, coverageRequestID, models.SubAssignmentStatusActive); err != nil {
		return nil, fmt.Errorf("list active sub assignments: %w", err)
	}
	return assignments, nil
}

// ListActiveBySubstitute returns active assignments of a substitute within a coverage request.
func (r *SubAssignmentRepository) ListActiveBySubstitute(ctx context.Context, coverageRequestID, substituteID string) ([]models.SubAssignment, error) {
	query := `SELECT ` + subAssignmentColumns + `
FROM sub_assignments a
JOIN coverage_request_shifts s ON s.id = a.coverage_request_shift_id
WHERE s.coverage_request_id = $1 AND a.substitute_id = $2 AND a.status = $3`
	var assignments []models.SubAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, coverageRequestID, substituteID, models.SubAssignmentStatusActive); err != nil {
		return nil, fmt.Errorf("list substitute sub assignments: %w", err)
	}
	return assignments, nil
}

// UpdateStatus moves one assignment to a new status.
func (r *SubAssignmentRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.SubAssignmentStatus) error {
	const query = `UPDATE sub_assignments SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := exec.ExecContext(ctx, query, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update sub assignment status: %w", err)
	}
	return nil
}

// CancelActiveByShift cancels active assignments on one shift.
func (r *SubAssignmentRepository) CancelActiveByShift(ctx context.Context, exec sqlx.ExtContext, shiftID string) (int64, error) {
	const query = `UPDATE sub_assignments SET status = $1, updated_at = $2 WHERE coverage_request_shift_id = $3 AND status = $4`
	res, err := exec.ExecContext(ctx, query, models.SubAssignmentStatusCancelled, time.Now().UTC(), shiftID, models.SubAssignmentStatusActive)
	if err != nil {
		return 0, fmt.Errorf("cancel shift sub assignments: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// CancelActiveByCoverageRequest cancels active assignments across a whole request.
func (r *SubAssignmentRepository) CancelActiveByCoverageRequest(ctx context.Context, exec sqlx.ExtContext, coverageRequestID string) (int64, error) {
	const query = `UPDATE sub_assignments SET status = $1, updated_at = $2 WHERE status = $3 AND coverage_request_shift_id IN (SELECT id FROM coverage_request_shifts WHERE coverage_request_id = $4)`
	res, err := exec.ExecContext(ctx, query, models.SubAssignmentStatusCancelled, time.Now().UTC(), models.SubAssignmentStatusActive, coverageRequestID)
	if err != nil {
		return 0, fmt.Errorf("cancel request sub assignments: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
