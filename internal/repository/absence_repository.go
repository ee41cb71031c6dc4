package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/coverage-api/internal/models"
)

const absenceColumns = `id, school_id, staff_id, to_char(start_date, 'YYYY-MM-DD') AS start_date, to_char(end_date, 'YYYY-MM-DD') AS end_date, status, shift_selection_mode, reason, coverage_status, created_at, updated_at`

// AbsenceRepository persists absence requests and their affected shifts.
type AbsenceRepository struct {
	db *sqlx.DB
}

// NewAbsenceRepository creates a new absence repository.
func NewAbsenceRepository(db *sqlx.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

// FindByID loads an absence scoped to a school.
func (r *AbsenceRepository) FindByID(ctx context.Context, schoolID, id string) (*models.AbsenceRequest, error) {
	query := `SELECT ` + absenceColumns + ` FROM absence_requests WHERE school_id = $1 AND id = $2`
	var absence models.AbsenceRequest
	if err := r.db.GetContext(ctx, &absence, query, schoolID, id); err != nil {
		return nil, err
	}
	return &absence, nil
}

// Create stores a new absence request.
func (r *AbsenceRepository) Create(ctx context.Context, exec sqlx.ExtContext, absence *models.AbsenceRequest) error {
	if absence.ID == "" {
		absence.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if absence.CreatedAt.IsZero() {
		absence.CreatedAt = now
	}
	absence.UpdatedAt = now

	const query = `INSERT INTO absence_requests (id, school_id, staff_id, start_date, end_date, status, shift_selection_mode, reason, created_at, updated_at) VALUES (:id, :school_id, :staff_id, :start_date, :end_date, :status, :shift_selection_mode, :reason, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, absence); err != nil {
		return fmt.Errorf("create absence: %w", err)
	}
	return nil
}

// UpdateStatus moves an absence to a new lifecycle status.
func (r *AbsenceRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.AbsenceStatus) error {
	const query = `UPDATE absence_requests SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := exec.ExecContext(ctx, query, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update absence status: %w", err)
	}
	return nil
}

// UpdateCoverageStatus stores the derived headline coverage status.
func (r *AbsenceRepository) UpdateCoverageStatus(ctx context.Context, id, coverageStatus string) error {
	const query = `UPDATE absence_requests SET coverage_status = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, coverageStatus, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update absence coverage status: %w", err)
	}
	return nil
}

// CreateShifts inserts the dated shifts affected by an absence.
func (r *AbsenceRepository) CreateShifts(ctx context.Context, exec sqlx.ExtContext, shifts []models.AbsenceShift) error {
	now := time.Now().UTC()
	for i := range shifts {
		payload := shifts[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		const query = `INSERT INTO absence_shifts (id, absence_id, date, day_of_week_id, time_slot_id, classroom_id, created_at) VALUES (:id, :absence_id, :date, :day_of_week_id, :time_slot_id, :classroom_id, :created_at)`
		if _, err := sqlx.NamedExecContext(ctx, exec, query, &payload); err != nil {
			return fmt.Errorf("create absence shift: %w", err)
		}
		shifts[i] = payload
	}
	return nil
}

// ListShifts returns the shifts of an absence ordered by date and time slot.
func (r *AbsenceRepository) ListShifts(ctx context.Context, absenceID string) ([]models.AbsenceShift, error) {
	const query = `SELECT s.id, s.absence_id, to_char(s.date, 'YYYY-MM-DD') AS date, s.day_of_week_id, s.time_slot_id, ts.code AS time_slot_code, s.classroom_id, c.name AS classroom_name, s.created_at
FROM absence_shifts s
JOIN time_slots ts ON ts.id = s.time_slot_id
JOIN classrooms c ON c.id = s.classroom_id
WHERE s.absence_id = $1
ORDER BY s.date ASC, ts.code ASC`
	var shifts []models.AbsenceShift
	if err := r.db.SelectContext(ctx, &shifts, query, absenceID); err != nil {
		return nil, fmt.Errorf("list absence shifts: %w", err)
	}
	return shifts, nil
}
