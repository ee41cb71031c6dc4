package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/coverage-api/internal/models"
)

const coverageRequestColumns = `id, school_id, absence_id, staff_id, status, created_at, updated_at`

const coverageShiftSelect = `SELECT s.id, s.coverage_request_id, s.absence_shift_id, to_char(s.date, 'YYYY-MM-DD') AS date, s.time_slot_id, ts.code AS time_slot_code, s.classroom_id, c.name AS classroom_name, s.status, s.created_at, s.updated_at
FROM coverage_request_shifts s
JOIN time_slots ts ON ts.id = s.time_slot_id
JOIN classrooms c ON c.id = s.classroom_id`

// CoverageRequestRepository persists coverage requests and their shifts.
type CoverageRequestRepository struct {
	db *sqlx.DB
}

// NewCoverageRequestRepository creates a new coverage request repository.
func NewCoverageRequestRepository(db *sqlx.DB) *CoverageRequestRepository {
	return &CoverageRequestRepository{db: db}
}

// FindByID loads a coverage request scoped to a school.
func (r *CoverageRequestRepository) FindByID(ctx context.Context, schoolID, id string) (*models.CoverageRequest, error) {
	query := `SELECT ` + coverageRequestColumns + ` FROM coverage_requests WHERE school_id = $1 AND id = $2`
	var req models.CoverageRequest
	if err := r.db.GetContext(ctx, &req, query, schoolID, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByAbsence loads the coverage request opened for an absence.
func (r *CoverageRequestRepository) FindByAbsence(ctx context.Context, absenceID string) (*models.CoverageRequest, error) {
	query := `SELECT ` + coverageRequestColumns + ` FROM coverage_requests WHERE absence_id = $1 ORDER BY created_at DESC LIMIT 1`
	var req models.CoverageRequest
	if err := r.db.GetContext(ctx, &req, query, absenceID); err != nil {
		return nil, err
	}
	return &req, nil
}

// Create stores a coverage request.
func (r *CoverageRequestRepository) Create(ctx context.Context, exec sqlx.ExtContext, req *models.CoverageRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now

	const query = `INSERT INTO coverage_requests (id, school_id, absence_id, staff_id, status, created_at, updated_at) VALUES (:id, :school_id, :absence_id, :staff_id, :status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, req); err != nil {
		return fmt.Errorf("create coverage request: %w", err)
	}
	return nil
}

// UpdateStatus moves a coverage request to a new status.
func (r *CoverageRequestRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.CoverageRequestStatus) error {
	const query = `UPDATE coverage_requests SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := exec.ExecContext(ctx, query, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update coverage request status: %w", err)
	}
	return nil
}

// CreateShifts inserts coverage shifts for a request.
func (r *CoverageRequestRepository) CreateShifts(ctx context.Context, exec sqlx.ExtContext, shifts []models.CoverageRequestShift) error {
	now := time.Now().UTC()
	for i := range shifts {
		payload := shifts[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now
		const query = `INSERT INTO coverage_request_shifts (id, coverage_request_id, absence_shift_id, date, time_slot_id, classroom_id, status, created_at, updated_at) VALUES (:id, :coverage_request_id, :absence_shift_id, :date, :time_slot_id, :classroom_id, :status, :created_at, :updated_at)`
		if _, err := sqlx.NamedExecContext(ctx, exec, query, &payload); err != nil {
			return fmt.Errorf("create coverage request shift: %w", err)
		}
		shifts[i] = payload
	}
	return nil
}

// ListShifts returns every shift of a coverage request.
func (r *CoverageRequestRepository) ListShifts(ctx context.Context, coverageRequestID string) ([]models.CoverageRequestShift, error) {
	query := coverageShiftSelect + ` WHERE s.coverage_request_id = $1 ORDER BY s.date ASC, ts.code ASC`
	var shifts []models.CoverageRequestShift
	if err := r.db.SelectContext(ctx, &shifts, query, coverageRequestID); err != nil {
		return nil, fmt.Errorf("list coverage request shifts: %w", err)
	}
	return shifts, nil
}

// ListActiveShifts returns only the active shifts of a coverage request.
func (r *CoverageRequestRepository) ListActiveShifts(ctx context.Context, coverageRequestID string) ([]models.CoverageRequestShift, error) {
	query := coverageShiftSelect + ` WHERE s.coverage_request_id = $1 AND s.status = $2 ORDER BY s.date ASC, ts.code ASC`
	var shifts []models.CoverageRequestShift
	if err := r.db.SelectContext(ctx, &shifts, query, coverageRequestID, models.CoverageShiftStatusActive); err != nil {
		return nil, fmt.Errorf("list active coverage request shifts: %w", err)
	}
	return shifts, nil
}

// FindShiftByID loads a coverage shift.
func (r *CoverageRequestRepository) FindShiftByID(ctx context.Context, id string) (*models.CoverageRequestShift, error) {
	query := coverageShiftSelect + ` WHERE s.id = $1`
	var shift models.CoverageRequestShift
	if err := r.db.GetContext(ctx, &shift, query, id); err != nil {
		return nil, err
	}
	return &shift, nil
}

// UpdateShiftStatus moves a single shift to a new status.
func (r *CoverageRequestRepository) UpdateShiftStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.CoverageShiftStatus) error {
	const query = `UPDATE coverage_request_shifts SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := exec.ExecContext(ctx, query, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update coverage shift status: %w", err)
	}
	return nil
}

// CancelActiveShifts cancels every active shift of a coverage request.
func (r *CoverageRequestRepository) CancelActiveShifts(ctx context.Context, exec sqlx.ExtContext, coverageRequestID string) (int64, error) {
	const query = `UPDATE coverage_request_shifts SET status = $1, updated_at = $2 WHERE coverage_request_id = $3 AND status = $4`
	res, err := exec.ExecContext(ctx, query, models.CoverageShiftStatusCancelled, time.Now().UTC(), coverageRequestID, models.CoverageShiftStatusActive)
	if err != nil {
		return 0, fmt.Errorf("cancel coverage shifts: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
