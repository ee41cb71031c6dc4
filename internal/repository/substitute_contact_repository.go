package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/coverage-api/internal/models"
)

const substituteContactColumns = `id, coverage_request_id, substitute_id, response_status, is_contacted, contacted_at, notes, version, created_at, updated_at`

// SubstituteContactRepository persists substitute contacts and their shift overrides.
type SubstituteContactRepository struct {
	db *sqlx.DB
}

// NewSubstituteContactRepository creates a new substitute contact repository.
func NewSubstituteContactRepository(db *sqlx.DB) *SubstituteContactRepository {
	return &SubstituteContactRepository{db: db}
}

// FindByRequestAndSubstitute loads the contact for one candidate on one request.
func (r *SubstituteContactRepository) FindByRequestAndSubstitute(ctx context.Context, coverageRequestID, substituteID string) (*models.SubstituteContact, error) {
	query := `SELECT ` + substituteContactColumns + ` FROM substitute_contacts WHERE coverage_request_id = $1 AND substitute_id = $2`
	var contact models.SubstituteContact
	if err := r.db.GetContext(ctx, &contact, query, coverageRequestID, substituteID); err != nil {
		return nil, err
	}
	return &contact, nil
}

// Create stores a new contact at version 1. A second contact for the same request and
// substitute fails with ErrDuplicate.
func (r *SubstituteContactRepository) Create(ctx context.Context, exec sqlx.ExtContext, contact *models.SubstituteContact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	contact.Version = 1

	const query = `INSERT INTO substitute_contacts (id, coverage_request_id, substitute_id, response_status, is_contacted, contacted_at, notes, version, created_at, updated_at) VALUES (:id, :coverage_request_id, :substitute_id, :response_status, :is_contacted, :contacted_at, :notes, :version, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, contact); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create substitute contact: %w: %w", ErrDuplicate, err)
		}
		return fmt.Errorf("create substitute contact: %w", err)
	}
	return nil
}

// UpdateWithVersion writes contact state only when the stored version still equals
// expectedVersion, bumping the version. It returns sql.ErrNoRows on a version mismatch.
func (r *SubstituteContactRepository) UpdateWithVersion(ctx context.Context, exec sqlx.ExtContext, contact *models.SubstituteContact, expectedVersion int) error {
	now := time.Now().UTC()
	const query = `UPDATE substitute_contacts SET response_status = $1, is_contacted = $2, contacted_at = $3, notes = $4, version = version + 1, updated_at = $5 WHERE id = $6 AND version = $7`
	res, err := exec.ExecContext(ctx, query, contact.ResponseStatus, contact.IsContacted, contact.ContactedAt, contact.Notes, now, contact.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update substitute contact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update substitute contact rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	contact.Version = expectedVersion + 1
	contact.UpdatedAt = now
	return nil
}

// ReplaceOverrides swaps the override rows of a contact for the given set.
func (r *SubstituteContactRepository) ReplaceOverrides(ctx context.Context, exec sqlx.ExtContext, contactID string, overrides []models.ShiftOverride) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM sub_contact_shift_overrides WHERE substitute_contact_id = $1`, contactID); err != nil {
		return fmt.Errorf("clear shift overrides: %w", err)
	}
	now := time.Now().UTC()
	for i := range overrides {
		payload := overrides[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		payload.SubstituteContactID = contactID
		payload.CreatedAt = now
		const query = `INSERT INTO sub_contact_shift_overrides (id, substitute_contact_id, coverage_request_shift_id, selected, override_availability, created_at) VALUES (:id, :substitute_contact_id, :coverage_request_shift_id, :selected, :override_availability, :created_at)`
		if _, err := sqlx.NamedExecContext(ctx, exec, query, &payload); err != nil {
			return fmt.Errorf("insert shift override: %w", err)
		}
		overrides[i] = payload
	}
	return nil
}

// ListOverrides returns override rows for a contact.
func (r *SubstituteContactRepository) ListOverrides(ctx context.Context, contactID string) ([]models.ShiftOverride, error) {
	const query = `SELECT id, substitute_contact_id, coverage_request_shift_id, selected, override_availability, created_at FROM sub_contact_shift_overrides WHERE substitute_contact_id = $1 ORDER BY created_at ASC, id ASC`
	var overrides []models.ShiftOverride
	if err := r.db.SelectContext(ctx, &overrides, query, contactID); err != nil {
		return nil, fmt.Errorf("list shift overrides: %w", err)
	}
	return overrides, nil
}
