package dto

import (
	"github.com/noah-isme/coverage-api/internal/coverage"
	"github.com/noah-isme/coverage-api/internal/models"
)

// CoverageSummaryResponse is the coverage view of one absence.
type CoverageSummaryResponse struct {
	AbsenceID         string                       `json:"absence_id"`
	AbsenceStatus     models.AbsenceStatus         `json:"absence_status"`
	CoverageRequestID *string                      `json:"coverage_request_id,omitempty"`
	RequestStatus     models.CoverageRequestStatus `json:"request_status,omitempty"`
	Summary           coverage.ShiftSummary        `json:"summary"`
	Shifts            []coverage.ShiftRow          `json:"shifts"`
	Coverage          coverage.AbsenceCoverage     `json:"coverage"`
}

// UpdateCoverageRequestStatusRequest moves a coverage request along its lifecycle.
type UpdateCoverageRequestStatusRequest struct {
	SchoolID string                       `json:"school_id"`
	Status   models.CoverageRequestStatus `json:"status" validate:"required,oneof=open filled cancelled"`
}
