package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/coverage-api/internal/coverage"
	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/internal/models"
	"github.com/noah-isme/coverage-api/pkg/cache"
)

type coverageAbsenceReader interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.AbsenceRequest, error)
}

type coverageRequestRepository interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.CoverageRequest, error)
	FindByAbsence(ctx context.Context, absenceID string) (*models.CoverageRequest, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.CoverageRequestStatus) error
	ListActiveShifts(ctx context.Context, coverageRequestID string) ([]models.CoverageRequestShift, error)
	FindShiftByID(ctx context.Context, id string) (*models.CoverageRequestShift, error)
	UpdateShiftStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.CoverageShiftStatus) error
	CancelActiveShifts(ctx context.Context, exec sqlx.ExtContext, coverageRequestID string) (int64, error)
}

type coverageAssignmentRepository interface {
	ListActiveByCoverageRequest(ctx context.Context, coverageRequestID string) ([]models.SubAssignment, error)
	CancelActiveByShift(ctx context.Context, exec sqlx.ExtContext, shiftID string) (int64, error)
	CancelActiveByCoverageRequest(ctx context.Context, exec sqlx.ExtContext, coverageRequestID string) (int64, error)
}

// CoverageService builds coverage summaries and drives coverage request status changes.
type CoverageService struct {
	absences    coverageAbsenceReader
	requests    coverageRequestRepository
	assignments coverageAssignmentRepository
	tx          txRunner
	cache       *CacheService
	metrics     *MetricsService
	refresher   coverageRefresher
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCoverageService constructs a coverage service.
func NewCoverageService(absences coverageAbsenceReader, requests coverageRequestRepository, assignments coverageAssignmentRepository, tx txRunner, cacheSvc *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CoverageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoverageService{
		absences:    absences,
		requests:    requests,
		assignments: assignments,
		tx:          tx,
		cache:       cacheSvc,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// UseRefresher attaches the component notified after coverage mutations.
func (s *CoverageService) UseRefresher(r coverageRefresher) {
	s.refresher = r
}

// Summary returns the coverage view of an absence, served from cache when possible. The
// boolean reports a cache hit.
func (s *CoverageService) Summary(ctx context.Context, scope models.SchoolScope, absenceID string) (*dto.CoverageSummaryResponse, bool, error) {
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, false, err
	}
	key := cache.SummaryKey(schoolID, absenceID)
	var cached dto.CoverageSummaryResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	result, err := s.Compute(ctx, schoolID, absenceID)
	if err != nil {
		return nil, false, err
	}
	if err := s.cache.Set(ctx, key, result, 0); err != nil {
		s.logger.Debug("coverage summary served uncached", zap.String("absence_id", absenceID), zap.Error(err))
	}
	return result, false, nil
}

// Compute builds the coverage view of an absence straight from storage.
func (s *CoverageService) Compute(ctx context.Context, schoolID, absenceID string) (*dto.CoverageSummaryResponse, error) {
	absence, err := s.absences.FindByID(ctx, schoolID, absenceID)
	if err != nil {
		return nil, notFoundOr(err, "absence not found", "failed to load absence")
	}

	result := &dto.CoverageSummaryResponse{AbsenceID: absence.ID, AbsenceStatus: absence.Status}
	req, err := s.requests.FindByAbsence(ctx, absence.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, internalError(err, "failed to load coverage request")
	}

	var shifts []coverage.ShiftCoverage
	if req != nil {
		result.CoverageRequestID = &req.ID
		result.RequestStatus = req.Status
		shifts, err = s.classifyShifts(ctx, req.ID)
		if err != nil {
			return nil, err
		}
	}

	summary := coverage.BuildShiftSummary(shifts)
	result.Summary = summary
	result.Shifts = summary.Rows()
	result.Coverage = coverage.ClassifyAbsence(summary.CoverageCounts)
	s.metrics.RecordSummaryBuilt()
	return result, nil
}

func (s *CoverageService) classifyShifts(ctx context.Context, coverageRequestID string) ([]coverage.ShiftCoverage, error) {
	shifts, err := s.requests.ListActiveShifts(ctx, coverageRequestID)
	if err != nil {
		return nil, internalError(err, "failed to load coverage shifts")
	}
	assignments, err := s.assignments.ListActiveByCoverageRequest(ctx, coverageRequestID)
	if err != nil {
		return nil, internalError(err, "failed to load sub assignments")
	}

	byShift := make(map[string][]coverage.Assignee, len(assignments))
	for _, a := range assignments {
		byShift[a.CoverageRequestShiftID] = append(byShift[a.CoverageRequestShiftID], coverage.Assignee{
			AssignmentID:     a.ID,
			SubstituteID:     a.SubstituteID,
			IsPartial:        a.IsPartial,
			PartialStartTime: a.PartialStartTime,
			PartialEndTime:   a.PartialEndTime,
		})
	}

	classified := make([]coverage.ShiftCoverage, 0, len(shifts))
	for _, shift := range shifts {
		ref := coverage.ShiftRef{
			ID:            shift.ID,
			Date:          shift.Date,
			TimeSlotCode:  shift.TimeSlotCode,
			ClassroomID:   shift.ClassroomID,
			ClassroomName: shift.ClassroomName,
		}
		classified = append(classified, coverage.ClassifyShift(ref, byShift[shift.ID]))
	}
	return classified, nil
}

// UpdateRequestStatus moves a coverage request to a new status. Cancelling cascades to the
// request's active shifts and their active assignments.
func (s *CoverageService) UpdateRequestStatus(ctx context.Context, scope models.SchoolScope, id string, req dto.UpdateCoverageRequestStatusRequest) (*models.CoverageRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid status payload")
	}
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}
	current, err := s.requests.FindByID(ctx, schoolID, id)
	if err != nil {
		return nil, notFoundOr(err, "coverage request not found", "failed to load coverage request")
	}
	if !models.CanTransitionCoverageRequest(current.Status, req.Status) {
		s.metrics.RecordRejectedTransition("coverage_request")
		return nil, transitionError(string(current.Status), string(req.Status))
	}
	if current.Status == req.Status {
		return current, nil
	}

	err = s.tx.WithTx(ctx, func(exec sqlx.ExtContext) error {
		if err := s.requests.UpdateStatus(ctx, exec, current.ID, req.Status); err != nil {
			return err
		}
		if req.Status != models.CoverageRequestStatusCancelled {
			return nil
		}
		if _, err := s.assignments.CancelActiveByCoverageRequest(ctx, exec, current.ID); err != nil {
			return err
		}
		_, err := s.requests.CancelActiveShifts(ctx, exec, current.ID)
		return err
	})
	if err != nil {
		return nil, internalError(err, "failed to update coverage request status")
	}

	s.logger.Info("coverage request status changed",
		zap.String("coverage_request_id", current.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(req.Status)))
	current.Status = req.Status
	s.refresh(ctx, schoolID, current.AbsenceID)
	return current, nil
}

// CancelShift cancels one coverage shift and any active assignment on it.
func (s *CoverageService) CancelShift(ctx context.Context, scope models.SchoolScope, shiftID string) (*models.CoverageRequestShift, error) {
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}
	shift, err := s.requests.FindShiftByID(ctx, shiftID)
	if err != nil {
		return nil, notFoundOr(err, "coverage shift not found", "failed to load coverage shift")
	}
	req, err := s.requests.FindByID(ctx, schoolID, shift.CoverageRequestID)
	if err != nil {
		return nil, notFoundOr(err, "coverage shift not found", "failed to load coverage request")
	}

	next := models.CoverageShiftStatusCancelled
	if !models.CanTransitionCoverageShift(shift.Status, next) {
		s.metrics.RecordRejectedTransition("coverage_shift")
		return nil, transitionError(string(shift.Status), string(next))
	}
	if shift.Status == next {
		return shift, nil
	}

	err = s.tx.WithTx(ctx, func(exec sqlx.ExtContext) error {
		if err := s.requests.UpdateShiftStatus(ctx, exec, shift.ID, next); err != nil {
			return err
		}
		_, err := s.assignments.CancelActiveByShift(ctx, exec, shift.ID)
		return err
	})
	if err != nil {
		return nil, internalError(err, "failed to cancel coverage shift")
	}
	shift.Status = next
	s.refresh(ctx, schoolID, req.AbsenceID)
	return shift, nil
}

// MarkFilled moves an open request to filled once every active shift is fully covered.
// It reports whether the status changed.
func (s *CoverageService) MarkFilled(ctx context.Context, schoolID, coverageRequestID string, summary coverage.ShiftSummary) (bool, error) {
	if summary.Total == 0 || summary.Status != coverage.CoverageCovered {
		return false, nil
	}
	req, err := s.requests.FindByID(ctx, schoolID, coverageRequestID)
	if err != nil {
		return false, notFoundOr(err, "coverage request not found", "failed to load coverage request")
	}
	next := models.CoverageRequestStatusFilled
	if req.Status == next || !models.CanTransitionCoverageRequest(req.Status, next) {
		return false, nil
	}
	err = s.tx.WithTx(ctx, func(exec sqlx.ExtContext) error {
		return s.requests.UpdateStatus(ctx, exec, req.ID, next)
	})
	if err != nil {
		return false, internalError(err, "failed to mark coverage request filled")
	}
	return true, nil
}

func (s *CoverageService) refresh(ctx context.Context, schoolID string, absenceID *string) {
	if s.refresher == nil || absenceID == nil {
		return
	}
	s.refresher.Refresh(ctx, schoolID, *absenceID)
}
