package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/internal/models"
	"github.com/noah-isme/coverage-api/internal/repository"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
)

type assignmentRequestReader interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.CoverageRequest, error)
	FindShiftByID(ctx context.Context, id string) (*models.CoverageRequestShift, error)
}

type subAssignmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.SubAssignment, error)
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.SubAssignment) error
	CountActiveByShift(ctx context.Context, exec sqlx.ExtContext, shiftID string) (int, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.SubAssignmentStatus) error
}

// SubAssignmentService books and cancels substitute assignments. A shift holds at most one
// active assignment.
type SubAssignmentService struct {
	requests    assignmentRequestReader
	assignments subAssignmentRepository
	tx          txRunner
	refresher   coverageRefresher
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubAssignmentService constructs a sub assignment service.
func NewSubAssignmentService(requests assignmentRequestReader, assignments subAssignmentRepository, tx txRunner, refresher coverageRefresher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SubAssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubAssignmentService{
		requests:    requests,
		assignments: assignments,
		tx:          tx,
		refresher:   refresher,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Assign books a substitute onto an active coverage shift.
func (s *SubAssignmentService) Assign(ctx context.Context, scope models.SchoolScope, req dto.CreateSubAssignmentRequest) (*models.SubAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid assignment payload")
	}
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}
	shift, request, err := s.loadShift(ctx, schoolID, req.CoverageRequestShiftID)
	if err != nil {
		return nil, err
	}
	if shift.Status != models.CoverageShiftStatusActive {
		return nil, appErrors.Clone(appErrors.ErrConflict, "coverage shift is cancelled")
	}
	if request.Status == models.CoverageRequestStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "coverage request is cancelled")
	}

	assignment := &models.SubAssignment{
		CoverageRequestShiftID: shift.ID,
		SubstituteID:           req.SubstituteID,
		Date:                   shift.Date,
		IsPartial:              req.IsPartial,
		Status:                 models.SubAssignmentStatusActive,
	}
	if req.IsPartial {
		assignment.PartialStartTime = req.PartialStartTime
		assignment.PartialEndTime = req.PartialEndTime
	}

	err = s.tx.WithTx(ctx, func(exec sqlx.ExtContext) error {
		count, err := s.assignments.CountActiveByShift(ctx, exec, shift.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return appErrors.Clone(appErrors.ErrConflict, "coverage shift already has an active assignment")
		}
		if err := s.assignments.Create(ctx, exec, assignment); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return appErrors.Clone(appErrors.ErrConflict, "coverage shift already has an active assignment")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to create sub assignment")
	}

	s.metrics.RecordAssignments(1)
	s.logger.Info("sub assignment created",
		zap.String("assignment_id", assignment.ID),
		zap.String("shift_id", shift.ID),
		zap.String("substitute_id", assignment.SubstituteID),
		zap.Bool("partial", assignment.IsPartial))
	s.refresh(ctx, schoolID, request)
	return assignment, nil
}

// Cancel cancels an assignment. Cancelling a cancelled assignment is a no-op.
func (s *SubAssignmentService) Cancel(ctx context.Context, scope models.SchoolScope, id string) (*models.SubAssignment, error) {
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "sub assignment not found", "failed to load sub assignment")
	}
	_, request, err := s.loadShift(ctx, schoolID, assignment.CoverageRequestShiftID)
	if err != nil {
		return nil, err
	}

	next := models.SubAssignmentStatusCancelled
	if !models.CanTransitionSubAssignment(assignment.Status, next) {
		s.metrics.RecordRejectedTransition("sub_assignment")
		return nil, transitionError(string(assignment.Status), string(next))
	}
	if assignment.Status == next {
		return assignment, nil
	}

	err = s.tx.WithTx(ctx, func(exec sqlx.ExtContext) error {
		return s.assignments.UpdateStatus(ctx, exec, assignment.ID, next)
	})
	if err != nil {
		return nil, internalError(err, "failed to cancel sub assignment")
	}
	assignment.Status = next
	s.refresh(ctx, schoolID, request)
	return assignment, nil
}

func (s *SubAssignmentService) loadShift(ctx context.Context, schoolID, shiftID string) (*models.CoverageRequestShift, *models.CoverageRequest, error) {
	shift, err := s.requests.FindShiftByID(ctx, shiftID)
	if err != nil {
		return nil, nil, notFoundOr(err, "coverage shift not found", "failed to load coverage shift")
	}
	request, err := s.requests.FindByID(ctx, schoolID, shift.CoverageRequestID)
	if err != nil {
		return nil, nil, notFoundOr(err, "coverage shift not found", "failed to load coverage request")
	}
	return shift, request, nil
}

func (s *SubAssignmentService) refresh(ctx context.Context, schoolID string, request *models.CoverageRequest) {
	if s.refresher == nil || request.AbsenceID == nil {
		return
	}
	s.refresher.Refresh(ctx, schoolID, *request.AbsenceID)
}
