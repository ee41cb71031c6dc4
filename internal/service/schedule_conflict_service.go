package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/coverage-api/internal/models"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
)

type conflictFinder interface {
	FindConflicting(ctx context.Context, schoolID string, check models.PlacementCheck) ([]models.ScheduleConflict, error)
}

// ScheduleConflictService detects teacher placements that collide with the baseline schedule.
type ScheduleConflictService struct {
	repo      conflictFinder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleConflictService constructs a schedule conflict service.
func NewScheduleConflictService(repo conflictFinder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScheduleConflictService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleConflictService{repo: repo, metrics: metrics, validator: validate, logger: logger}
}

// CheckScheduleConflicts returns every existing non-floater placement of the same teacher,
// day and time slot in a different classroom, for each check. A failed lookup aborts the
// whole batch.
func (s *ScheduleConflictService) CheckScheduleConflicts(ctx context.Context, scope models.SchoolScope, checks []models.PlacementCheck) ([]models.ScheduleConflict, error) {
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}
	for _, check := range checks {
		if err := s.validator.Struct(check); err != nil {
			return nil, validationError(err, "invalid placement check")
		}
	}

	conflicts := make([]models.ScheduleConflict, 0)
	for _, check := range checks {
		found, err := s.repo.FindConflicting(ctx, schoolID, check)
		if err != nil {
			s.logger.Warn("schedule conflict lookup failed",
				zap.String("teacher_id", check.TeacherID),
				zap.String("time_slot_id", check.TimeSlotID),
				zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
		}
		for _, conflict := range found {
			conflict.TargetClassroomID = check.ClassroomID
			conflicts = append(conflicts, conflict)
		}
	}
	s.metrics.RecordConflicts(len(conflicts))
	return conflicts, nil
}
