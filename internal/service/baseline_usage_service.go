package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/coverage-api/internal/models"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
)

type baselineUsageRepository interface {
	StaffInUse(ctx context.Context, schoolID, staffID string) (bool, error)
	ClassroomInUse(ctx context.Context, schoolID, classroomID string) (bool, error)
	ClassGroupInUse(ctx context.Context, schoolID, classGroupID string) (bool, error)
	TimeSlotInUse(ctx context.Context, schoolID, timeSlotID string) (bool, error)
}

// BaselineUsageService reports whether master data is referenced by an active baseline
// schedule cell. Without a resolvable school every check answers false without querying.
type BaselineUsageService struct {
	repo   baselineUsageRepository
	logger *zap.Logger
}

// NewBaselineUsageService constructs a baseline usage service.
func NewBaselineUsageService(repo baselineUsageRepository, logger *zap.Logger) *BaselineUsageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaselineUsageService{repo: repo, logger: logger}
}

// IsStaffUsedInBaselineSchedule reports whether the staff member teaches in an active cell.
func (s *BaselineUsageService) IsStaffUsedInBaselineSchedule(ctx context.Context, staffID string, scope models.SchoolScope) (bool, error) {
	return s.check(ctx, scope, "staff", staffID, s.repo.StaffInUse)
}

// IsClassroomUsedInBaselineSchedule reports whether the classroom hosts an active cell.
func (s *BaselineUsageService) IsClassroomUsedInBaselineSchedule(ctx context.Context, classroomID string, scope models.SchoolScope) (bool, error) {
	return s.check(ctx, scope, "classroom", classroomID, s.repo.ClassroomInUse)
}

// IsClassGroupUsedInBaselineSchedule reports whether the class group belongs to an active cell.
func (s *BaselineUsageService) IsClassGroupUsedInBaselineSchedule(ctx context.Context, classGroupID string, scope models.SchoolScope) (bool, error) {
	return s.check(ctx, scope, "class_group", classGroupID, s.repo.ClassGroupInUse)
}

// IsTimeSlotUsedInBaselineSchedule reports whether an active cell occupies the time slot.
func (s *BaselineUsageService) IsTimeSlotUsedInBaselineSchedule(ctx context.Context, timeSlotID string, scope models.SchoolScope) (bool, error) {
	return s.check(ctx, scope, "time_slot", timeSlotID, s.repo.TimeSlotInUse)
}

func (s *BaselineUsageService) check(ctx context.Context, scope models.SchoolScope, kind, id string, lookup func(context.Context, string, string) (bool, error)) (bool, error) {
	schoolID, ok := scope.SchoolID()
	if !ok {
		return false, nil
	}
	used, err := lookup(ctx, schoolID, id)
	if err != nil {
		s.logger.Warn("baseline usage lookup failed", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check baseline usage")
	}
	return used, nil
}
