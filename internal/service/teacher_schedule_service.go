package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/internal/models"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
)

type teacherScheduleWriter interface {
	BulkCreate(ctx context.Context, exec sqlx.ExtContext, schedules []models.TeacherSchedule) error
	DeleteByIDs(ctx context.Context, exec sqlx.ExtContext, ids []string) error
}

type placementConflictChecker interface {
	CheckScheduleConflicts(ctx context.Context, scope models.SchoolScope, checks []models.PlacementCheck) ([]models.ScheduleConflict, error)
}

// TeacherScheduleService writes baseline placements after running conflict detection.
type TeacherScheduleService struct {
	repo      teacherScheduleWriter
	conflicts placementConflictChecker
	tx        txRunner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherScheduleService constructs a teacher schedule service.
func NewTeacherScheduleService(repo teacherScheduleWriter, conflicts placementConflictChecker, tx txRunner, validate *validator.Validate, logger *zap.Logger) *TeacherScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherScheduleService{repo: repo, conflicts: conflicts, tx: tx, validator: validate, logger: logger}
}

// CreatePlacements inserts a batch of placements. Proposals are checked against the stored
// schedule and against earlier proposals of the same batch. When conflicts exist the batch is
// rejected, or resolved by replacing the conflicting placements, or by inserting the colliding
// proposals as floaters. On rejection the result carries the conflicts alongside the error.
func (s *TeacherScheduleService) CreatePlacements(ctx context.Context, scope models.SchoolScope, req dto.CreateTeacherSchedulesRequest) (*dto.CreateTeacherSchedulesResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid placement payload")
	}
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}
	resolution := req.Resolution
	if resolution == "" {
		resolution = dto.ResolutionReject
	}

	checks := make([]models.PlacementCheck, 0, len(req.Placements))
	checkIndex := make([]int, 0, len(req.Placements))
	for i, p := range req.Placements {
		if p.IsFloater {
			continue
		}
		checks = append(checks, models.PlacementCheck{
			TeacherID:   p.TeacherID,
			DayOfWeekID: p.DayOfWeekID,
			TimeSlotID:  p.TimeSlotID,
			ClassroomID: p.ClassroomID,
		})
		checkIndex = append(checkIndex, i)
	}

	stored := []models.ScheduleConflict{}
	if len(checks) > 0 {
		stored, err = s.conflicts.CheckScheduleConflicts(ctx, scope, checks)
		if err != nil {
			return nil, err
		}
	}
	inBatch, colliding, superseded := batchConflicts(req.Placements)
	conflicts := append(stored, inBatch...)
	result := &dto.CreateTeacherSchedulesResult{
		Created:   []models.TeacherSchedule{},
		Conflicts: conflicts,
		Removed:   []string{},
	}

	storedTargets := make(map[string][]int, len(stored))
	for _, conflict := range stored {
		for ci, check := range checks {
			if check.TeacherID == conflict.TeacherID && check.DayOfWeekID == conflict.DayOfWeekID &&
				check.TimeSlotID == conflict.TimeSlotID && check.ClassroomID == conflict.TargetClassroomID {
				colliding[checkIndex[ci]] = struct{}{}
				storedTargets[conflict.TeacherScheduleID] = append(storedTargets[conflict.TeacherScheduleID], checkIndex[ci])
			}
		}
	}

	if len(conflicts) > 0 && resolution == dto.ResolutionReject {
		return result, appErrors.Clone(appErrors.ErrScheduleConflict, "placements conflict with the baseline schedule")
	}

	schedules := make([]models.TeacherSchedule, 0, len(req.Placements))
	for i, p := range req.Placements {
		if _, dropped := superseded[i]; dropped && resolution == dto.ResolutionReplace {
			continue
		}
		_, collides := colliding[i]
		schedules = append(schedules, models.TeacherSchedule{
			SchoolID:     schoolID,
			TeacherID:    p.TeacherID,
			DayOfWeekID:  p.DayOfWeekID,
			TimeSlotID:   p.TimeSlotID,
			ClassGroupID: p.ClassGroupID,
			ClassroomID:  p.ClassroomID,
			IsFloater:    p.IsFloater || (collides && resolution == dto.ResolutionFloater),
		})
	}

	if resolution == dto.ResolutionReplace {
		seen := make(map[string]struct{}, len(stored))
		for _, conflict := range stored {
			if _, dup := seen[conflict.TeacherScheduleID]; dup {
				continue
			}
			seen[conflict.TeacherScheduleID] = struct{}{}
			if !anyKept(storedTargets[conflict.TeacherScheduleID], superseded) {
				continue
			}
			result.Removed = append(result.Removed, conflict.TeacherScheduleID)
		}
	}

	err = s.tx.WithTx(ctx, func(exec sqlx.ExtContext) error {
		if err := s.repo.DeleteByIDs(ctx, exec, result.Removed); err != nil {
			return err
		}
		return s.repo.BulkCreate(ctx, exec, schedules)
	})
	if err != nil {
		return nil, internalError(err, "failed to create teacher schedules")
	}

	s.logger.Info("teacher placements created",
		zap.Int("created", len(schedules)),
		zap.Int("conflicts", len(conflicts)),
		zap.String("resolution", string(resolution)))
	result.Created = schedules
	return result, nil
}

type placementSlot struct {
	teacherID   string
	dayOfWeekID string
	timeSlotID  string
}

// batchConflicts pairs every non-floater proposal with the earlier proposals of the batch that
// put the same teacher in a different classroom on the same day and slot. It returns those
// conflicts, the indexes of the later (colliding) proposals and of the earlier (superseded) ones.
func batchConflicts(placements []dto.PlacementInput) ([]models.ScheduleConflict, map[int]struct{}, map[int]struct{}) {
	conflicts := []models.ScheduleConflict{}
	colliding := make(map[int]struct{})
	superseded := make(map[int]struct{})
	earlier := make(map[placementSlot][]int)
	for i, p := range placements {
		if p.IsFloater {
			continue
		}
		key := placementSlot{teacherID: p.TeacherID, dayOfWeekID: p.DayOfWeekID, timeSlotID: p.TimeSlotID}
		for _, j := range earlier[key] {
			prior := placements[j]
			if prior.ClassroomID == p.ClassroomID {
				continue
			}
			index := j
			conflicts = append(conflicts, models.ScheduleConflict{
				TeacherID:         prior.TeacherID,
				DayOfWeekID:       prior.DayOfWeekID,
				TimeSlotID:        prior.TimeSlotID,
				ClassroomID:       prior.ClassroomID,
				ClassGroupID:      prior.ClassGroupID,
				TargetClassroomID: p.ClassroomID,
				ProposalIndex:     &index,
			})
			colliding[i] = struct{}{}
			superseded[j] = struct{}{}
		}
		earlier[key] = append(earlier[key], i)
	}
	return conflicts, colliding, superseded
}

func anyKept(indexes []int, superseded map[int]struct{}) bool {
	for _, i := range indexes {
		if _, dropped := superseded[i]; !dropped {
			return true
		}
	}
	return false
}
