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
)

type absenceRepository interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.AbsenceRequest, error)
	Create(ctx context.Context, exec sqlx.ExtContext, absence *models.AbsenceRequest) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.AbsenceStatus) error
	CreateShifts(ctx context.Context, exec sqlx.ExtContext, shifts []models.AbsenceShift) error
	ListShifts(ctx context.Context, absenceID string) ([]models.AbsenceShift, error)
}

type absenceCoverageRequestRepository interface {
	FindByAbsence(ctx context.Context, absenceID string) (*models.CoverageRequest, error)
	Create(ctx context.Context, exec sqlx.ExtContext, req *models.CoverageRequest) error
	CreateShifts(ctx context.Context, exec sqlx.ExtContext, shifts []models.CoverageRequestShift) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.CoverageRequestStatus) error
	CancelActiveShifts(ctx context.Context, exec sqlx.ExtContext, coverageRequestID string) (int64, error)
}

type absenceAssignmentRepository interface {
	CancelActiveByCoverageRequest(ctx context.Context, exec sqlx.ExtContext, coverageRequestID string) (int64, error)
}

type scheduleSlotReader interface {
	ListSlotsByTeacher(ctx context.Context, schoolID, teacherID string) ([]models.TeacherScheduleSlot, error)
}

// AbsenceService manages the absence lifecycle and the coverage request it opens.
type AbsenceService struct {
	absences    absenceRepository
	requests    absenceCoverageRequestRepository
	assignments absenceAssignmentRepository
	schedules   scheduleSlotReader
	tx          txRunner
	refresher   coverageRefresher
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAbsenceService constructs an absence service.
func NewAbsenceService(absences absenceRepository, requests absenceCoverageRequestRepository, assignments absenceAssignmentRepository, schedules scheduleSlotReader, tx txRunner, refresher coverageRefresher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AbsenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbsenceService{
		absences:    absences,
		requests:    requests,
		assignments: assignments,
		schedules:   schedules,
		tx:          tx,
		refresher:   refresher,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Create records a draft absence and the baseline shifts it affects.
func (s *AbsenceService) Create(ctx context.Context, scope models.SchoolScope, req dto.CreateAbsenceRequest) (*dto.AbsenceDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid absence payload")
	}
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}

	slots, err := s.schedules.ListSlotsByTeacher(ctx, schoolID, req.StaffID)
	if err != nil {
		return nil, internalError(err, "failed to load teacher schedule")
	}
	for _, slot := range slots {
		if !coverage.ValidTimeSlotCode(slot.TimeSlotCode) {
			s.logger.Warn("skipping baseline slot with unusable time slot code",
				zap.String("staff_id", req.StaffID),
				zap.String("time_slot_id", slot.TimeSlotID),
				zap.String("time_slot_code", slot.TimeSlotCode))
		}
	}
	shifts, err := coverage.DeriveAbsenceShifts(req.StartDate, req.EndDate, req.SelectionMode, req.ShiftKeys, slots)
	if err != nil {
		return nil, validationError(err, err.Error())
	}

	absence := &models.AbsenceRequest{
		SchoolID:      schoolID,
		StaffID:       req.StaffID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        models.AbsenceStatusDraft,
		SelectionMode: req.SelectionMode,
		Reason:        req.Reason,
	}
	err = s.tx.WithTx(ctx, func(exec sqlx.ExtContext) error {
		if err := s.absences.Create(ctx, exec, absence); err != nil {
			return err
		}
		for i := range shifts {
			shifts[i].AbsenceID = absence.ID
		}
		return s.absences.CreateShifts(ctx, exec, shifts)
	})
	if err != nil {
		return nil, internalError(err, "failed to create absence")
	}

	s.logger.Info("absence created",
		zap.String("absence_id", absence.ID),
		zap.String("staff_id", absence.StaffID),
		zap.Int("shifts", len(shifts)))
	return &dto.AbsenceDetail{Absence: absence, Shifts: shifts}, nil
}

// Get returns an absence with its shifts.
func (s *AbsenceService) Get(ctx context.Context, scope models.SchoolScope, id string) (*dto.AbsenceDetail, error) {
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}
	absence, err := s.absences.FindByID(ctx, schoolID, id)
	if err != nil {
		return nil, notFoundOr(err, "absence not found", "failed to load absence")
	}
	return s.detail(ctx, absence)
}

// Activate moves a draft absence to active and opens its coverage request.
func (s *AbsenceService) Activate(ctx context.Context, scope models.SchoolScope, id string) (*dto.AbsenceDetail, error) {
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}
	absence, err := s.absences.FindByID(ctx, schoolID, id)
	if err != nil {
		return nil, notFoundOr(err, "absence not found", "failed to load absence")
	}
	next := models.AbsenceStatusActive
	if !models.CanTransitionAbsence(absence.Status, next) {
		s.metrics.RecordRejectedTransition("absence")
		return nil, transitionError(string(absence.Status), string(next))
	}
	if absence.Status == next {
		return s.detail(ctx, absence)
	}

	shifts, err := s.absences.ListShifts(ctx, absence.ID)
	if err != nil {
		return nil, internalError(err, "failed to load absence shifts")
	}

	request := &models.CoverageRequest{
		SchoolID:  schoolID,
		AbsenceID: &absence.ID,
		StaffID:   absence.StaffID,
		Status:    models.CoverageRequestStatusOpen,
	}
	err = s.tx.WithTx(ctx, func(exec sqlx.ExtContext) error {
		if err := s.absences.UpdateStatus(ctx, exec, absence.ID, next); err != nil {
			return err
		}
		if err := s.requests.Create(ctx, exec, request); err != nil {
			return err
		}
		coverageShifts := make([]models.CoverageRequestShift, 0, len(shifts))
		for i := range shifts {
			coverageShifts = append(coverageShifts, models.CoverageRequestShift{
				CoverageRequestID: request.ID,
				AbsenceShiftID:    &shifts[i].ID,
				Date:              shifts[i].Date,
				TimeSlotID:        shifts[i].TimeSlotID,
				TimeSlotCode:      shifts[i].TimeSlotCode,
				ClassroomID:       shifts[i].ClassroomID,
				ClassroomName:     shifts[i].ClassroomName,
				Status:            models.CoverageShiftStatusActive,
			})
		}
		return s.requests.CreateShifts(ctx, exec, coverageShifts)
	})
	if err != nil {
		return nil, internalError(err, "failed to activate absence")
	}

	absence.Status = next
	s.logger.Info("absence activated", zap.String("absence_id", absence.ID), zap.String("coverage_request_id", request.ID))
	s.refresh(ctx, schoolID, absence.ID)
	return &dto.AbsenceDetail{Absence: absence, Shifts: shifts, CoverageRequestID: &request.ID}, nil
}

// Cancel cancels an absence and cascades to its coverage request, shifts and assignments.
// Downstream records whose tables do not allow cancellation are left untouched.
func (s *AbsenceService) Cancel(ctx context.Context, scope models.SchoolScope, id string) (*dto.AbsenceDetail, error) {
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}
	absence, err := s.absences.FindByID(ctx, schoolID, id)
	if err != nil {
		return nil, notFoundOr(err, "absence not found", "failed to load absence")
	}
	next := models.AbsenceStatusCancelled
	if !models.CanTransitionAbsence(absence.Status, next) {
		s.metrics.RecordRejectedTransition("absence")
		return nil, transitionError(string(absence.Status), string(next))
	}
	if absence.Status == next {
		return s.detail(ctx, absence)
	}

	request, err := s.requests.FindByAbsence(ctx, absence.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, internalError(err, "failed to load coverage request")
	}

	err = s.tx.WithTx(ctx, func(exec sqlx.ExtContext) error {
		if err := s.absences.UpdateStatus(ctx, exec, absence.ID, next); err != nil {
			return err
		}
		if request == nil || !models.CanTransitionCoverageRequest(request.Status, models.CoverageRequestStatusCancelled) {
			return nil
		}
		if request.Status != models.CoverageRequestStatusCancelled {
			if err := s.requests.UpdateStatus(ctx, exec, request.ID, models.CoverageRequestStatusCancelled); err != nil {
				return err
			}
		}
		if _, err := s.assignments.CancelActiveByCoverageRequest(ctx, exec, request.ID); err != nil {
			return err
		}
		_, err := s.requests.CancelActiveShifts(ctx, exec, request.ID)
		return err
	})
	if err != nil {
		return nil, internalError(err, "failed to cancel absence")
	}

	absence.Status = next
	s.logger.Info("absence cancelled", zap.String("absence_id", absence.ID))
	s.refresh(ctx, schoolID, absence.ID)
	return s.detail(ctx, absence)
}

func (s *AbsenceService) detail(ctx context.Context, absence *models.AbsenceRequest) (*dto.AbsenceDetail, error) {
	shifts, err := s.absences.ListShifts(ctx, absence.ID)
	if err != nil {
		return nil, internalError(err, "failed to load absence shifts")
	}
	detail := &dto.AbsenceDetail{Absence: absence, Shifts: shifts}
	if absence.Status != models.AbsenceStatusDraft {
		request, err := s.requests.FindByAbsence(ctx, absence.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, internalError(err, "failed to load coverage request")
		}
		if request != nil {
			detail.CoverageRequestID = &request.ID
		}
	}
	return detail, nil
}

func (s *AbsenceService) refresh(ctx context.Context, schoolID, absenceID string) {
	if s.refresher == nil {
		return
	}
	s.refresher.Refresh(ctx, schoolID, absenceID)
}
