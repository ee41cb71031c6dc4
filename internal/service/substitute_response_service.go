package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/coverage-api/internal/coverage"
	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/internal/models"
	"github.com/noah-isme/coverage-api/internal/repository"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
)

type responseRequestReader interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.CoverageRequest, error)
	ListActiveShifts(ctx context.Context, coverageRequestID string) ([]models.CoverageRequestShift, error)
}

type substituteContactRepository interface {
	FindByRequestAndSubstitute(ctx context.Context, coverageRequestID, substituteID string) (*models.SubstituteContact, error)
	Create(ctx context.Context, exec sqlx.ExtContext, contact *models.SubstituteContact) error
	UpdateWithVersion(ctx context.Context, exec sqlx.ExtContext, contact *models.SubstituteContact, expectedVersion int) error
	ReplaceOverrides(ctx context.Context, exec sqlx.ExtContext, contactID string, overrides []models.ShiftOverride) error
	ListOverrides(ctx context.Context, contactID string) ([]models.ShiftOverride, error)
}

type responseAssignmentRepository interface {
	ListActiveBySubstitute(ctx context.Context, coverageRequestID, substituteID string) ([]models.SubAssignment, error)
	CountActiveByShift(ctx context.Context, exec sqlx.ExtContext, shiftID string) (int, error)
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.SubAssignment) error
}

// SubstituteResponseService records a substitute's answer to a coverage request.
type SubstituteResponseService struct {
	requests    responseRequestReader
	contacts    substituteContactRepository
	assignments responseAssignmentRepository
	tx          txRunner
	refresher   coverageRefresher
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewSubstituteResponseService constructs a substitute response service.
func NewSubstituteResponseService(requests responseRequestReader, contacts substituteContactRepository, assignments responseAssignmentRepository, tx txRunner, refresher coverageRefresher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SubstituteResponseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstituteResponseService{
		requests:    requests,
		contacts:    contacts,
		assignments: assignments,
		tx:          tx,
		refresher:   refresher,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Respond resolves the declared shift sets into override rows, stores them with the contact
// state and optionally books the selected shifts.
func (s *SubstituteResponseService) Respond(ctx context.Context, scope models.SchoolScope, req dto.SubstituteResponseRequest) (*dto.SubstituteResponseResult, error) {
	if req.CoverageRequestID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "coverage_request_id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid substitute response payload")
	}
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}

	request, err := s.requests.FindByID(ctx, schoolID, req.CoverageRequestID)
	if err != nil {
		return nil, notFoundOr(err, "coverage request not found", "failed to load coverage request")
	}
	shifts, err := s.requests.ListActiveShifts(ctx, request.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coverage shifts")
	}

	shiftIDs := make(map[string]string, len(shifts))
	keysByID := make(map[string]string, len(shifts))
	datesByID := make(map[string]string, len(shifts))
	for _, shift := range shifts {
		if !coverage.ValidDate(shift.Date) || !coverage.ValidTimeSlotCode(shift.TimeSlotCode) {
			s.logger.Warn("skipping coverage shift that cannot form a shift key",
				zap.String("shift_id", shift.ID),
				zap.String("date", shift.Date),
				zap.String("time_slot_code", shift.TimeSlotCode))
			continue
		}
		key := coverage.ShiftKey(shift.Date, shift.TimeSlotCode)
		if _, exists := shiftIDs[key]; exists {
			continue
		}
		shiftIDs[key] = shift.ID
		keysByID[shift.ID] = key
		datesByID[shift.ID] = shift.Date
	}

	resolved := coverage.ResolveShiftOverrides(coverage.ResolveInput{
		Selected:    req.Selected,
		Override:    req.Override,
		Available:   req.Available,
		Unavailable: req.Unavailable,
		ShiftIDs:    shiftIDs,
	})

	if req.BookAssignments && request.Status == models.CoverageRequestStatusCancelled && len(resolved.SelectedShiftIDs) > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "coverage request is cancelled")
	}

	held, err := s.assignments.ListActiveBySubstitute(ctx, request.ID, req.SubstituteID)
	if err != nil {
		return nil, internalError(err, "failed to load sub assignments")
	}
	heldShifts := make(map[string]struct{}, len(held))
	for _, a := range held {
		heldShifts[a.CoverageRequestShiftID] = struct{}{}
	}

	contact, err := s.contacts.FindByRequestAndSubstitute(ctx, request.ID, req.SubstituteID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, internalError(err, "failed to load substitute contact")
	}
	isNew := contact == nil
	if isNew {
		if req.Version != 0 {
			return nil, appErrors.Clone(appErrors.ErrConflict, "substitute contact does not exist at the given version")
		}
		contact = &models.SubstituteContact{CoverageRequestID: request.ID, SubstituteID: req.SubstituteID}
	}
	s.applyContactState(contact, req)

	overrides := make([]models.ShiftOverride, 0, len(resolved.Overrides))
	for _, record := range resolved.Overrides {
		overrides = append(overrides, models.ShiftOverride{
			CoverageRequestShiftID: record.ShiftID,
			Selected:               record.Selected,
			OverrideAvailability:   record.OverrideAvailability,
		})
	}

	var booked []models.SubAssignment
	err = s.tx.WithTx(ctx, func(exec sqlx.ExtContext) error {
		if isNew {
			if err := s.contacts.Create(ctx, exec, contact); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return appErrors.Clone(appErrors.ErrConflict, "substitute contact was created by another response")
				}
				return err
			}
		} else if err := s.contacts.UpdateWithVersion(ctx, exec, contact, req.Version); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrConflict, "substitute contact was modified by another response")
			}
			return err
		}
		if err := s.contacts.ReplaceOverrides(ctx, exec, contact.ID, overrides); err != nil {
			return err
		}
		if !req.BookAssignments {
			return nil
		}
		for _, shiftID := range resolved.SelectedShiftIDs {
			if _, ok := heldShifts[shiftID]; ok {
				continue
			}
			count, err := s.assignments.CountActiveByShift(ctx, exec, shiftID)
			if err != nil {
				return err
			}
			if count > 0 {
				return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("shift %s already has an active assignment", keysByID[shiftID]))
			}
			assignment := models.SubAssignment{
				CoverageRequestShiftID: shiftID,
				SubstituteID:           req.SubstituteID,
				Date:                   datesByID[shiftID],
				Status:                 models.SubAssignmentStatusActive,
			}
			if err := s.assignments.Create(ctx, exec, &assignment); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("shift %s already has an active assignment", keysByID[shiftID]))
				}
				return err
			}
			booked = append(booked, assignment)
		}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to store substitute response")
	}

	assignedKeys := make([]string, 0, len(heldShifts)+len(booked))
	for shiftID := range heldShifts {
		if key, ok := keysByID[shiftID]; ok {
			assignedKeys = append(assignedKeys, key)
		}
	}
	for _, a := range booked {
		assignedKeys = append(assignedKeys, keysByID[a.CoverageRequestShiftID])
	}

	s.metrics.RecordSubstituteResponse(string(contact.ResponseStatus))
	s.metrics.RecordAssignments(len(booked))
	s.logger.Info("substitute response stored",
		zap.String("coverage_request_id", request.ID),
		zap.String("substitute_id", req.SubstituteID),
		zap.Int("overrides", len(overrides)),
		zap.Int("booked", len(booked)))
	if len(booked) > 0 && request.AbsenceID != nil && s.refresher != nil {
		s.refresher.Refresh(ctx, schoolID, *request.AbsenceID)
	}

	if booked == nil {
		booked = []models.SubAssignment{}
	}
	return &dto.SubstituteResponseResult{
		Contact:          contact,
		Overrides:        resolved.Overrides,
		SelectedShiftIDs: resolved.SelectedShiftIDs,
		Assignments:      booked,
		ShiftStates:      coverage.MergeShiftStates(assignedKeys, knownKeys(req.Available, shiftIDs), knownKeys(req.Unavailable, shiftIDs)),
	}, nil
}

// GetContact returns a substitute's stored contact on a coverage request with its override rows.
func (s *SubstituteResponseService) GetContact(ctx context.Context, scope models.SchoolScope, coverageRequestID, substituteID string) (*dto.SubstituteContactDetail, error) {
	schoolID, err := requireSchool(scope)
	if err != nil {
		return nil, err
	}
	request, err := s.requests.FindByID(ctx, schoolID, coverageRequestID)
	if err != nil {
		return nil, notFoundOr(err, "coverage request not found", "failed to load coverage request")
	}
	contact, err := s.contacts.FindByRequestAndSubstitute(ctx, request.ID, substituteID)
	if err != nil {
		return nil, notFoundOr(err, "substitute contact not found", "failed to load substitute contact")
	}
	overrides, err := s.contacts.ListOverrides(ctx, contact.ID)
	if err != nil {
		return nil, internalError(err, "failed to load shift overrides")
	}
	if overrides == nil {
		overrides = []models.ShiftOverride{}
	}
	return &dto.SubstituteContactDetail{Contact: contact, Overrides: overrides}, nil
}

func (s *SubstituteResponseService) applyContactState(contact *models.SubstituteContact, req dto.SubstituteResponseRequest) {
	status := req.ResponseStatus
	if status == "" {
		status = models.ResponseStatusPending
	}
	contact.ResponseStatus = status
	contact.Notes = req.Notes
	if req.IsContacted && !contact.IsContacted {
		now := s.now().UTC()
		contact.ContactedAt = &now
	}
	contact.IsContacted = contact.IsContacted || req.IsContacted
}

func knownKeys(keys []string, shiftIDs map[string]string) []string {
	known := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := shiftIDs[key]; ok {
			known = append(known, key)
		}
	}
	return known
}
