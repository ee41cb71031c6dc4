package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/coverage-api/internal/coverage"
	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/internal/models"
	"github.com/noah-isme/coverage-api/internal/repository"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
)

func newResponseServiceForTest(m *memStore, refresher coverageRefresher) *SubstituteResponseService {
	return NewSubstituteResponseService(requestRepoStub{m}, contactRepoStub{m}, assignmentRepoStub{m}, &txStub{}, refresher, nil, validator.New(), zap.NewNop())
}

func TestSubstituteResponseRequiresCoverageRequestID(t *testing.T) {
	svc := newResponseServiceForTest(newMemStore(), nil)
	_, err := svc.Respond(context.Background(), schoolScope, dto.SubstituteResponseRequest{SubstituteID: "sub-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "coverage_request_id is required", appErr.Message)
}

func TestSubstituteResponseShiftLookupFailure(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	m.listShiftsErr = errors.New("connection refused")
	svc := newResponseServiceForTest(m, nil)

	_, err := svc.Respond(context.Background(), schoolScope, dto.SubstituteResponseRequest{CoverageRequestID: req.ID, SubstituteID: "sub-1"})
	require.Error(t, err)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}

func TestSubstituteResponseResolvesAndStoresOverrides(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	em := m.addShift(req.ID, "2026-02-10", "EM")
	am := m.addShift(req.ID, "2026-02-11", "AM")
	pm := m.addShift(req.ID, "2026-02-11", "PM")
	svc := newResponseServiceForTest(m, nil)

	result, err := svc.Respond(context.Background(), schoolScope, dto.SubstituteResponseRequest{
		CoverageRequestID: req.ID,
		SubstituteID:      "sub-1",
		IsContacted:       true,
		Selected:          []string{"2026-02-10|EM", "2026-02-11|AM", "2026-02-11|PM"},
		Override:          []string{"2026-02-11|AM"},
		Available:         []string{"2026-02-10|EM", "2026-03-01|AM"},
		Unavailable:       []string{"2026-02-11|AM", "2026-02-11|PM"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{em.ID, am.ID}, result.SelectedShiftIDs)
	assert.Equal(t, []coverage.ShiftOverrideRecord{
		{ShiftID: em.ID, Selected: true, OverrideAvailability: false},
		{ShiftID: am.ID, Selected: true, OverrideAvailability: true},
		{ShiftID: pm.ID, Selected: false, OverrideAvailability: false},
	}, result.Overrides)
	assert.Empty(t, result.Assignments)
	assert.Equal(t, models.ResponseStatusPending, result.Contact.ResponseStatus)
	assert.True(t, result.Contact.IsContacted)
	assert.NotNil(t, result.Contact.ContactedAt)
	assert.Equal(t, 1, result.Contact.Version)
	assert.Len(t, m.overrides[result.Contact.ID], 3)
	assert.Equal(t, coverage.ShiftAvailable, result.ShiftStates["2026-02-10|EM"])
	assert.Equal(t, coverage.ShiftUnavailable, result.ShiftStates["2026-02-11|PM"])
	assert.NotContains(t, result.ShiftStates, "2026-03-01|AM")
}

func TestSubstituteResponseBooksSelectedShifts(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	em := m.addShift(req.ID, "2026-02-10", "EM")
	refresher := &refresherStub{}
	svc := newResponseServiceForTest(m, refresher)

	result, err := svc.Respond(context.Background(), schoolScope, dto.SubstituteResponseRequest{
		CoverageRequestID: req.ID,
		SubstituteID:      "sub-1",
		ResponseStatus:    models.ResponseStatusConfirmed,
		Selected:          []string{"2026-02-10|EM"},
		Available:         []string{"2026-02-10|EM"},
		BookAssignments:   true,
	})
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, em.ID, result.Assignments[0].CoverageRequestShiftID)
	assert.Equal(t, "2026-02-10", result.Assignments[0].Date)
	assert.Equal(t, coverage.ShiftAssigned, result.ShiftStates["2026-02-10|EM"])
	assert.Equal(t, []string{"school-1/absence-1"}, refresher.absences)

	again, err := svc.Respond(context.Background(), schoolScope, dto.SubstituteResponseRequest{
		CoverageRequestID: req.ID,
		SubstituteID:      "sub-1",
		ResponseStatus:    models.ResponseStatusConfirmed,
		Version:           1,
		Selected:          []string{"2026-02-10|EM"},
		Available:         []string{"2026-02-10|EM"},
		BookAssignments:   true,
	})
	require.NoError(t, err)
	assert.Empty(t, again.Assignments)
	assert.Equal(t, 2, again.Contact.Version)
}

func TestSubstituteResponseRejectsTakenShift(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	em := m.addShift(req.ID, "2026-02-10", "EM")
	m.addAssignment(em.ID, "sub-2", false)
	svc := newResponseServiceForTest(m, nil)

	_, err := svc.Respond(context.Background(), schoolScope, dto.SubstituteResponseRequest{
		CoverageRequestID: req.ID,
		SubstituteID:      "sub-1",
		Selected:          []string{"2026-02-10|EM"},
		Available:         []string{"2026-02-10|EM"},
		BookAssignments:   true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestSubstituteResponseStaleVersion(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	m.addShift(req.ID, "2026-02-10", "EM")
	svc := newResponseServiceForTest(m, nil)
	ctx := context.Background()

	_, err := svc.Respond(ctx, schoolScope, dto.SubstituteResponseRequest{CoverageRequestID: req.ID, SubstituteID: "sub-1"})
	require.NoError(t, err)
	_, err = svc.Respond(ctx, schoolScope, dto.SubstituteResponseRequest{CoverageRequestID: req.ID, SubstituteID: "sub-1", Version: 1})
	require.NoError(t, err)

	_, err = svc.Respond(ctx, schoolScope, dto.SubstituteResponseRequest{CoverageRequestID: req.ID, SubstituteID: "sub-1", Version: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Respond(ctx, schoolScope, dto.SubstituteResponseRequest{CoverageRequestID: req.ID, SubstituteID: "sub-9", Version: 3})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestSubstituteResponseConcurrentFirstResponseIsConflict(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	m.addShift(req.ID, "2026-02-10", "EM")
	m.createContactErr = fmt.Errorf("create substitute contact: %w: %w", repository.ErrDuplicate, &pq.Error{Code: "23505"})
	svc := newResponseServiceForTest(m, nil)

	_, err := svc.Respond(context.Background(), schoolScope, dto.SubstituteResponseRequest{CoverageRequestID: req.ID, SubstituteID: "sub-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestSubstituteResponseConcurrentBookingIsConflict(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	m.addShift(req.ID, "2026-02-10", "EM")
	m.createAssignmentErr = fmt.Errorf("create sub assignment: %w: %w", repository.ErrDuplicate, &pq.Error{Code: "23505"})
	svc := newResponseServiceForTest(m, nil)

	_, err := svc.Respond(context.Background(), schoolScope, dto.SubstituteResponseRequest{
		CoverageRequestID: req.ID,
		SubstituteID:      "sub-1",
		Selected:          []string{"2026-02-10|EM"},
		Available:         []string{"2026-02-10|EM"},
		BookAssignments:   true,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "shift 2026-02-10|EM already has an active assignment", appErr.Message)
}

func TestSubstituteResponseSkipsShiftsWithUnusableKeys(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	em := m.addShift(req.ID, "2026-02-10", "EM")
	m.addShift(req.ID, "2026-02-10", "E|M")
	m.addShift(req.ID, "2026-02-11T00:00:00Z", "AM")
	svc := newResponseServiceForTest(m, nil)

	result, err := svc.Respond(context.Background(), schoolScope, dto.SubstituteResponseRequest{
		CoverageRequestID: req.ID,
		SubstituteID:      "sub-1",
		Selected:          []string{"2026-02-10|EM", "2026-02-10|E|M", "2026-02-11T00:00:00Z|AM"},
		Available:         []string{"2026-02-10|EM", "2026-02-10|E|M", "2026-02-11T00:00:00Z|AM"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{em.ID}, result.SelectedShiftIDs)
	require.Len(t, result.Overrides, 1)
	assert.Equal(t, em.ID, result.Overrides[0].ShiftID)
}

func TestSubstituteResponseGetContactReturnsStoredOverrides(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	em := m.addShift(req.ID, "2026-02-10", "EM")
	svc := newResponseServiceForTest(m, nil)
	ctx := context.Background()

	_, err := svc.Respond(ctx, schoolScope, dto.SubstituteResponseRequest{
		CoverageRequestID: req.ID,
		SubstituteID:      "sub-1",
		Selected:          []string{"2026-02-10|EM"},
		Available:         []string{"2026-02-10|EM"},
	})
	require.NoError(t, err)

	detail, err := svc.GetContact(ctx, schoolScope, req.ID, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Contact.Version)
	require.Len(t, detail.Overrides, 1)
	assert.Equal(t, em.ID, detail.Overrides[0].CoverageRequestShiftID)
	assert.True(t, detail.Overrides[0].Selected)

	_, err = svc.GetContact(ctx, schoolScope, req.ID, "sub-9")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	_, err = svc.GetContact(ctx, models.SchoolScope{Session: "school-2"}, req.ID, "sub-1")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
