package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/internal/models"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
)

var schoolScope = models.SchoolScope{Session: "school-1"}

func newAbsenceServiceForTest(m *memStore, refresher coverageRefresher) *AbsenceService {
	return NewAbsenceService(absenceRepoStub{m}, requestRepoStub{m}, assignmentRepoStub{m}, slotReaderStub{m: m}, &txStub{}, refresher, nil, validator.New(), zap.NewNop())
}

func weeklySlots() []models.TeacherScheduleSlot {
	return []models.TeacherScheduleSlot{
		{TeacherScheduleID: "sched-1", DayOfWeekID: "mon", DayNumber: 1, TimeSlotID: "slot-am", TimeSlotCode: "AM", ClassroomID: "room-a", ClassroomName: "Room A"},
		{TeacherScheduleID: "sched-2", DayOfWeekID: "tue", DayNumber: 2, TimeSlotID: "slot-em", TimeSlotCode: "EM", ClassroomID: "room-b", ClassroomName: "Room B"},
	}
}

func TestAbsenceServiceCreateDerivesShifts(t *testing.T) {
	m := newMemStore()
	m.slots = weeklySlots()
	svc := newAbsenceServiceForTest(m, nil)

	detail, err := svc.Create(context.Background(), schoolScope, dto.CreateAbsenceRequest{
		StaffID:       "staff-1",
		StartDate:     "2026-02-09",
		EndDate:       "2026-02-10",
		SelectionMode: models.ShiftSelectionAllScheduled,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AbsenceStatusDraft, detail.Absence.Status)
	assert.Equal(t, "school-1", detail.Absence.SchoolID)
	require.Len(t, detail.Shifts, 2)
	assert.Equal(t, "2026-02-09", detail.Shifts[0].Date)
	assert.Equal(t, "AM", detail.Shifts[0].TimeSlotCode)
	assert.Equal(t, detail.Absence.ID, detail.Shifts[1].AbsenceID)
}

func TestAbsenceServiceCreateSelectedShifts(t *testing.T) {
	m := newMemStore()
	m.slots = weeklySlots()
	svc := newAbsenceServiceForTest(m, nil)

	detail, err := svc.Create(context.Background(), schoolScope, dto.CreateAbsenceRequest{
		StaffID:       "staff-1",
		StartDate:     "2026-02-09",
		EndDate:       "2026-02-10",
		SelectionMode: models.ShiftSelectionSelected,
		ShiftKeys:     []string{"2026-02-10|EM"},
	})
	require.NoError(t, err)
	require.Len(t, detail.Shifts, 1)
	assert.Equal(t, "EM", detail.Shifts[0].TimeSlotCode)
}

func TestAbsenceServiceCreateValidation(t *testing.T) {
	m := newMemStore()
	svc := newAbsenceServiceForTest(m, nil)

	_, err := svc.Create(context.Background(), schoolScope, dto.CreateAbsenceRequest{
		StaffID:       "staff-1",
		StartDate:     "2026-02-10",
		EndDate:       "2026-02-09",
		SelectionMode: models.ShiftSelectionAllScheduled,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), models.SchoolScope{}, dto.CreateAbsenceRequest{
		StaffID:       "staff-1",
		StartDate:     "2026-02-09",
		EndDate:       "2026-02-09",
		SelectionMode: models.ShiftSelectionAllScheduled,
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAbsenceServiceActivateOpensCoverageRequest(t *testing.T) {
	m := newMemStore()
	m.slots = weeklySlots()
	refresher := &refresherStub{}
	svc := newAbsenceServiceForTest(m, refresher)
	ctx := context.Background()

	created, err := svc.Create(ctx, schoolScope, dto.CreateAbsenceRequest{
		StaffID: "staff-1", StartDate: "2026-02-09", EndDate: "2026-02-10", SelectionMode: models.ShiftSelectionAllScheduled,
	})
	require.NoError(t, err)

	activated, err := svc.Activate(ctx, schoolScope, created.Absence.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AbsenceStatusActive, activated.Absence.Status)
	require.NotNil(t, activated.CoverageRequestID)

	req := m.requests[*activated.CoverageRequestID]
	require.NotNil(t, req)
	assert.Equal(t, models.CoverageRequestStatusOpen, req.Status)
	shifts := m.activeShifts(req.ID)
	require.Len(t, shifts, 2)
	require.NotNil(t, shifts[0].AbsenceShiftID)
	assert.Equal(t, []string{"school-1/" + created.Absence.ID}, refresher.absences)

	again, err := svc.Activate(ctx, schoolScope, created.Absence.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AbsenceStatusActive, again.Absence.Status)
	assert.Len(t, m.requests, 1)
}

func TestAbsenceServiceCancelCascades(t *testing.T) {
	m := newMemStore()
	m.slots = weeklySlots()
	svc := newAbsenceServiceForTest(m, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, schoolScope, dto.CreateAbsenceRequest{
		StaffID: "staff-1", StartDate: "2026-02-09", EndDate: "2026-02-10", SelectionMode: models.ShiftSelectionAllScheduled,
	})
	require.NoError(t, err)
	activated, err := svc.Activate(ctx, schoolScope, created.Absence.ID)
	require.NoError(t, err)
	shifts := m.activeShifts(*activated.CoverageRequestID)
	assignment := m.addAssignment(shifts[0].ID, "sub-1", false)

	cancelled, err := svc.Cancel(ctx, schoolScope, created.Absence.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AbsenceStatusCancelled, cancelled.Absence.Status)
	assert.Equal(t, models.CoverageRequestStatusCancelled, m.requests[*activated.CoverageRequestID].Status)
	assert.Empty(t, m.activeShifts(*activated.CoverageRequestID))
	assert.Equal(t, models.SubAssignmentStatusCancelled, m.assignments[assignment.ID].Status)
}

func TestAbsenceServiceRejectsTransitionFromCancelled(t *testing.T) {
	m := newMemStore()
	m.absences["absence-9"] = &models.AbsenceRequest{ID: "absence-9", SchoolID: "school-1", Status: models.AbsenceStatusCancelled}
	svc := newAbsenceServiceForTest(m, nil)

	_, err := svc.Activate(context.Background(), schoolScope, "absence-9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
	assert.Equal(t, "Invalid status transition: cancelled → active", appErrors.FromError(err).Message)
}

func TestAbsenceServiceGetNotFound(t *testing.T) {
	svc := newAbsenceServiceForTest(newMemStore(), nil)
	_, err := svc.Get(context.Background(), schoolScope, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestAbsenceServiceCreateScheduleLookupFailure(t *testing.T) {
	m := newMemStore()
	svc := NewAbsenceService(absenceRepoStub{m}, requestRepoStub{m}, assignmentRepoStub{m}, slotReaderStub{m: m, err: errors.New("db down")}, &txStub{}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), schoolScope, dto.CreateAbsenceRequest{
		StaffID: "staff-1", StartDate: "2026-02-09", EndDate: "2026-02-09", SelectionMode: models.ShiftSelectionAllScheduled,
	})
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestAbsenceServiceCreateRejectsMalformedShiftKey(t *testing.T) {
	m := newMemStore()
	m.slots = weeklySlots()
	svc := newAbsenceServiceForTest(m, nil)

	_, err := svc.Create(context.Background(), schoolScope, dto.CreateAbsenceRequest{
		StaffID:       "staff-1",
		StartDate:     "2026-02-09",
		EndDate:       "2026-02-10",
		SelectionMode: models.ShiftSelectionSelected,
		ShiftKeys:     []string{"2026-02-09|A|M"},
	})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Empty(t, m.absences)
}
