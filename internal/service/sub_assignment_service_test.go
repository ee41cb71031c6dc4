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

	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/internal/models"
	"github.com/noah-isme/coverage-api/internal/repository"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
)

func newSubAssignmentServiceForTest(m *memStore, refresher coverageRefresher) *SubAssignmentService {
	return NewSubAssignmentService(requestRepoStub{m}, assignmentRepoStub{m}, &txStub{}, refresher, nil, validator.New(), zap.NewNop())
}

func strPtr(v string) *string { return &v }

func TestSubAssignmentServiceAssign(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	shift := m.addShift(req.ID, "2026-02-10", "AM")
	refresher := &refresherStub{}
	svc := newSubAssignmentServiceForTest(m, refresher)

	assignment, err := svc.Assign(context.Background(), schoolScope, dto.CreateSubAssignmentRequest{
		CoverageRequestShiftID: shift.ID,
		SubstituteID:           "sub-1",
		IsPartial:              true,
		PartialStartTime:       strPtr("08:00"),
		PartialEndTime:         strPtr("10:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubAssignmentStatusActive, assignment.Status)
	assert.Equal(t, "2026-02-10", assignment.Date)
	assert.Equal(t, "08:00", *assignment.PartialStartTime)
	assert.Equal(t, []string{"school-1/absence-1"}, refresher.absences)
}

func TestSubAssignmentServiceOneActivePerShift(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	shift := m.addShift(req.ID, "2026-02-10", "AM")
	m.addAssignment(shift.ID, "sub-1", false)
	svc := newSubAssignmentServiceForTest(m, nil)

	_, err := svc.Assign(context.Background(), schoolScope, dto.CreateSubAssignmentRequest{CoverageRequestShiftID: shift.ID, SubstituteID: "sub-2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestSubAssignmentServicePartialRequiresTimes(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	shift := m.addShift(req.ID, "2026-02-10", "AM")
	svc := newSubAssignmentServiceForTest(m, nil)

	_, err := svc.Assign(context.Background(), schoolScope, dto.CreateSubAssignmentRequest{CoverageRequestShiftID: shift.ID, SubstituteID: "sub-1", IsPartial: true})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSubAssignmentServiceRejectsCancelledShift(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	shift := m.addShift(req.ID, "2026-02-10", "AM")
	shift.Status = models.CoverageShiftStatusCancelled
	svc := newSubAssignmentServiceForTest(m, nil)

	_, err := svc.Assign(context.Background(), schoolScope, dto.CreateSubAssignmentRequest{CoverageRequestShiftID: shift.ID, SubstituteID: "sub-1"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestSubAssignmentServiceCancel(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	shift := m.addShift(req.ID, "2026-02-10", "AM")
	existing := m.addAssignment(shift.ID, "sub-1", false)
	svc := newSubAssignmentServiceForTest(m, nil)
	ctx := context.Background()

	cancelled, err := svc.Cancel(ctx, schoolScope, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubAssignmentStatusCancelled, cancelled.Status)
	assert.Equal(t, models.SubAssignmentStatusCancelled, m.assignments[existing.ID].Status)

	again, err := svc.Cancel(ctx, schoolScope, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubAssignmentStatusCancelled, again.Status)

	_, err = svc.Cancel(ctx, models.SchoolScope{Override: "school-2"}, existing.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestSubAssignmentServiceCancelUnknownStatus(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	shift := m.addShift(req.ID, "2026-02-10", "AM")
	existing := m.addAssignment(shift.ID, "sub-1", false)
	existing.Status = models.SubAssignmentStatus("archived")

	_, err := newSubAssignmentServiceForTest(m, nil).Cancel(context.Background(), schoolScope, existing.ID)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
}

func TestSubAssignmentServiceConcurrentAssignIsConflict(t *testing.T) {
	m := newMemStore()
	req := activeAbsence(m, "absence-1")
	shift := m.addShift(req.ID, "2026-02-10", "AM")
	m.createAssignmentErr = fmt.Errorf("create sub assignment: %w: %w", repository.ErrDuplicate, &pq.Error{Code: "23505"})
	svc := newSubAssignmentServiceForTest(m, nil)

	_, err := svc.Assign(context.Background(), schoolScope, dto.CreateSubAssignmentRequest{CoverageRequestShiftID: shift.ID, SubstituteID: "sub-2"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}
