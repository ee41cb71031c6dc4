package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTablesAreExhaustive(t *testing.T) {
	require.NoError(t, ValidateTransitionTables())
}

func TestIdentityTransitionAlwaysAllowed(t *testing.T) {
	for _, s := range AbsenceStatuses() {
		assert.True(t, CanTransitionAbsence(s, s), s)
	}
	for _, s := range CoverageRequestStatuses() {
		assert.True(t, CanTransitionCoverageRequest(s, s), s)
	}
	for _, s := range CoverageShiftStatuses() {
		assert.True(t, CanTransitionCoverageShift(s, s), s)
	}
	for _, s := range SubAssignmentStatuses() {
		assert.True(t, CanTransitionSubAssignment(s, s), s)
	}
}

func TestCancelledIsAbsorbing(t *testing.T) {
	for _, s := range AbsenceStatuses() {
		if s != AbsenceStatusCancelled {
			assert.False(t, CanTransitionAbsence(AbsenceStatusCancelled, s), s)
		}
	}
	for _, s := range CoverageRequestStatuses() {
		if s != CoverageRequestStatusCancelled {
			assert.False(t, CanTransitionCoverageRequest(CoverageRequestStatusCancelled, s), s)
		}
	}
	assert.False(t, CanTransitionCoverageShift(CoverageShiftStatusCancelled, CoverageShiftStatusActive))
	assert.False(t, CanTransitionSubAssignment(SubAssignmentStatusCancelled, SubAssignmentStatusActive))
}

func TestAbsenceTransitions(t *testing.T) {
	cases := []struct {
		from, to AbsenceStatus
		want     bool
	}{
		{AbsenceStatusDraft, AbsenceStatusActive, true},
		{AbsenceStatusDraft, AbsenceStatusCancelled, true},
		{AbsenceStatusActive, AbsenceStatusCancelled, true},
		{AbsenceStatusActive, AbsenceStatusDraft, false},
		{AbsenceStatus("archived"), AbsenceStatusActive, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransitionAbsence(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCoverageRequestTransitions(t *testing.T) {
	assert.True(t, CanTransitionCoverageRequest(CoverageRequestStatusOpen, CoverageRequestStatusFilled))
	assert.True(t, CanTransitionCoverageRequest(CoverageRequestStatusOpen, CoverageRequestStatusCancelled))
	assert.True(t, CanTransitionCoverageRequest(CoverageRequestStatusFilled, CoverageRequestStatusCancelled))
	assert.False(t, CanTransitionCoverageRequest(CoverageRequestStatusFilled, CoverageRequestStatusOpen))
}

func TestFormatTransitionError(t *testing.T) {
	assert.Equal(t, "Invalid status transition: draft → active", FormatTransitionError("draft", "active"))
}

func TestSchoolScopeResolution(t *testing.T) {
	id, ok := SchoolScope{Override: "school-a", Session: "school-b"}.SchoolID()
	assert.True(t, ok)
	assert.Equal(t, "school-a", id)

	id, ok = SchoolScope{Session: "school-b"}.SchoolID()
	assert.True(t, ok)
	assert.Equal(t, "school-b", id)

	_, ok = SchoolScope{}.SchoolID()
	assert.False(t, ok)
}
