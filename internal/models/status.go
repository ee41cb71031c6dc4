package models

import "fmt"

// AbsenceStatus is the lifecycle state of an absence (time-off) request.
type AbsenceStatus string

const (
	AbsenceStatusDraft     AbsenceStatus = "draft"
	AbsenceStatusActive    AbsenceStatus = "active"
	AbsenceStatusCancelled AbsenceStatus = "cancelled"
)

// CoverageRequestStatus is the lifecycle state of a coverage request.
type CoverageRequestStatus string

const (
	CoverageRequestStatusOpen      CoverageRequestStatus = "open"
	CoverageRequestStatusFilled    CoverageRequestStatus = "filled"
	CoverageRequestStatusCancelled CoverageRequestStatus = "cancelled"
)

// CoverageShiftStatus is the lifecycle state of a single coverage-request shift.
type CoverageShiftStatus string

const (
	CoverageShiftStatusActive    CoverageShiftStatus = "active"
	CoverageShiftStatusCancelled CoverageShiftStatus = "cancelled"
)

// SubAssignmentStatus is the lifecycle state of a substitute assignment.
type SubAssignmentStatus string

const (
	SubAssignmentStatusActive    SubAssignmentStatus = "active"
	SubAssignmentStatusCancelled SubAssignmentStatus = "cancelled"
)

// Every enum value must have an entry, even when the successor set is empty.
var (
	absenceTransitions = map[AbsenceStatus][]AbsenceStatus{
		AbsenceStatusDraft:     {AbsenceStatusActive, AbsenceStatusCancelled},
		AbsenceStatusActive:    {AbsenceStatusCancelled},
		AbsenceStatusCancelled: {},
	}
	coverageRequestTransitions = map[CoverageRequestStatus][]CoverageRequestStatus{
		CoverageRequestStatusOpen:      {CoverageRequestStatusFilled, CoverageRequestStatusCancelled},
		CoverageRequestStatusFilled:    {CoverageRequestStatusCancelled},
		CoverageRequestStatusCancelled: {},
	}
	coverageShiftTransitions = map[CoverageShiftStatus][]CoverageShiftStatus{
		CoverageShiftStatusActive:    {CoverageShiftStatusCancelled},
		CoverageShiftStatusCancelled: {},
	}
	subAssignmentTransitions = map[SubAssignmentStatus][]SubAssignmentStatus{
		SubAssignmentStatusActive:    {SubAssignmentStatusCancelled},
		SubAssignmentStatusCancelled: {},
	}
)

// AbsenceStatuses lists every absence status.
func AbsenceStatuses() []AbsenceStatus {
	return []AbsenceStatus{AbsenceStatusDraft, AbsenceStatusActive, AbsenceStatusCancelled}
}

// CoverageRequestStatuses lists every coverage request status.
func CoverageRequestStatuses() []CoverageRequestStatus {
	return []CoverageRequestStatus{CoverageRequestStatusOpen, CoverageRequestStatusFilled, CoverageRequestStatusCancelled}
}

// CoverageShiftStatuses lists every coverage shift status.
func CoverageShiftStatuses() []CoverageShiftStatus {
	return []CoverageShiftStatus{CoverageShiftStatusActive, CoverageShiftStatusCancelled}
}

// SubAssignmentStatuses lists every sub assignment status.
func SubAssignmentStatuses() []SubAssignmentStatus {
	return []SubAssignmentStatus{SubAssignmentStatusActive, SubAssignmentStatusCancelled}
}

func init() {
	if err := ValidateTransitionTables(); err != nil {
		panic(err)
	}
}

// ValidateTransitionTables reports the first status value missing from its table.
func ValidateTransitionTables() error {
	for _, s := range AbsenceStatuses() {
		if _, ok := absenceTransitions[s]; !ok {
			return fmt.Errorf("absence transition table missing %q", s)
		}
	}
	for _, s := range CoverageRequestStatuses() {
		if _, ok := coverageRequestTransitions[s]; !ok {
			return fmt.Errorf("coverage request transition table missing %q", s)
		}
	}
	for _, s := range CoverageShiftStatuses() {
		if _, ok := coverageShiftTransitions[s]; !ok {
			return fmt.Errorf("coverage shift transition table missing %q", s)
		}
	}
	for _, s := range SubAssignmentStatuses() {
		if _, ok := subAssignmentTransitions[s]; !ok {
			return fmt.Errorf("sub assignment transition table missing %q", s)
		}
	}
	return nil
}

func canTransition[S ~string](table map[S][]S, current, next S) bool {
	if current == next {
		return true
	}
	for _, candidate := range table[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// CanTransitionAbsence reports whether an absence may move from current to next.
func CanTransitionAbsence(current, next AbsenceStatus) bool {
	return canTransition(absenceTransitions, current, next)
}

// CanTransitionCoverageRequest reports whether a coverage request may move from current to next.
func CanTransitionCoverageRequest(current, next CoverageRequestStatus) bool {
	return canTransition(coverageRequestTransitions, current, next)
}

// CanTransitionCoverageShift reports whether a coverage shift may move from current to next.
func CanTransitionCoverageShift(current, next CoverageShiftStatus) bool {
	return canTransition(coverageShiftTransitions, current, next)
}

// CanTransitionSubAssignment reports whether a sub assignment may move from current to next.
func CanTransitionSubAssignment(current, next SubAssignmentStatus) bool {
	return canTransition(subAssignmentTransitions, current, next)
}

// FormatTransitionError renders the message surfaced for a rejected transition.
func FormatTransitionError(current, next string) string {
	return fmt.Sprintf("Invalid status transition: %s → %s", current, next)
}
