package coverage

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ShiftCoverageStatus is the coverage state of a single shift.
type ShiftCoverageStatus string

const (
	ShiftUncovered        ShiftCoverageStatus = "uncovered"
	ShiftPartiallyCovered ShiftCoverageStatus = "partially_covered"
	ShiftFullyCovered     ShiftCoverageStatus = "fully_covered"
)

// CoverageStatus is the overall status of a set of shifts.
type CoverageStatus string

const (
	CoverageUncovered        CoverageStatus = "uncovered"
	CoveragePartiallyCovered CoverageStatus = "partially_covered"
	CoverageCovered          CoverageStatus = "covered"
)

// ShiftRef identifies a shift for display.
type ShiftRef struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	TimeSlotCode  string `json:"time_slot_code"`
	ClassroomID   string `json:"classroom_id,omitempty"`
	ClassroomName string `json:"classroom_name,omitempty"`
}

// Ref returns the shift identity.
func (r ShiftRef) Ref() ShiftRef { return r }

// Assignee is an active substitute assignment covering a shift.
type Assignee struct {
	AssignmentID     string  `json:"assignment_id"`
	SubstituteID     string  `json:"substitute_id"`
	IsPartial        bool    `json:"is_partial"`
	PartialStartTime *string `json:"partial_start_time,omitempty"`
	PartialEndTime   *string `json:"partial_end_time,omitempty"`
}

// ShiftCoverage is one of UncoveredShift, PartiallyCoveredShift or FullyCoveredShift.
type ShiftCoverage interface {
	Ref() ShiftRef
	Status() ShiftCoverageStatus
	isShiftCoverage()
}

// UncoveredShift has no active assignment.
type UncoveredShift struct {
	ShiftRef
}

// PartiallyCoveredShift is covered only by partial-shift assignments.
type PartiallyCoveredShift struct {
	ShiftRef
	Assignees []Assignee
}

// FullyCoveredShift has an active full-shift assignment.
type FullyCoveredShift struct {
	ShiftRef
	Assignee Assignee
}

func (UncoveredShift) Status() ShiftCoverageStatus        { return ShiftUncovered }
func (PartiallyCoveredShift) Status() ShiftCoverageStatus { return ShiftPartiallyCovered }
func (FullyCoveredShift) Status() ShiftCoverageStatus     { return ShiftFullyCovered }

func (UncoveredShift) isShiftCoverage()        {}
func (PartiallyCoveredShift) isShiftCoverage() {}
func (FullyCoveredShift) isShiftCoverage()     {}

// ShiftRow is the flat, serialisable form of a ShiftCoverage.
type ShiftRow struct {
	ShiftRef
	Status    ShiftCoverageStatus `json:"status"`
	Assignees []Assignee          `json:"assignees"`
}

// RowOf flattens a shift coverage variant.
func RowOf(shift ShiftCoverage) ShiftRow {
	row := ShiftRow{ShiftRef: shift.Ref(), Status: shift.Status(), Assignees: []Assignee{}}
	switch s := shift.(type) {
	case PartiallyCoveredShift:
		row.Assignees = append(row.Assignees, s.Assignees...)
	case FullyCoveredShift:
		row.Assignees = append(row.Assignees, s.Assignee)
	}
	return row
}

func (s UncoveredShift) MarshalJSON() ([]byte, error)        { return json.Marshal(RowOf(s)) }
func (s PartiallyCoveredShift) MarshalJSON() ([]byte, error) { return json.Marshal(RowOf(s)) }
func (s FullyCoveredShift) MarshalJSON() ([]byte, error)     { return json.Marshal(RowOf(s)) }

// ClassifyShift builds the coverage variant for a shift from its active assignments.
func ClassifyShift(ref ShiftRef, active []Assignee) ShiftCoverage {
	var partial []Assignee
	for _, a := range active {
		if !a.IsPartial {
			return FullyCoveredShift{ShiftRef: ref, Assignee: a}
		}
		partial = append(partial, a)
	}
	if len(partial) > 0 {
		return PartiallyCoveredShift{ShiftRef: ref, Assignees: partial}
	}
	return UncoveredShift{ShiftRef: ref}
}

// CoverageCounts holds per-status shift counts.
type CoverageCounts struct {
	Uncovered        int `json:"uncovered"`
	PartiallyCovered int `json:"partially_covered"`
	FullyCovered     int `json:"fully_covered"`
}

// Total is the number of counted shifts.
func (c CoverageCounts) Total() int {
	return c.Uncovered + c.PartiallyCovered + c.FullyCovered
}

// Segment is a compact entry for rendering a coverage bar.
type Segment struct {
	ID     string              `json:"id"`
	Status ShiftCoverageStatus `json:"status"`
}

// ShiftSummary aggregates a list of shift coverage records.
type ShiftSummary struct {
	Total int `json:"total"`
	CoverageCounts
	Status         CoverageStatus  `json:"status"`
	CoveredPercent decimal.Decimal `json:"covered_percent"`
	Shifts         []ShiftCoverage `json:"-"`
	Segments       []Segment       `json:"segments"`
}

// Rows returns the sorted shifts in serialisable form.
func (s ShiftSummary) Rows() []ShiftRow {
	rows := make([]ShiftRow, len(s.Shifts))
	for i, shift := range s.Shifts {
		rows[i] = RowOf(shift)
	}
	return rows
}

// BuildShiftSummary counts, sorts and segments shifts. The input slice is not modified.
func BuildShiftSummary(shifts []ShiftCoverage) ShiftSummary {
	sorted := make([]ShiftCoverage, 0, len(shifts))
	var counts CoverageCounts
	for _, shift := range shifts {
		if shift == nil {
			continue
		}
		switch status := shift.Status(); status {
		case ShiftUncovered:
			counts.Uncovered++
		case ShiftPartiallyCovered:
			counts.PartiallyCovered++
		case ShiftFullyCovered:
			counts.FullyCovered++
		default:
			panic(fmt.Sprintf("coverage: unhandled shift status %q", status))
		}
		sorted = append(sorted, shift)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Ref(), sorted[j].Ref()
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.TimeSlotCode < b.TimeSlotCode
	})

	segments := make([]Segment, len(sorted))
	for i, shift := range sorted {
		segments[i] = Segment{ID: shift.Ref().ID, Status: shift.Status()}
	}

	return ShiftSummary{
		Total:          counts.Total(),
		CoverageCounts: counts,
		Status:         GetCoverageStatus(counts),
		CoveredPercent: coveredPercent(counts),
		Shifts:         sorted,
		Segments:       segments,
	}
}

// GetCoverageStatus applies severity precedence: any uncovered shift dominates, then any
// partially covered shift; otherwise the set is covered.
func GetCoverageStatus(counts CoverageCounts) CoverageStatus {
	switch {
	case counts.Uncovered > 0:
		return CoverageUncovered
	case counts.PartiallyCovered > 0:
		return CoveragePartiallyCovered
	default:
		return CoverageCovered
	}
}

func coveredPercent(counts CoverageCounts) decimal.Decimal {
	total := counts.Total()
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(counts.FullyCovered)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), 1)
}
