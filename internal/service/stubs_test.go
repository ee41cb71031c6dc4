package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/coverage-api/internal/models"
)

type txStub struct {
	calls int
	err   error
}

func (t *txStub) WithTx(ctx context.Context, fn func(exec sqlx.ExtContext) error) error {
	t.calls++
	if t.err != nil {
		return t.err
	}
	return fn(nil)
}

type refresherStub struct {
	mu       sync.Mutex
	absences []string
}

func (r *refresherStub) Refresh(ctx context.Context, schoolID, absenceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.absences = append(r.absences, schoolID+"/"+absenceID)
}

// memStore backs the repository stubs with shared in-memory state.
type memStore struct {
	seq         int
	absences    map[string]*models.AbsenceRequest
	absShifts   map[string][]models.AbsenceShift
	requests    map[string]*models.CoverageRequest
	shifts      map[string]*models.CoverageRequestShift
	assignments map[string]*models.SubAssignment
	contacts    map[string]*models.SubstituteContact
	overrides   map[string][]models.ShiftOverride
	slots       []models.TeacherScheduleSlot
	codes       map[string]string

	listShiftsErr       error
	createContactErr    error
	createAssignmentErr error
}

func newMemStore() *memStore {
	return &memStore{
		absences:    map[string]*models.AbsenceRequest{},
		absShifts:   map[string][]models.AbsenceShift{},
		requests:    map[string]*models.CoverageRequest{},
		shifts:      map[string]*models.CoverageRequestShift{},
		assignments: map[string]*models.SubAssignment{},
		contacts:    map[string]*models.SubstituteContact{},
		overrides:   map[string][]models.ShiftOverride{},
		codes:       map[string]string{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) addRequest(schoolID string, absenceID *string, status models.CoverageRequestStatus) *models.CoverageRequest {
	req := &models.CoverageRequest{ID: m.nextID("req"), SchoolID: schoolID, AbsenceID: absenceID, StaffID: "staff-1", Status: status}
	m.requests[req.ID] = req
	return req
}

func (m *memStore) addShift(requestID, date, code string) *models.CoverageRequestShift {
	shift := &models.CoverageRequestShift{
		ID:                m.nextID("shift"),
		CoverageRequestID: requestID,
		Date:              date,
		TimeSlotID:        "slot-" + code,
		TimeSlotCode:      code,
		ClassroomID:       "room-a",
		ClassroomName:     "Room A",
		Status:            models.CoverageShiftStatusActive,
	}
	m.shifts[shift.ID] = shift
	return shift
}

func (m *memStore) addAssignment(shiftID, substituteID string, partial bool) *models.SubAssignment {
	a := &models.SubAssignment{
		ID:                     m.nextID("assign"),
		CoverageRequestShiftID: shiftID,
		SubstituteID:           substituteID,
		Date:                   m.shifts[shiftID].Date,
		IsPartial:              partial,
		Status:                 models.SubAssignmentStatusActive,
	}
	m.assignments[a.ID] = a
	return a
}

func (m *memStore) activeShifts(requestID string) []models.CoverageRequestShift {
	var out []models.CoverageRequestShift
	for _, s := range m.shifts {
		if s.CoverageRequestID == requestID && s.Status == models.CoverageShiftStatusActive {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type absenceRepoStub struct{ m *memStore }

func (r absenceRepoStub) FindByID(ctx context.Context, schoolID, id string) (*models.AbsenceRequest, error) {
	a, ok := r.m.absences[id]
	if !ok || a.SchoolID != schoolID {
		return nil, sql.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (r absenceRepoStub) Create(ctx context.Context, exec sqlx.ExtContext, absence *models.AbsenceRequest) error {
	absence.ID = r.m.nextID("absence")
	cp := *absence
	r.m.absences[absence.ID] = &cp
	return nil
}

func (r absenceRepoStub) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.AbsenceStatus) error {
	r.m.absences[id].Status = status
	return nil
}

func (r absenceRepoStub) UpdateCoverageStatus(ctx context.Context, id, coverageStatus string) error {
	r.m.absences[id].CoverageStatus = &coverageStatus
	return nil
}

func (r absenceRepoStub) CreateShifts(ctx context.Context, exec sqlx.ExtContext, shifts []models.AbsenceShift) error {
	for i := range shifts {
		shifts[i].ID = r.m.nextID("abs-shift")
		r.m.absShifts[shifts[i].AbsenceID] = append(r.m.absShifts[shifts[i].AbsenceID], shifts[i])
	}
	return nil
}

func (r absenceRepoStub) ListShifts(ctx context.Context, absenceID string) ([]models.AbsenceShift, error) {
	return append([]models.AbsenceShift(nil), r.m.absShifts[absenceID]...), nil
}

type requestRepoStub struct{ m *memStore }

func (r requestRepoStub) FindByID(ctx context.Context, schoolID, id string) (*models.CoverageRequest, error) {
	req, ok := r.m.requests[id]
	if !ok || req.SchoolID != schoolID {
		return nil, sql.ErrNoRows
	}
	cp := *req
	return &cp, nil
}

func (r requestRepoStub) FindByAbsence(ctx context.Context, absenceID string) (*models.CoverageRequest, error) {
	for _, req := range r.m.requests {
		if req.AbsenceID != nil && *req.AbsenceID == absenceID {
			cp := *req
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r requestRepoStub) Create(ctx context.Context, exec sqlx.ExtContext, req *models.CoverageRequest) error {
	req.ID = r.m.nextID("req")
	cp := *req
	r.m.requests[req.ID] = &cp
	return nil
}

func (r requestRepoStub) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.CoverageRequestStatus) error {
	r.m.requests[id].Status = status
	return nil
}

func (r requestRepoStub) CreateShifts(ctx context.Context, exec sqlx.ExtContext, shifts []models.CoverageRequestShift) error {
	for i := range shifts {
		shifts[i].ID = r.m.nextID("shift")
		cp := shifts[i]
		if cp.TimeSlotCode == "" {
			cp.TimeSlotCode = r.m.codes[cp.TimeSlotID]
		}
		r.m.shifts[cp.ID] = &cp
	}
	return nil
}

func (r requestRepoStub) ListActiveShifts(ctx context.Context, coverageRequestID string) ([]models.CoverageRequestShift, error) {
	if r.m.listShiftsErr != nil {
		return nil, r.m.listShiftsErr
	}
	return r.m.activeShifts(coverageRequestID), nil
}

func (r requestRepoStub) FindShiftByID(ctx context.Context, id string) (*models.CoverageRequestShift, error) {
	s, ok := r.m.shifts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (r requestRepoStub) UpdateShiftStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.CoverageShiftStatus) error {
	r.m.shifts[id].Status = status
	return nil
}

func (r requestRepoStub) CancelActiveShifts(ctx context.Context, exec sqlx.ExtContext, coverageRequestID string) (int64, error) {
	var n int64
	for _, s := range r.m.shifts {
		if s.CoverageRequestID == coverageRequestID && s.Status == models.CoverageShiftStatusActive {
			s.Status = models.CoverageShiftStatusCancelled
			n++
		}
	}
	return n, nil
}

type assignmentRepoStub struct{ m *memStore }

func (r assignmentRepoStub) FindByID(ctx context.Context, id string) (*models.SubAssignment, error) {
	a, ok := r.m.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (r assignmentRepoStub) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.SubAssignment) error {
	if r.m.createAssignmentErr != nil {
		return r.m.createAssignmentErr
	}
	assignment.ID = r.m.nextID("assign")
	cp := *assignment
	r.m.assignments[assignment.ID] = &cp
	return nil
}

func (r assignmentRepoStub) CountActiveByShift(ctx context.Context, exec sqlx.ExtContext, shiftID string) (int, error) {
	count := 0
	for _, a := range r.m.assignments {
		if a.CoverageRequestShiftID == shiftID && a.Status == models.SubAssignmentStatusActive {
			count++
		}
	}
	return count, nil
}

func (r assignmentRepoStub) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.SubAssignmentStatus) error {
	r.m.assignments[id].Status = status
	return nil
}

func (r assignmentRepoStub) ListActiveByCoverageRequest(ctx context.Context, coverageRequestID string) ([]models.SubAssignment, error) {
	var out []models.SubAssignment
	for _, a := range r.m.assignments {
		shift := r.m.shifts[a.CoverageRequestShiftID]
		if shift != nil && shift.CoverageRequestID == coverageRequestID && a.Status == models.SubAssignmentStatusActive {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r assignmentRepoStub) ListActiveBySubstitute(ctx context.Context, coverageRequestID, substituteID string) ([]models.SubAssignment, error) {
	all, _ := r.ListActiveByCoverageRequest(ctx, coverageRequestID)
	var out []models.SubAssignment
	for _, a := range all {
		if a.SubstituteID == substituteID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r assignmentRepoStub) CancelActiveByShift(ctx context.Context, exec sqlx.ExtContext, shiftID string) (int64, error) {
	var n int64
	for _, a := range r.m.assignments {
		if a.CoverageRequestShiftID == shiftID && a.Status == models.SubAssignmentStatusActive {
			a.Status = models.SubAssignmentStatusCancelled
			n++
		}
	}
	return n, nil
}

func (r assignmentRepoStub) CancelActiveByCoverageRequest(ctx context.Context, exec sqlx.ExtContext, coverageRequestID string) (int64, error) {
	var n int64
	for _, a := range r.m.assignments {
		shift := r.m.shifts[a.CoverageRequestShiftID]
		if shift != nil && shift.CoverageRequestID == coverageRequestID && a.Status == models.SubAssignmentStatusActive {
			a.Status = models.SubAssignmentStatusCancelled
			n++
		}
	}
	return n, nil
}

type contactRepoStub struct{ m *memStore }

func contactKey(requestID, substituteID string) string { return requestID + "/" + substituteID }

func (r contactRepoStub) FindByRequestAndSubstitute(ctx context.Context, coverageRequestID, substituteID string) (*models.SubstituteContact, error) {
	c, ok := r.m.contacts[contactKey(coverageRequestID, substituteID)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (r contactRepoStub) Create(ctx context.Context, exec sqlx.ExtContext, contact *models.SubstituteContact) error {
	if r.m.createContactErr != nil {
		return r.m.createContactErr
	}
	contact.ID = r.m.nextID("contact")
	contact.Version = 1
	cp := *contact
	r.m.contacts[contactKey(contact.CoverageRequestID, contact.SubstituteID)] = &cp
	return nil
}

func (r contactRepoStub) UpdateWithVersion(ctx context.Context, exec sqlx.ExtContext, contact *models.SubstituteContact, expectedVersion int) error {
	stored := r.m.contacts[contactKey(contact.CoverageRequestID, contact.SubstituteID)]
	if stored == nil || stored.Version != expectedVersion {
		return sql.ErrNoRows
	}
	contact.Version = expectedVersion + 1
	cp := *contact
	r.m.contacts[contactKey(contact.CoverageRequestID, contact.SubstituteID)] = &cp
	return nil
}

func (r contactRepoStub) ReplaceOverrides(ctx context.Context, exec sqlx.ExtContext, contactID string, overrides []models.ShiftOverride) error {
	r.m.overrides[contactID] = append([]models.ShiftOverride(nil), overrides...)
	return nil
}

func (r contactRepoStub) ListOverrides(ctx context.Context, contactID string) ([]models.ShiftOverride, error) {
	return append([]models.ShiftOverride(nil), r.m.overrides[contactID]...), nil
}

type slotReaderStub struct {
	m   *memStore
	err error
}

func (r slotReaderStub) ListSlotsByTeacher(ctx context.Context, schoolID, teacherID string) ([]models.TeacherScheduleSlot, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.m.slots, nil
}
