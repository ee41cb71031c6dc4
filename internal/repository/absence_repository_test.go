package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coverage-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAbsenceRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAbsenceRepository(db)

	mock.ExpectExec("INSERT INTO absence_requests").
		WithArgs(sqlmock.AnyArg(), "school-1", "staff-1", "2026-02-09", "2026-02-10", "draft", "all_scheduled", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	absence := &models.AbsenceRequest{
		SchoolID:      "school-1",
		StaffID:       "staff-1",
		StartDate:     "2026-02-09",
		EndDate:       "2026-02-10",
		Status:        models.AbsenceStatusDraft,
		SelectionMode: models.ShiftSelectionAllScheduled,
	}
	require.NoError(t, repo.Create(context.Background(), db, absence))
	assert.NotEmpty(t, absence.ID)
	assert.False(t, absence.CreatedAt.IsZero())

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "school_id", "staff_id", "start_date", "end_date", "status", "shift_selection_mode", "reason", "coverage_status", "created_at", "updated_at"}).
		AddRow(absence.ID, "school-1", "staff-1", "2026-02-09", "2026-02-10", "draft", "all_scheduled", nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("to_char(start_date, 'YYYY-MM-DD') AS start_date, to_char(end_date, 'YYYY-MM-DD') AS end_date")+".*"+regexp.QuoteMeta("FROM absence_requests WHERE school_id = $1 AND id = $2")).
		WithArgs("school-1", absence.ID).
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), "school-1", absence.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AbsenceStatusDraft, found.Status)
	assert.Equal(t, models.ShiftSelectionAllScheduled, found.SelectionMode)
	assert.Nil(t, found.CoverageStatus)
	assert.Equal(t, "2026-02-09", found.StartDate)
	assert.Equal(t, "2026-02-10", found.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepositoryShifts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAbsenceRepository(db)

	mock.ExpectExec("INSERT INTO absence_shifts").
		WithArgs(sqlmock.AnyArg(), "absence-1", "2026-02-09", "day-1", "slot-am", "room-a", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	shifts := []models.AbsenceShift{{AbsenceID: "absence-1", Date: "2026-02-09", DayOfWeekID: "day-1", TimeSlotID: "slot-am", ClassroomID: "room-a"}}
	require.NoError(t, repo.CreateShifts(context.Background(), db, shifts))
	assert.NotEmpty(t, shifts[0].ID)

	rows := sqlmock.NewRows([]string{"id", "absence_id", "date", "day_of_week_id", "time_slot_id", "time_slot_code", "classroom_id", "classroom_name", "created_at"}).
		AddRow("shift-1", "absence-1", "2026-02-09", "day-1", "slot-am", "AM", "room-a", "Room A", time.Now())
	mock.ExpectQuery(`(?s)to_char\(s\.date, 'YYYY-MM-DD'\) AS date.*FROM absence_shifts s\s+JOIN time_slots`).
		WithArgs("absence-1").
		WillReturnRows(rows)

	listed, err := repo.ListShifts(context.Background(), "absence-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "AM", listed[0].TimeSlotCode)
	assert.Equal(t, "Room A", listed[0].ClassroomName)
	assert.Equal(t, "2026-02-09", listed[0].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAbsenceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE absence_requests SET status = $1")).
		WithArgs("cancelled", sqlmock.AnyArg(), "absence-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE absence_requests SET coverage_status = $1")).
		WithArgs("uncovered", sqlmock.AnyArg(), "absence-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), db, "absence-1", models.AbsenceStatusCancelled))
	require.NoError(t, repo.UpdateCoverageStatus(context.Background(), "absence-1", "uncovered"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
