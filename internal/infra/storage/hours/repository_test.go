package hours

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/storagetest"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/ptr"
)

const selectHours = "SELECT id, staff_id, day_of_week, is_open, open_time, close_time, break_start, break_end, created_at, updated_at " +
	"FROM booking_business_hours "

func hoursRow(staffID interface{}, day int) *sqlmock.Rows {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).
		AddRow(int64(11), staffID, day, true, "09:00:00", "17:00:00", "12:00:00", "13:00:00", now, now)
}

func TestGetForDay_Scope(t *testing.T) {
	tests := []struct {
		name    string
		staffID *int64
		query   string
		args    []driver.Value
	}{
		{"global", nil, selectHours + "WHERE day_of_week = $1 AND staff_id IS NULL LIMIT 1", []driver.Value{1}},
		{"staff", ptr.Ptr(int64(4)), selectHours + "WHERE day_of_week = $1 AND staff_id = $2 LIMIT 1", []driver.Value{1, int64(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, mock := storagetest.New(t)
			repo := NewRepository(db)

			mock.ExpectQuery(storagetest.Exact(tt.query)).
				WithArgs(tt.args...).
				WillReturnRows(hoursRow(nil, 1))

			h, err := repo.GetForDay(context.Background(), 1, tt.staffID)
			require.NoError(t, err)
			assert.Equal(t, int64(11), h.ID)
			assert.Equal(t, "09:00", h.OpenTime.String())
			assert.Equal(t, "12:00", h.BreakStart.String())
		})
	}
}

func TestGetForDay_NotFound(t *testing.T) {
	db, _, mock := storagetest.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(storagetest.Parts("FROM booking_business_hours")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetForDay(context.Background(), 0, nil)
	assert.ErrorIs(t, err, ErrHoursNotFound)
}

func TestListByScope_OrderedByDay(t *testing.T) {
	db, _, mock := storagetest.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(storagetest.Exact(selectHours + "WHERE staff_id IS NULL ORDER BY day_of_week ASC")).
		WillReturnRows(hoursRow(nil, 1).AddRow(int64(12), nil, 2, false, nil, nil, nil, nil, time.Now(), time.Now()))

	rows, err := repo.ListByScope(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.False(t, rows[1].IsOpen)
	assert.True(t, rows[1].OpenTime.IsZero())
}

func TestUpsert_ConflictTargetCoversGlobalScope(t *testing.T) {
	db, _, mock := storagetest.New(t)
	repo := NewRepository(db)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(storagetest.Parts(
		"INSERT INTO booking_business_hours (staff_id,day_of_week,is_open,open_time,close_time,break_start,break_end) VALUES ($1,$2,$3,$4,$5,$6,$7)",
		"ON CONFLICT ((COALESCE(staff_id, 0)), day_of_week) DO UPDATE SET",
		"is_open = EXCLUDED.is_open",
		"updated_at = NOW()",
		"RETURNING id, created_at, updated_at", "$",
	)).
		WithArgs(nil, 1, true, "09:00", "17:00", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	h, err := repo.Upsert(context.Background(), &domain.BusinessHours{
		DayOfWeek: 1, IsOpen: true, OpenTime: "09:00", CloseTime: "17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), h.ID)
	assert.Equal(t, now, h.CreatedAt)
}

func TestDeleteByStaff(t *testing.T) {
	db, _, mock := storagetest.New(t)
	repo := NewRepository(db)

	mock.ExpectExec(storagetest.Exact("DELETE FROM booking_business_hours WHERE staff_id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 7))

	require.NoError(t, repo.DeleteByStaff(context.Background(), 4))
}
