package catalog

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/storagetest"
)

const selectService = "SELECT id, category_id, name, duration_minutes, buffer_before_minutes, buffer_after_minutes, " +
	"capacity, price, is_active FROM booking_services WHERE id = $1"

func TestGetService(t *testing.T) {
	db, _, mock := storagetest.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(storagetest.Exact(selectService)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "category_id", "name", "duration_minutes", "buffer_before_minutes", "buffer_after_minutes",
			"capacity", "price", "is_active",
		}).AddRow(int64(1), nil, "Haircut", 45, 5, 10, 1, 25.5, true))

	s, err := repo.GetService(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Haircut", s.Name)
	assert.Nil(t, s.CategoryID)
	assert.Equal(t, 10, s.BufferAfterMinutes)
	assert.True(t, s.IsActive)
}

func TestGetService_NotFound(t *testing.T) {
	db, _, mock := storagetest.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(storagetest.Exact(selectService)).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetService(context.Background(), 2)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestStaffCleanup(t *testing.T) {
	db, tx, mock := storagetest.New(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(storagetest.Exact("DELETE FROM booking_staff_services WHERE staff_id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(storagetest.Exact("DELETE FROM booking_staff WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		if err := repo.DetachStaffServices(ctx, 4); err != nil {
			return err
		}
		return repo.DeleteStaff(ctx, 4)
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}
