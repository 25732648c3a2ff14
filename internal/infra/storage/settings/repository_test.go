package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/storagetest"
)

func TestGetAll_NullValueIsEmpty(t *testing.T) {
	db, _, mock := storagetest.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(storagetest.Exact("SELECT key, value FROM booking_settings")).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow("currency", `"EUR"`).
			AddRow("note", nil))

	got, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"currency": `"EUR"`, "note": ""}, got)
}

func TestUpsert_LastWriteWins(t *testing.T) {
	db, tx, mock := storagetest.New(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(storagetest.Exact(
		"INSERT INTO booking_settings (key,value) VALUES ($1,$2) " +
			"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()",
	)).
		WithArgs("currency", `"EUR"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		return repo.Upsert(ctx, "currency", `"EUR"`)
	})
	require.NoError(t, err)
}

func TestUpsert_WrapsDriverError(t *testing.T) {
	db, _, mock := storagetest.New(t)
	repo := NewRepository(db)
	dbErr := errors.New("connection reset")

	mock.ExpectExec(storagetest.Parts("INSERT INTO booking_settings")).WillReturnError(dbErr)

	err := repo.Upsert(context.Background(), "currency", `"EUR"`)
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.ErrorIs(t, err, dbErr)
}
