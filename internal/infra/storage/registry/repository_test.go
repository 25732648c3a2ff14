package registry

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/storagetest"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

const selectName = "SELECT database_name FROM database_instances " +
	"WHERE reference_id = $1 AND status = $2 AND type = $3 LIMIT 1"

func TestGetDatabaseName(t *testing.T) {
	db, _, mock := storagetest.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(storagetest.Exact(selectName)).
		WithArgs(int64(7), "active", "template").
		WillReturnRows(sqlmock.NewRows([]string{"database_name"}).AddRow("pagevoo_template_7"))

	name, err := repo.GetDatabaseName(context.Background(), "template", 7)
	require.NoError(t, err)
	assert.Equal(t, "pagevoo_template_7", name)
}

func TestGetDatabaseName_NotRegistered(t *testing.T) {
	db, _, mock := storagetest.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(storagetest.Exact(selectName)).
		WithArgs(int64(8), "active", "website").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetDatabaseName(context.Background(), "website", 8)
	assert.ErrorIs(t, err, tenant.ErrRegistryNotFound)
}
