package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/dbmetrics"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/psqlbuilder"
)

const statusActive = "active"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("registry.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("registry.repository: failed to execute query")
)

// Repository читает реестр баз данных тенантов из основной базы
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория реестра
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetDatabaseName возвращает имя базы активного тенанта
func (r *Repository) GetDatabaseName(ctx context.Context, kind string, referenceID int64) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("database_name").
		From("database_instances").
		Where(squirrel.Eq{
			"type":         kind,
			"reference_id": referenceID,
			"status":       statusActive,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: GetDatabaseName - build select query: %v", ErrBuildQuery, err)
	}

	var name string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", tenant.ErrRegistryNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: GetDatabaseName - scan: %w", ErrExecQuery, err)
	}

	return name, nil
}
