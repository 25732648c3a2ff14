package override

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/dbmetrics"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/psqlbuilder"
)

var (
	// ErrOverrideNotFound возвращается, когда исключение не найдено
	ErrOverrideNotFound = errors.New("override.repository: availability override not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("override.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("override.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("override.repository: failed to scan row")
)

// Repository репозиторий исключений доступности
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория исключений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// List возвращает исключения, отсортированные по дате и времени начала
func (r *Repository) List(ctx context.Context, filter domain.OverrideFilter) ([]*domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(
		"id", "staff_id", "date", "type", "start_time", "end_time", "reason", "created_at", "updated_at",
	).
		From("booking_availability").
		OrderBy("date ASC", "start_time ASC NULLS FIRST")

	if filter.StaffID != nil {
		builder = builder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"date": *filter.EndDate})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.AvailabilityOverride, 0)
	for rows.Next() {
		var o domain.AvailabilityOverride
		if err := rows.Scan(
			&o.ID, &o.StaffID, &o.Date, &o.Type, &o.StartTime, &o.EndTime, &o.Reason, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: List - scan override: %w", ErrScanRow, err)
		}
		result = append(result, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// Create сохраняет новое исключение
func (r *Repository) Create(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_availability").
		Columns("staff_id", "date", "type", "start_time", "end_time", "reason").
		Values(o.StaffID, o.Date, o.Type, o.StartTime, o.EndTime, o.Reason).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return o, nil
}

// Delete удаляет исключение по ID
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_availability").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

// HasFullDayBlock проверяет наличие исключения "unavailable" на весь день для области
// Области сотрудника и общая не смешиваются, как и в расписании
func (r *Repository) HasFullDayBlock(ctx context.Context, date time.Time, staffID *int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	scope := squirrel.Eq{"staff_id": nil}
	if staffID != nil {
		scope = squirrel.Eq{"staff_id": *staffID}
	}

	query, args, err := psqlbuilder.Select("1").
		Prefix("SELECT EXISTS (").
		From("booking_availability").
		Where(squirrel.Eq{
			"date":       date,
			"type":       domain.OverrideUnavailable,
			"start_time": nil,
			"end_time":   nil,
		}).
		Where(scope).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasFullDayBlock - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasFullDayBlock - scan: %w", ErrScanRow, err)
	}

	return exists, nil
}

// DeleteByStaff удаляет исключения сотрудника
func (r *Repository) DeleteByStaff(ctx context.Context, staffID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_availability").
		Where(squirrel.Eq{"staff_id": staffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByStaff - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByStaff - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}
