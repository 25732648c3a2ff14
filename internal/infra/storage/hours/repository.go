package hours

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/dbmetrics"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/psqlbuilder"
)

var (
	// ErrHoursNotFound возвращается, когда для дня недели и области нет строки расписания
	ErrHoursNotFound = errors.New("hours.repository: business hours not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("hours.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("hours.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("hours.repository: failed to scan row")
)

var columns = []string{
	"id",
	"staff_id",
	"day_of_week",
	"is_open",
	"open_time",
	"close_time",
	"break_start",
	"break_end",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельного расписания
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetForDay возвращает строку расписания для дня недели в указанной области
// Если staffID задан - только строка сотрудника, без отката на общую
func (r *Repository) GetForDay(ctx context.Context, dayOfWeek int, staffID *int64) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("booking_business_hours").
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		Where(scopeEq(staffID)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetForDay - build select query: %v", ErrBuildQuery, err)
	}

	hours, err := scanHours(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetForDay - scan hours: %w", ErrScanRow, err)
	}

	return hours, nil
}

// ListByScope возвращает расписание области, отсортированное по дню недели
func (r *Repository) ListByScope(ctx context.Context, staffID *int64) ([]*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("booking_business_hours").
		Where(scopeEq(staffID)).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByScope - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByScope - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BusinessHours, 0, 7)
	for rows.Next() {
		h, err := scanHours(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByScope - scan hours: %w", ErrScanRow, err)
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByScope - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// Upsert создает или обновляет строку (staff_id, day_of_week)
// Уникальный индекс построен по COALESCE(staff_id, 0), чтобы общая область тоже была уникальной
func (r *Repository) Upsert(ctx context.Context, hours *domain.BusinessHours) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_business_hours").
		Columns("staff_id", "day_of_week", "is_open", "open_time", "close_time", "break_start", "break_end").
		Values(hours.StaffID, hours.DayOfWeek, hours.IsOpen, hours.OpenTime, hours.CloseTime, hours.BreakStart, hours.BreakEnd).
		Suffix(`ON CONFLICT ((COALESCE(staff_id, 0)), day_of_week) DO UPDATE SET
			is_open = EXCLUDED.is_open,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&hours.ID, &hours.CreatedAt, &hours.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return hours, nil
}

// DeleteByStaff удаляет расписание сотрудника
func (r *Repository) DeleteByStaff(ctx context.Context, staffID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_business_hours").
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

func scopeEq(staffID *int64) squirrel.Eq {
	if staffID == nil {
		return squirrel.Eq{"staff_id": nil}
	}
	return squirrel.Eq{"staff_id": *staffID}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHours(row rowScanner) (*domain.BusinessHours, error) {
	var h domain.BusinessHours
	err := row.Scan(
		&h.ID,
		&h.StaffID,
		&h.DayOfWeek,
		&h.IsOpen,
		&h.OpenTime,
		&h.CloseTime,
		&h.BreakStart,
		&h.BreakEnd,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
