package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/dbmetrics"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

// Колонки бронирования с отображаемыми полями каталога
var selectColumns = []string{
	"b.id",
	"b.booking_reference",
	"b.service_id",
	"b.staff_id",
	"b.resource_id",
	"b.customer_name",
	"b.customer_email",
	"b.customer_phone",
	"b.customer_notes",
	"b.booking_date",
	"b.start_time",
	"b.end_time",
	"b.party_size",
	"b.status",
	"b.cancellation_reason",
	"b.total_price",
	"b.deposit_paid",
	"b.amount_paid",
	"b.payment_status",
	"b.payment_method",
	"b.payment_reference",
	"b.admin_notes",
	"b.confirmed_at",
	"b.cancelled_at",
	"b.completed_at",
	"b.created_at",
	"b.updated_at",
	"s.name",
	"s.duration_minutes",
	"s.price",
	"c.color",
	"st.name",
	"st.color",
	"r.name",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"booking_reference",
			"service_id",
			"staff_id",
			"resource_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"customer_notes",
			"booking_date",
			"start_time",
			"end_time",
			"party_size",
			"status",
			"total_price",
			"payment_status",
			"admin_notes",
			"confirmed_at",
		).
		Values(
			booking.Reference,
			booking.ServiceID,
			booking.StaffID,
			booking.ResourceID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.CustomerNotes,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.PartySize,
			booking.Status,
			booking.TotalPrice,
			booking.PaymentStatus,
			booking.AdminNotes,
			booking.ConfirmedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateReference
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID вместе с отображаемыми полями каталога
// Внутри транзакции строка бронирования блокируется (FOR UPDATE OF b)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := selectBookings().Where(squirrel.Eq{"b.id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования по фильтру
// Сортировка: дата по убыванию, затем время начала по возрастанию
//
// Строки блокируются (FOR UPDATE OF b) только при filter.ForUpdate внутри транзакции.
// В read-only транзакции PostgreSQL отклоняет FOR UPDATE, поэтому чтение слотов флаг не ставит
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := applyFilter(selectBookings(), filter).
		OrderBy("b.booking_date DESC", "b.start_time ASC")

	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE OF b")
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

	return scanBookings(rows)
}

// Count считает бронирования по фильтру
func (r *Repository) Count(ctx context.Context, filter domain.BookingFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select("COUNT(*)").From("bookings b"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// Update сохраняет все изменяемые поля бронирования
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		SetMap(map[string]interface{}{
			"service_id":          booking.ServiceID,
			"staff_id":            booking.StaffID,
			"resource_id":         booking.ResourceID,
			"customer_name":       booking.CustomerName,
			"customer_email":      booking.CustomerEmail,
			"customer_phone":      booking.CustomerPhone,
			"customer_notes":      booking.CustomerNotes,
			"booking_date":        booking.BookingDate,
			"start_time":          booking.StartTime,
			"end_time":            booking.EndTime,
			"party_size":          booking.PartySize,
			"status":              booking.Status,
			"cancellation_reason": booking.CancellationReason,
			"total_price":         booking.TotalPrice,
			"deposit_paid":        booking.DepositPaid,
			"amount_paid":         booking.AmountPaid,
			"payment_status":      booking.PaymentStatus,
			"payment_method":      booking.PaymentMethod,
			"payment_reference":   booking.PaymentReference,
			"admin_notes":         booking.AdminNotes,
			"confirmed_at":        booking.ConfirmedAt,
			"cancelled_at":        booking.CancelledAt,
			"completed_at":        booking.CompletedAt,
			"updated_at":          squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": booking.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// Delete удаляет бронирование без следа (административная очистка)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
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
		return ErrBookingNotFound
	}

	return nil
}

// ReferenceExists проверяет, занят ли номер бронирования
func (r *Repository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		Prefix("SELECT EXISTS (").
		From("bookings").
		Where(squirrel.Eq{"booking_reference": reference}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ReferenceExists - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ReferenceExists - scan: %w", ErrScanRow, err)
	}

	return exists, nil
}

// LockScope берет транзакционную advisory-блокировку на ключ области бронирования
// Блокировка снимается при завершении транзакции
func (r *Repository) LockScope(ctx context.Context, key string) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("%w: LockScope - acquire lock %s: %w", ErrExecQuery, key, err)
	}

	return nil
}

func selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(selectColumns...).
		From("bookings b").
		LeftJoin("booking_services s ON s.id = b.service_id").
		LeftJoin("booking_categories c ON c.id = s.category_id").
		LeftJoin("booking_staff st ON st.id = b.staff_id").
		LeftJoin("booking_resources r ON r.id = b.resource_id")
}

// applyFilter добавляет условия фильтра; используется и в List, и в Count
func applyFilter(builder squirrel.SelectBuilder, filter domain.BookingFilter) squirrel.SelectBuilder {
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"b.status": *filter.Status})
	}
	if len(filter.ExcludeStatuses) > 0 {
		builder = builder.Where(squirrel.NotEq{"b.status": statusStrings(filter.ExcludeStatuses)})
	}
	if filter.ServiceID != nil {
		builder = builder.Where(squirrel.Eq{"b.service_id": *filter.ServiceID})
	}
	if filter.StaffID != nil {
		builder = builder.Where(squirrel.Eq{"b.staff_id": *filter.StaffID})
	}
	if filter.ResourceID != nil {
		builder = builder.Where(squirrel.Eq{"b.resource_id": *filter.ResourceID})
	}
	if filter.ExcludeID != nil {
		builder = builder.Where(squirrel.NotEq{"b.id": *filter.ExcludeID})
	}

	// Диапазон дат имеет приоритет над конкретной датой
	switch {
	case filter.StartDate != nil && filter.EndDate != nil:
		builder = builder.Where(squirrel.GtOrEq{"b.booking_date": *filter.StartDate}).
			Where(squirrel.LtOrEq{"b.booking_date": *filter.EndDate})
	case filter.Date != nil:
		builder = builder.Where(squirrel.Eq{"b.booking_date": *filter.Date})
	}

	if filter.Upcoming {
		builder = builder.Where(squirrel.GtOrEq{"b.booking_date": filter.Today}).
			Where(squirrel.NotEq{"b.status": statusStrings(domain.ClosedStatuses)})
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"b.customer_name": pattern},
			squirrel.ILike{"b.customer_email": pattern},
			squirrel.ILike{"b.customer_phone": pattern},
			squirrel.ILike{"b.booking_reference": pattern},
		})
	}

	return builder
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.ServiceID,
		&b.StaffID,
		&b.ResourceID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.CustomerNotes,
		&b.BookingDate,
		&b.StartTime,
		&b.EndTime,
		&b.PartySize,
		&b.Status,
		&b.CancellationReason,
		&b.TotalPrice,
		&b.DepositPaid,
		&b.AmountPaid,
		&b.PaymentStatus,
		&b.PaymentMethod,
		&b.PaymentReference,
		&b.AdminNotes,
		&b.ConfirmedAt,
		&b.CancelledAt,
		&b.CompletedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.ServiceName,
		&b.ServiceDuration,
		&b.ServicePrice,
		&b.ServiceColor,
		&b.StaffName,
		&b.StaffColor,
		&b.ResourceName,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
