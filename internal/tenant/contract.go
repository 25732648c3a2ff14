package tenant

import (
	"context"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
)

// BookingRepository хранилище бронирований тенанта
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	Count(ctx context.Context, filter domain.BookingFilter) (int, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	LockScope(ctx context.Context, key string) error
}

// HoursRepository хранилище недельного расписания
type HoursRepository interface {
	GetForDay(ctx context.Context, dayOfWeek int, staffID *int64) (*domain.BusinessHours, error)
	ListByScope(ctx context.Context, staffID *int64) ([]*domain.BusinessHours, error)
	Upsert(ctx context.Context, hours *domain.BusinessHours) (*domain.BusinessHours, error)
	DeleteByStaff(ctx context.Context, staffID int64) error
}

// OverrideRepository хранилище исключений по датам
type OverrideRepository interface {
	List(ctx context.Context, filter domain.OverrideFilter) ([]*domain.AvailabilityOverride, error)
	Create(ctx context.Context, override *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error)
	Delete(ctx context.Context, id int64) error
	HasFullDayBlock(ctx context.Context, date time.Time, staffID *int64) (bool, error)
	DeleteByStaff(ctx context.Context, staffID int64) error
}

// SettingsRepository хранилище настроек ключ/значение
type SettingsRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Upsert(ctx context.Context, key, value string) error
}

// CatalogRepository чтение каталога и удаление сотрудников
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	DetachStaffServices(ctx context.Context, staffID int64) error
	DeleteStaff(ctx context.Context, staffID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Registry находит имя базы данных тенанта
type Registry interface {
	GetDatabaseName(ctx context.Context, kind string, referenceID int64) (string, error)
}

// Cache кэширует результат Registry
type Cache interface {
	Get(ctx context.Context, kind string, referenceID int64) (string, bool, error)
	Set(ctx context.Context, kind string, referenceID int64, databaseName string) error
	Invalidate(ctx context.Context, kind string, referenceID int64) error
}

// MetricsRecorder считает разрешения тенантов
type MetricsRecorder interface {
	IncTenantResolution(source, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
