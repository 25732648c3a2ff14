package create_booking

import "time"

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// ReferenceGenerator генерирует человекочитаемый номер бронирования
type ReferenceGenerator func(prefix string) (string, error)

// Metrics интерфейс метрик создания бронирований
type Metrics interface {
	IncBookingCreated(status string)
	IncBookingConflict()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
