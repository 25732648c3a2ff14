package get_available_slots

import (
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	StaffID   *int64    // ID сотрудника (опционально, меняет область расписания)
	Date      time.Time // Дата без времени
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time
	ServiceID int64
	StaffID   *int64
	Slots     []domain.Slot // Только свободные слоты, по возрастанию времени
}
