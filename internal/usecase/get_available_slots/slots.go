package get_available_slots

import (
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
)

// GenerateSlots перебирает кандидатов от открытия с шагом interval
// и оставляет те, что не пересекают перерыв и буферизованные бронирования.
// Закрытый день или nil hours дают пустой список.
func GenerateSlots(
	hours *domain.BusinessHours,
	service *domain.Service,
	bookings []*domain.Booking,
	interval int,
) []domain.Slot {
	slots := make([]domain.Slot, 0)

	if hours == nil || !hours.IsOpen || hours.OpenTime.IsZero() || hours.CloseTime.IsZero() {
		return slots
	}
	if interval <= 0 {
		interval = domain.DefaultSlotIntervalMinutes
	}

	duration := service.Duration()
	open := hours.OpenTime.Minutes()
	closeAt := hours.CloseTime.Minutes()

	for start := open; start+duration <= closeAt; start += interval {
		candidate := domain.Interval{Start: start, End: start + duration}

		// Перерыв
		if hours.HasBreak() && candidate.Overlaps(hours.Break()) {
			continue
		}

		// Бронирования с буферами услуги
		if domain.FindConflict(candidate, bookings, service.BufferBeforeMinutes, service.BufferAfterMinutes, 0) != nil {
			continue
		}

		startTime, err := types.FromMinutes(candidate.Start)
		if err != nil {
			break
		}
		endTime, err := types.FromMinutes(candidate.End)
		if err != nil {
			break
		}

		slots = append(slots, domain.Slot{Start: startTime, End: endTime, Available: true})
	}

	return slots
}
