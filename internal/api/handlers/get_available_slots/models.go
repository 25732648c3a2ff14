package get_available_slots

import (
	getAvailableSlots "github.com/ajtaylor-dev/Pagevoo-sub002/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в список слотов (поле data ответа)
func FromUseCaseResponse(resp *getAvailableSlots.Response) []SlotResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			Start:     slot.Start.String(),
			End:       slot.End.String(),
			Available: slot.Available,
		})
	}
	return slots
}
