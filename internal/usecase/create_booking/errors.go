package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("create_booking: service is not active")

	// ErrSlotNotAvailable возвращается, когда окно пересекается с другим бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных (вместе с validation.Errors)
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrReferenceExhausted возвращается, когда не удалось подобрать уникальный номер
	ErrReferenceExhausted = errors.New("create_booking: could not allocate unique reference")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
