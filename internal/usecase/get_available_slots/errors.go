package get_available_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных (вместе с validation.Errors)
	ErrInvalidInput = errors.New("invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("service is not active")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
