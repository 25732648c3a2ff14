package schedule

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда исключение не найдено
	ErrOverrideNotFound = errors.New("availability override not found")

	// ErrInvalidInput возвращается при некорректных входных данных (вместе с validation.Errors)
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
