package settings

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных (вместе с validation.Errors)
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
