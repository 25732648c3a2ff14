package platform

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("platform client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от платформы
	ErrInvalidResponse = errors.New("platform client: invalid response")
)
