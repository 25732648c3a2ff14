package tenant

import "errors"

var (
	// ErrTenantNotResolved возвращается, когда пара (type, reference_id) не указывает на хранилище
	ErrTenantNotResolved = errors.New("tenant: tenant not resolved")

	// ErrRegistryNotFound возвращается реализациями Registry для неизвестного тенанта
	ErrRegistryNotFound = errors.New("tenant: not registered")

	// ErrInternal возвращается при ошибках реестра или подключения
	ErrInternal = errors.New("tenant: internal error")
)
