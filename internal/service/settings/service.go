package settings

import (
	"context"
	"fmt"
	"sort"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

const maxKeyLength = 255

// reservedKeys приходят в том же теле запроса, но настройками не являются
var reservedKeys = map[string]bool{
	"type":         true,
	"reference_id": true,
}

// Service сервис настроек тенанта
type Service struct {
	logger Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(logger Logger) *Service {
	return &Service{logger: logger}
}

// Get возвращает сохранённые значения поверх значений по умолчанию
func (s *Service) Get(ctx context.Context, store *tenant.Store) (domain.Settings, error) {
	s.logger.Info("GetSettings: tenant=%s", store.Name)

	settings, err := s.load(ctx, store, "GetSettings")
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Update записывает каждый ключ отдельно и возвращает итоговые настройки.
// Массивы и объекты хранятся как JSON, скаляры как строки.
func (s *Service) Update(ctx context.Context, store *tenant.Store, values map[string]interface{}) (domain.Settings, error) {
	s.logger.Info("UpdateSettings: tenant=%s, keys=%d", store.Name, len(values))

	// 1. Проверяем ключи и кодируем значения
	keys := make([]string, 0, len(values))
	for key := range values {
		if !reservedKeys[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	errs := validation.Errors{}
	encoded := make(map[string]string, len(keys))
	for _, key := range keys {
		if key == "" || len(key) > maxKeyLength {
			errs.Add("key", fmt.Sprintf("setting keys must be 1..%d characters", maxKeyLength))
			continue
		}
		raw, err := domain.EncodeSettingValue(values[key])
		if err != nil {
			errs.Add(key, "value cannot be stored")
			continue
		}
		encoded[key] = raw
	}
	if err := errs.OrNil(); err != nil {
		s.logger.Warn("UpdateSettings: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 2. Сохраняем
	err := store.Tx.Do(ctx, func(txCtx context.Context) error {
		for _, key := range keys {
			if err := store.Settings.Upsert(txCtx, key, encoded[key]); err != nil {
				return fmt.Errorf("upsert %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: successfully saved %d keys", len(keys))
	return s.load(ctx, store, "UpdateSettings")
}

func (s *Service) load(ctx context.Context, store *tenant.Store, op string) (domain.Settings, error) {
	stored, err := store.Settings.GetAll(ctx)
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return domain.MergeSettings(stored), nil
}
