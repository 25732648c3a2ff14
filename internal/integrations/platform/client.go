package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

// Client клиент реестра тенантов основной платформы
// Альтернатива чтению таблицы database_instances напрямую
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платформы
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetDatabaseName получает имя базы данных тенанта
func (c *Client) GetDatabaseName(ctx context.Context, kind string, referenceID int64) (string, error) {
	url := fmt.Sprintf("%s/internal/tenants/%s/%d/database", c.baseURL, kind, referenceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return "", tenant.ErrRegistryNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var instance DatabaseInstance
	if err := json.NewDecoder(resp.Body).Decode(&instance); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	// Неактивная база для нас равносильна отсутствию тенанта
	if instance.Status != StatusActive {
		c.log.Warn("Tenant %s/%d database %s is %s", kind, referenceID, instance.DatabaseName, instance.Status)
		return "", tenant.ErrRegistryNotFound
	}

	if instance.DatabaseName == "" {
		return "", fmt.Errorf("%w: empty database name", ErrInvalidResponse)
	}

	return instance.DatabaseName, nil
}
