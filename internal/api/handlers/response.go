package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

const (
	maxBodyBytes = 1 << 20

	msgInternalError     = "внутренняя ошибка сервера"
	msgTenantNotResolved = "tenant not resolved"
	msgValidationFailed  = "ошибка валидации"
	msgTooManyRequests   = "слишком много запросов"
)

// Envelope общий формат ответа
type Envelope struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

// DecodeJSON читает тело запроса. Неизвестные поля игнорируются, лишние данные после объекта запрещены.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// RespondJSON отправляет успешный ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Envelope{Success: true, Data: data})
}

// RespondMessage отправляет успешный ответ с сообщением
func RespondMessage(w http.ResponseWriter, status int, data interface{}, message string) {
	write(w, status, Envelope{Success: true, Data: data, Message: message})
}

// RespondError отправляет ошибку с сообщением
func RespondError(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// RespondValidationError отправляет 422 с ошибками по полям.
// Если в err нет карты полей, отдаётся только сообщение.
func RespondValidationError(w http.ResponseWriter, err error) {
	fields, _ := validation.Fields(err)
	write(w, http.StatusUnprocessableEntity, Envelope{
		Success: false,
		Message: msgValidationFailed,
		Errors:  fields,
	})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondTenantNotResolved(w http.ResponseWriter) {
	RespondError(w, http.StatusNotFound, msgTenantNotResolved)
}

func RespondTooManyRequests(w http.ResponseWriter) {
	RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
}

// RespondInternalError не раскрывает причину клиенту
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
