package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

// ErrInvalidParam возвращается при некорректном параметре пути или строки запроса
var ErrInvalidParam = errors.New("invalid parameter")

// PathID читает положительный int64 из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidParam
	}
	return id, nil
}

// QueryID читает необязательный положительный int64 из строки запроса
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidParam
	}
	return &id, nil
}

// QueryDate читает необязательную дату YYYY-MM-DD
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return nil, ErrInvalidParam
	}
	return &date, nil
}

// QueryBool читает необязательный флаг; пустое значение считается false
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, ErrInvalidParam
	}
	return v, nil
}

// Store возвращает хранилище тенанта, подключённое middleware.
// Если его нет, отвечает 404 и возвращает false.
func Store(w http.ResponseWriter, r *http.Request) (*tenant.Store, bool) {
	store, ok := tenant.FromContext(r.Context())
	if !ok {
		RespondTenantNotResolved(w)
		return nil, false
	}
	return store, true
}
