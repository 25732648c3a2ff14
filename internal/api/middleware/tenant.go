package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

const (
	msgInvalidTenantType = "некорректный тип тенанта"
	msgInvalidReference  = "некорректный reference_id"
)

// Tenant находит хранилище по query параметрам type (по умолчанию template) и reference_id
// и кладёт его в контекст запроса.
func Tenant(resolver TenantResolver, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()

			kind := query.Get("type")
			if kind == "" {
				kind = tenant.KindTemplate
			}
			if !tenant.IsValidKind(kind) {
				log.Warn("Tenant: invalid type=%q, path=%s", kind, r.URL.Path)
				handlers.RespondBadRequest(w, msgInvalidTenantType)
				return
			}

			referenceID, err := strconv.ParseInt(query.Get("reference_id"), 10, 64)
			if err != nil || referenceID <= 0 {
				log.Warn("Tenant: invalid reference_id=%q, path=%s", query.Get("reference_id"), r.URL.Path)
				handlers.RespondBadRequest(w, msgInvalidReference)
				return
			}

			store, err := resolver.Resolve(r.Context(), kind, referenceID)
			if err != nil {
				switch {
				case errors.Is(err, tenant.ErrTenantNotResolved):
					log.Warn("Tenant: not resolved type=%s, reference_id=%d", kind, referenceID)
					handlers.RespondTenantNotResolved(w)

				default:
					log.Error("Tenant: failed to resolve type=%s, reference_id=%d: %v", kind, referenceID, err)
					handlers.RespondInternalError(w)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(tenant.WithStore(r.Context(), store)))
		})
	}
}
