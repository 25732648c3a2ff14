package tenant

import (
	"context"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/booking"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/catalog"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/hours"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/override"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/settings"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/dbmetrics"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/txmanager"
)

// Kinds of tenants known to the platform
const (
	KindTemplate = "template"
	KindWebsite  = "website"
)

// IsValidKind reports whether kind can be resolved.
func IsValidKind(kind string) bool {
	return kind == KindTemplate || kind == KindWebsite
}

// Store is an explicit handle to one tenant's isolated data.
// Use cases receive it per call; nothing holds a current tenant globally.
type Store struct {
	Name      string
	Bookings  BookingRepository
	Hours     HoursRepository
	Overrides OverrideRepository
	Settings  SettingsRepository
	Catalog   CatalogRepository
	Tx        TransactionManager
}

// NewStore builds the postgres-backed repositories over db.
func NewStore(name string, db *dbmetrics.DB) *Store {
	return &Store{
		Name:      name,
		Bookings:  booking.NewRepository(db),
		Hours:     hours.NewRepository(db),
		Overrides: override.NewRepository(db),
		Settings:  settings.NewRepository(db),
		Catalog:   catalog.NewRepository(db),
		Tx:        txmanager.NewTransactionManager(db),
	}
}

type storeKey struct{}

// WithStore attaches a resolved store to ctx (request scope only).
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

// FromContext returns the store attached by the tenant middleware.
func FromContext(ctx context.Context) (*Store, bool) {
	store, ok := ctx.Value(storeKey{}).(*Store)
	return store, ok && store != nil
}
