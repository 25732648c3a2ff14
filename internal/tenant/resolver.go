package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/dbmetrics"
)

// Opener opens a connection pool for a tenant database. It should not dial eagerly.
type Opener func(databaseName string) (*sql.DB, error)

// StoreFactory builds repositories over an opened pool.
type StoreFactory func(name string, db *dbmetrics.DB) *Store

// Resolver maps (type, reference_id) to a tenant Store.
// Pools are opened once per database and reused across requests.
type Resolver struct {
	registry  Registry
	cache     Cache
	open      Opener
	build     StoreFactory
	collector dbmetrics.Collector
	metrics   MetricsRecorder
	logger    Logger

	mu     sync.Mutex
	stores map[string]*Store
	pools  map[string]*dbmetrics.DB
}

// NewResolver создает резолвер тенантов. cache может быть nil.
func NewResolver(
	registry Registry,
	cache Cache,
	open Opener,
	collector dbmetrics.Collector,
	metrics MetricsRecorder,
	logger Logger,
) *Resolver {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Resolver{
		registry:  registry,
		cache:     cache,
		open:      open,
		build:     NewStore,
		collector: collector,
		metrics:   metrics,
		logger:    logger,
		stores:    make(map[string]*Store),
		pools:     make(map[string]*dbmetrics.DB),
	}
}

// WithStoreFactory заменяет фабрику хранилищ (используется в тестах)
func (r *Resolver) WithStoreFactory(build StoreFactory) *Resolver {
	r.build = build
	return r
}

// Resolve находит хранилище тенанта
func (r *Resolver) Resolve(ctx context.Context, kind string, referenceID int64) (*Store, error) {
	if !IsValidKind(kind) || referenceID <= 0 {
		r.logger.Warn("Resolve: invalid tenant reference type=%s, reference_id=%d", kind, referenceID)
		return nil, fmt.Errorf("%w: type=%s, reference_id=%d", ErrTenantNotResolved, kind, referenceID)
	}

	// 1. Пробуем кэш
	databaseName, source, err := r.lookup(ctx, kind, referenceID)
	if err != nil {
		return nil, err
	}

	// 2. Пул подключений и репозитории на каждую базу создаются один раз
	store, err := r.storeFor(databaseName)
	if err != nil {
		r.metrics.IncTenantResolution(source, "error")
		r.logger.Error("Resolve: failed to open database %s: %v", databaseName, err)
		// Имя из кэша могло устареть, следующий запрос пойдёт в реестр
		if source == "cache" {
			if err := r.cache.Invalidate(ctx, kind, referenceID); err != nil {
				r.logger.Warn("Resolve: cache invalidate failed for %s/%d: %v", kind, referenceID, err)
			}
		}
		return nil, fmt.Errorf("%w: open database: %v", ErrInternal, err)
	}

	r.metrics.IncTenantResolution(source, "ok")
	return store, nil
}

func (r *Resolver) lookup(ctx context.Context, kind string, referenceID int64) (string, string, error) {
	if r.cache != nil {
		name, found, err := r.cache.Get(ctx, kind, referenceID)
		if err != nil {
			// Кэш недоступен - идём в реестр
			r.logger.Warn("Resolve: cache get failed for %s/%d: %v", kind, referenceID, err)
		} else if found {
			return name, "cache", nil
		}
	}

	name, err := r.registry.GetDatabaseName(ctx, kind, referenceID)
	if err != nil {
		if errors.Is(err, ErrRegistryNotFound) {
			r.metrics.IncTenantResolution("registry", "not_found")
			r.logger.Warn("Resolve: tenant %s/%d not registered", kind, referenceID)
			return "", "", fmt.Errorf("%w: type=%s, reference_id=%d", ErrTenantNotResolved, kind, referenceID)
		}
		r.metrics.IncTenantResolution("registry", "error")
		r.logger.Error("Resolve: registry lookup failed for %s/%d: %v", kind, referenceID, err)
		return "", "", fmt.Errorf("%w: registry lookup: %v", ErrInternal, err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, kind, referenceID, name); err != nil {
			r.logger.Warn("Resolve: cache set failed for %s/%d: %v", kind, referenceID, err)
		}
	}

	return name, "registry", nil
}

func (r *Resolver) storeFor(databaseName string) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores[databaseName]; ok {
		return store, nil
	}

	sqlDB, err := r.open(databaseName)
	if err != nil {
		return nil, err
	}

	pool := dbmetrics.Wrap(sqlDB, r.collector, databaseName)
	store := r.build(databaseName, pool)

	r.pools[databaseName] = pool
	r.stores[databaseName] = store
	r.logger.Info("Resolve: opened pool for tenant database %s", databaseName)

	return store, nil
}

// Close закрывает все открытые пулы тенантов
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, pool := range r.pools {
		if err := pool.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	r.pools = make(map[string]*dbmetrics.DB)
	r.stores = make(map[string]*Store)

	return errors.Join(errs...)
}

type noopMetrics struct{}

func (noopMetrics) IncTenantResolution(string, string) {}
