package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	cancelBookingHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/create_booking"
	createOverrideHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/create_override"
	deleteBookingHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/delete_booking"
	deleteOverrideHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/delete_override"
	deleteStaffHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/delete_staff"
	getAvailableSlotsHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/get_booking"
	getBusinessHoursHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/get_business_hours"
	getCalendarHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/get_calendar"
	getDashboardHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/get_dashboard"
	getSettingsHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/get_settings"
	listBookingsHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/list_bookings"
	listOverridesHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/list_overrides"
	updateBookingHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/update_booking"
	updateBusinessHoursHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/update_business_hours"
	updateSettingsHandler "github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers/update_settings"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/middleware"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/config"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/cache/tenantcache"
	registryRepo "github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/registry"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/integrations/platform"
	bookingsService "github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings"
	scheduleService "github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule"
	settingsService "github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/settings"
	staffService "github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/staff"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	createBookingUC "github.com/ajtaylor-dev/Pagevoo-sub002/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/ajtaylor-dev/Pagevoo-sub002/internal/usecase/get_available_slots"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/dbmetrics"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/logger"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/metrics"
)

const configPath = "config.toml"

func main() {
	// Загружаем конфигурацию
	path := configPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking engine...")
	log.Info("Configuration loaded from %s", path)

	// Инициализируем метрики (если включены).
	// Выключенные метрики - nil коллектор, все методы *metrics.Metrics к этому готовы.
	var (
		metricsCollector *metrics.Metrics
		dbCollector      dbmetrics.Collector
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbCollector = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе реестра тенантов
	db, err := openPool(cfg.Database, cfg.Database.DBName)
	if err != nil {
		log.Fatal("Failed to connect to registry database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping registry database: %v", err)
	}
	log.Info("Successfully connected to registry database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	registryDB := dbmetrics.WrapWithDefault(db, dbCollector, cfg.Database.DBName, stopMetricsCh)

	// Источник реестра: таблица database_instances или API платформы
	var registry tenant.Registry
	switch cfg.Registry.Source {
	case config.RegistrySourceHTTP:
		registry = platform.NewClient(cfg.Registry.BaseURL, time.Duration(cfg.Registry.Timeout)*time.Second, log)
		log.Info("Tenant registry: platform API at %s (timeout=%ds)", cfg.Registry.BaseURL, cfg.Registry.Timeout)
	default:
		registry = registryRepo.NewRepository(registryDB)
		log.Info("Tenant registry: database_instances table")
	}

	// Кэш разрешения тенантов в Redis (опционально)
	var (
		tenantCache tenant.Cache
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Без кэша сервис работает, просто чаще ходит в реестр
			log.Warn("Redis is unavailable at %s, tenant cache requests will fall back to the registry: %v", cfg.Redis.Addr, err)
		}
		cancel()

		tenantCache = tenantcache.New(redisClient, time.Duration(cfg.Redis.TenantTTL)*time.Second)
		log.Info("Tenant cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TenantTTL)
	}

	// Пулы баз тенантов открываются лениво при первом запросе
	resolver := tenant.NewResolver(
		registry,
		tenantCache,
		func(databaseName string) (*sql.DB, error) {
			return openPool(cfg.TenantDatabase, databaseName)
		},
		dbCollector,
		metricsCollector,
		log,
	)
	defer func() {
		if err := resolver.Close(); err != nil {
			log.Error("Failed to close tenant pools: %v", err)
		}
	}()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingsService.Options{PreventDoubleBooking: cfg.Booking.DoubleBookingGuard()},
		metricsCollector,
		log,
	)
	scheduleSvc := scheduleService.NewService(log)
	settingsSvc := settingsService.NewService(log)
	staffSvc := staffService.NewService(log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		createBookingUC.Options{
			PreventDoubleBooking: cfg.Booking.DoubleBookingGuard(),
			EnforceAdvanceWindow: cfg.Booking.EnforceAdvanceWindow,
			ReferencePrefix:      cfg.Booking.ReferencePrefix,
			ReferenceAttempts:    cfg.Booking.ReferenceAttempts,
		},
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		getAvailableSlotsUC.Options{EnforceAdvanceWindow: cfg.Booking.EnforceAdvanceWindow},
		metricsCollector,
		log,
	)
	if !cfg.Booking.DoubleBookingGuard() {
		log.Warn("Double booking guard is disabled, overlapping bookings will be accepted")
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getDashboard := getDashboardHandler.NewHandler(bookingSvc, log)
	getCalendar := getCalendarHandler.NewHandler(bookingSvc, log)
	getBusinessHours := getBusinessHoursHandler.NewHandler(scheduleSvc, log)
	updateBusinessHours := updateBusinessHoursHandler.NewHandler(scheduleSvc, log)
	listOverrides := listOverridesHandler.NewHandler(scheduleSvc, log)
	createOverride := createOverrideHandler.NewHandler(scheduleSvc, log)
	deleteOverride := deleteOverrideHandler.NewHandler(scheduleSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)
	deleteStaff := deleteStaffHandler.NewHandler(staffSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health check проверяет доступность реестра
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := registryDB.PingContext(ctx); err != nil {
			log.Error("GET /health - Registry database is unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "registry database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix, все маршруты работают в рамках тенанта
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Tenant(resolver, log))

	// ============================================================
	// PUBLIC ROUTES (ограничены по частоте запросов с одного IP)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewIPRateLimiter(
			cfg.RateLimit.RPS,
			cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.IdleTTL)*time.Second,
			log,
		)
		defer limiter.Stop()
		public.Use(limiter.Middleware)
		log.Info("Rate limit enabled for public routes (rps=%.2f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Доступные слоты
	public.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования
	public.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES
	// ============================================================

	// --- Бронирования ---
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", updateBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{id:[0-9]+}", deleteBooking.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{id:[0-9]+}/confirm", confirmBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// --- Проекции ---
	api.HandleFunc("/dashboard", getDashboard.Handle).Methods(http.MethodGet)
	api.HandleFunc("/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// --- Расписание ---
	api.HandleFunc("/business-hours", getBusinessHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/business-hours", updateBusinessHours.Handle).Methods(http.MethodPut)
	api.HandleFunc("/availability-overrides", listOverrides.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability-overrides", createOverride.Handle).Methods(http.MethodPost)
	api.HandleFunc("/availability-overrides/{id:[0-9]+}", deleteOverride.Handle).Methods(http.MethodDelete)

	// --- Настройки ---
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	// --- Сотрудники ---
	api.HandleFunc("/staff/{id:[0-9]+}", deleteStaff.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// openPool открывает пул подключений к базе dbName (без подключения, sql.Open ленивый)
func openPool(dbCfg config.DatabaseConfig, dbName string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbCfg.DSNFor(dbName))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(dbCfg.MaxOpenConns)
	db.SetMaxIdleConns(dbCfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(dbCfg.ConnMaxLifetime) * time.Second)
	return db, nil
}
