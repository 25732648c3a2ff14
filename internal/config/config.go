package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Источники реестра тенантов
const (
	RegistrySourceDatabase = "database"
	RegistrySourceHTTP     = "http"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig    `toml:"server"`
	Database       DatabaseConfig  `toml:"database"`
	TenantDatabase DatabaseConfig  `toml:"tenant_database"`
	Redis          RedisConfig     `toml:"redis"`
	Logs           LogsConfig      `toml:"logs"`
	Metrics        MetricsConfig   `toml:"metrics"`
	Booking        BookingConfig   `toml:"booking"`
	RateLimit      RateLimitConfig `toml:"rate_limit"`
	Registry       RegistryConfig  `toml:"registry"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к Postgres.
// Для tenant_database поле DBName не используется: имя базы берётся из реестра.
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения к базе DBName
func (c DatabaseConfig) DSN() string {
	return c.DSNFor(c.DBName)
}

// DSNFor строка подключения к базе dbName с теми же учётными данными
func (c DatabaseConfig) DSNFor(dbName string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, dbName, c.SSLMode)
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// TTL кэша разрешения тенанта в секундах
	TenantTTL int `toml:"tenant_ttl"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BookingConfig struct {
	PreventDoubleBooking *bool  `toml:"prevent_double_booking"`
	EnforceAdvanceWindow bool   `toml:"enforce_advance_window"`
	ReferencePrefix      string `toml:"reference_prefix"`
	ReferenceAttempts    int    `toml:"reference_attempts"`
}

// DoubleBookingGuard включена ли проверка пересечений (по умолчанию да)
func (c BookingConfig) DoubleBookingGuard() bool {
	return c.PreventDoubleBooking == nil || *c.PreventDoubleBooking
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
	// Через сколько секунд бездействия клиент забывается
	IdleTTL int `toml:"idle_ttl"`
}

type RegistryConfig struct {
	Source  string `toml:"source"`
	BaseURL string `toml:"base_url"`
	Timeout int    `toml:"timeout"`
}

// Load читает .env (если есть), TOML файл, переменные окружения и проставляет значения по умолчанию
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv("TENANT_DB_PASSWORD"); ok {
		c.TenantDatabase.Password = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		c.Redis.Password = v
	}
	if v, ok := os.LookupEnv("HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_PORT %q: %w", v, err)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

func (c *Config) applyDefaults() {
	setInt(&c.Server.HTTPPort, 8080)
	setInt(&c.Server.ReadTimeout, 15)
	setInt(&c.Server.WriteTimeout, 15)
	setInt(&c.Server.IdleTimeout, 60)
	setInt(&c.Server.ShutdownTimeout, 10)

	c.Database.applyDefaults()
	c.TenantDatabase.applyDefaults()

	setString(&c.Redis.Addr, "localhost:6379")
	setInt(&c.Redis.TenantTTL, 300)

	setString(&c.Logs.Level, "info")

	setString(&c.Metrics.Path, "/metrics")
	setString(&c.Metrics.ServiceName, "booking-engine")

	setString(&c.Booking.ReferencePrefix, "BK")
	setInt(&c.Booking.ReferenceAttempts, 5)

	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 5
	}
	setInt(&c.RateLimit.Burst, 10)
	setInt(&c.RateLimit.IdleTTL, 600)

	setString(&c.Registry.Source, RegistrySourceDatabase)
	setInt(&c.Registry.Timeout, 5)
}

func (c *DatabaseConfig) applyDefaults() {
	setString(&c.Host, "localhost")
	setInt(&c.Port, 5432)
	setString(&c.SSLMode, "disable")
	setInt(&c.MaxOpenConns, 10)
	setInt(&c.MaxIdleConns, 5)
	setInt(&c.ConnMaxLifetime, 300)
}

// Validate проверяет значения и возвращает все найденные ошибки разом
func (c *Config) Validate() error {
	var errs []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Sprintf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort))
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.TenantDatabase.User == "" {
		errs = append(errs, "tenant_database.user is required")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, "database.max_idle_conns must not exceed max_open_conns")
	}
	if c.Redis.TenantTTL < 0 {
		errs = append(errs, "redis.tenant_ttl must not be negative")
	}
	switch c.Logs.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logs.level must be one of debug, info, warn, error, got %q", c.Logs.Level))
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, "metrics.path must start with /")
	}
	if c.Booking.ReferenceAttempts < 1 {
		errs = append(errs, "booking.reference_attempts must be at least 1")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 1 {
		errs = append(errs, "rate_limit.rps must be positive and rate_limit.burst at least 1")
	}
	switch c.Registry.Source {
	case RegistrySourceDatabase:
	case RegistrySourceHTTP:
		if c.Registry.BaseURL == "" {
			errs = append(errs, "registry.base_url is required for the http source")
		}
	default:
		errs = append(errs, fmt.Sprintf("registry.source must be %s or %s, got %q",
			RegistrySourceDatabase, RegistrySourceHTTP, c.Registry.Source))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}
