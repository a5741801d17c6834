// Package config собирает настройки сервисов из переменных окружения.
//
// Перед чтением окружения подгружается необязательный файл .env
// (переменные, уже заданные в окружении, не перезаписываются).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Хранилища.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config — настройки subway-api и subway-auditor.
type Config struct {
	// DBURL — DSN Postgres (DB_URL).
	DBURL string

	// Store — postgres или memory (SUBWAY_STORE).
	Store string

	// APIPort — порт HTTP API (API_PORT).
	APIPort string

	// RabbitMQURL — адрес RabbitMQ (RABBITMQ_URL). Пусто — события не публикуются.
	RabbitMQURL string

	// LogLevel и LogFormat — см. telemetry.SetupLogger.
	LogLevel  string
	LogFormat string

	// Traces — режим OpenTelemetry: none или stdout (OTEL_TRACES).
	Traces string

	// RateLimitRPS и RateLimitBurst — лимит запросов на клиента. 0 — без лимита.
	RateLimitRPS   float64
	RateLimitBurst int

	// StationCacheSize — размер LRU-кэша станций. 0 — кэш выключен.
	StationCacheSize int
	StationCacheTTL  time.Duration

	// AuditCron — расписание полного аудита маршрутов (AUDIT_CRON).
	AuditCron string

	// AuditPort — порт /healthz и /metrics аудитора (AUDIT_PORT).
	AuditPort string
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBURL:       os.Getenv("DB_URL"),
		Store:       getEnv("SUBWAY_STORE", StorePostgres),
		APIPort:     getEnv("API_PORT", "8080"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		Traces:      getEnv("OTEL_TRACES", "none"),
		AuditCron:   getEnv("AUDIT_CRON", "*/5 * * * *"),
		AuditPort:   getEnv("AUDIT_PORT", "8081"),
	}

	var err error
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}
	if cfg.StationCacheSize, err = getInt("STATION_CACHE_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.StationCacheTTL, err = getDuration("STATION_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("SUBWAY_STORE: unknown store %q", c.Store)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS: must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST: must be positive when rate limiting is on")
	}
	return nil
}

// getEnv возвращает переменную окружения или значение по умолчанию.
func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
