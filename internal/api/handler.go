package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shaiso/subway/internal/service"
	"github.com/shaiso/subway/internal/telemetry"
)

// Handler — обработчики API с зависимостями.
type Handler struct {
	stations *service.StationService
	lines    *service.LineService
	limiter  *RateLimiter
	logger   *slog.Logger
}

// Config — зависимости Handler.
type Config struct {
	Stations *service.StationService
	Lines    *service.LineService
	Logger   *slog.Logger

	// RateLimitRPS и RateLimitBurst — лимит запросов на клиента.
	// RateLimitRPS <= 0 отключает ограничение.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewHandler создаёт Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		stations: cfg.Stations,
		lines:    cfg.Lines,
		limiter:  NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute),
		logger:   logger,
	}
}

// log — логгер запроса, который положил Logging.
func (h *Handler) log(r *http.Request) *slog.Logger {
	return telemetry.FromContextOr(r.Context(), h.logger)
}
