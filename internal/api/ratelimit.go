package api

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter — token bucket на каждый ключ (IP клиента).
// Давно не использованные ключи периодически вычищаются.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*limiterEntry
	hits  uint64
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter создаёт лимитер; при rps <= 0 возвращает nil (без ограничений).
func NewRateLimiter(rps float64, burst int, idleTTL time.Duration) *RateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = max(1, int(rps))
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		byKey:   make(map[string]*limiterEntry),
	}
}

// Allow забирает один токен для key в момент now.
func (l *RateLimiter) Allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now

	l.hits++
	if l.hits%512 == 0 {
		l.evict(now)
	}

	return e.limiter.AllowN(now, 1)
}

// evict удаляет ключи, не встречавшиеся дольше idleTTL. Вызывается под l.mu.
func (l *RateLimiter) evict(now time.Time) {
	cutoff := now.Add(-l.idleTTL)
	for k, e := range l.byKey {
		if e.lastSeen.Before(cutoff) {
			delete(l.byKey, k)
		}
	}
}
