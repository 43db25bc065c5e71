package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"pet-weight-tracker/internal/platform/logger"

	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	PerMinute       int
	Burst           int
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig: 120 req/min por cliente.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		PerMinute:       120,
		Burst:           120,
		CleanupInterval: 5 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter limita por usuario autenticado y, si no hay, por IP.
type RateLimiter struct {
	cfg   RateLimiterConfig
	limit rate.Limit
	log   logger.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(cfg RateLimiterConfig, log logger.Logger) *RateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.PerMinute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}

	rl := &RateLimiter{
		cfg:     cfg,
		limit:   rate.Limit(float64(cfg.PerMinute) / 60.0),
		log:     log,
		clients: make(map[string]*clientLimiter),
		stopCh:  make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware va después de AuthContext para poder usar el user id como clave.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !rl.limiter(key).Allow() {
			rl.log.Warn("rate limit exceeded", map[string]any{
				"client":     key,
				"request_id": GetRequestID(r.Context()),
			})
			rl.reject(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if c, ok := rl.clients[key]; ok {
		c.lastAccess = time.Now()
		return c.limiter
	}
	c := &clientLimiter{
		limiter:    rate.NewLimiter(rl.limit, rl.cfg.Burst),
		lastAccess: time.Now(),
	}
	rl.clients[key] = c
	return c.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup borra clientes sin actividad durante dos intervalos.
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.cfg.CleanupInterval * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, c := range rl.clients {
		if now.Sub(c.lastAccess) > ttl {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) reject(w http.ResponseWriter) {
	retry := 1
	if rl.limit > 0 {
		retry = int(math.Ceil(1.0 / float64(rl.limit)))
		if retry < 1 {
			retry = 1
		}
	}
	w.Header().Set("Retry-After", strconv.Itoa(retry))
	WriteError(w, http.StatusTooManyRequests, "Too many requests")
}

func clientKey(r *http.Request) string {
	if uid, ok := OwnerID(r.Context()); ok {
		return "user:" + strconv.FormatInt(uid, 10)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
