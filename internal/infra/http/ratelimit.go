package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const limiterCacheSize = 10000

// RateLimiter ограничивает частоту запросов одного клиента корзиной токенов.
// Клиент определяется по адресу после middleware.RealIP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
	log      zerolog.Logger
}

// NewRateLimiter создаёт ограничитель. Неположительный rps отключает ограничение.
func NewRateLimiter(rps float64, burst int, logger zerolog.Logger) *RateLimiter {
	limiters, _ := lru.New[string, *rate.Limiter](limiterCacheSize)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiters: limiters, rate: rate.Limit(rps), burst: burst, log: logger}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, ok := rl.limiters.Get(key); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters.Add(key, limiter)
	return limiter
}

// Handler возвращает middleware ограничения частоты.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	if rl.rate <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !rl.limiter(key).Allow() {
			rl.log.Warn().Str("client", key).Str("path", r.URL.Path).Msg("превышен лимит запросов")
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(1))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "Too many requests. Please slow down.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
