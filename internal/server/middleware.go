package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/yt2spot/internal/shared"
	"golang.org/x/time/rate"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// RequestLogger decorates requests with a per-request ID and logs method,
// path, status, and duration on completion. Panics are recovered and
// reported as 500s.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := shared.WithLogger(logger,
				"request_id", shared.GenerateID(),
				"method", r.Method,
				"path", r.URL.Path,
			)

			wrapped := &statusWriter{ResponseWriter: w}

			defer func() {
				if rec := recover(); rec != nil {
					reqLogger.Error("panic recovered", "panic", rec)
					http.Error(wrapped, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
				reqLogger.Info("request completed",
					"status", wrapped.Status(),
					"duration", time.Since(start),
				)
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttle limits each client IP to `requests` per `window` with the given
// burst, answering 429 beyond that. Guards the web UI only; outbound calls
// to the platform APIs are never throttled here.
func Throttle(requests int, window time.Duration, burst int) Middleware {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if burst <= 0 {
		burst = 1
	}

	limit := rate.Every(window / time.Duration(requests))

	var mu sync.Mutex
	visitors := make(map[string]*visitor)
	const ttl = 5 * time.Minute

	allow := func(key string, now time.Time) bool {
		mu.Lock()
		v, ok := visitors[key]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(limit, burst)}
			visitors[key] = v
		}
		v.lastSeen = now
		for k, vv := range visitors {
			if now.Sub(vv.lastSeen) > ttl {
				delete(visitors, k)
			}
		}
		mu.Unlock()

		return v.limiter.Allow()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !allow(host, time.Now()) {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
