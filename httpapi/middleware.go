package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger is the package-wide structured logger, mirroring the teacher's
// database.Logger global.
var Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// LoggingMiddleware logs method, path, status, and duration as structured
// JSON, tagging every request with an X-Request-ID.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		clientIP := r.RemoteAddr
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			clientIP = strings.Split(forwarded, ",")[0]
		}

		Logger.Info("request",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", wrapped.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", strings.TrimSpace(clientIP)),
		)
	})
}

// TimeoutMiddleware bounds request handling to timeout.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type clientLimit struct {
	count       int
	windowStart time.Time
}

// rateLimiter is a naive fixed-window per-IP limiter, matching the
// teacher's api/database/middleware.go rateLimiter — adequate for a
// single-process deployment, not a distributed one.
type rateLimiter struct {
	mu       sync.Mutex
	requests map[string]*clientLimit
	rate     int
	window   time.Duration
}

// RateLimitMiddleware rejects a client IP's requests once it exceeds rate
// requests per minute.
func RateLimitMiddleware(rate int) func(http.Handler) http.Handler {
	limiter := &rateLimiter{requests: make(map[string]*clientLimit), rate: rate, window: time.Minute}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rate <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ip := r.RemoteAddr
			if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
				ip = strings.Split(forwarded, ",")[0]
			}
			ip = strings.TrimSpace(strings.Split(ip, ":")[0])

			limiter.mu.Lock()
			client, exists := limiter.requests[ip]
			now := time.Now()
			if !exists || now.Sub(client.windowStart) > limiter.window {
				limiter.requests[ip] = &clientLimit{count: 1, windowStart: now}
				limiter.mu.Unlock()
				next.ServeHTTP(w, r)
				return
			}
			if client.count >= limiter.rate {
				limiter.mu.Unlock()
				w.Header().Set("Retry-After", "60")
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			client.count++
			limiter.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}

// Chain composes middlewares so the first listed runs outermost, matching
// the teacher's nested TimeoutMiddleware(CORSMiddleware(...)) call style
// in main.go without the manual nesting.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
