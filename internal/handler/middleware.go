package handler

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/msomdec/dev-connect/internal/service"
	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type contextKey string

const (
	userContextKey      contextKey = "user"
	requestIDContextKey contextKey = "request_id"

	// TokenHeader carries the identity token on authenticated requests.
	TokenHeader     = "x-auth-token"
	RequestIDHeader = "X-Request-ID"

	msgNoToken      = "No Token, Authorization Denied"
	msgTokenInvalid = "Token is not valid"
	msgRateLimited  = "Too many requests, please try again later"
)

// UserIDFromContext extracts the authenticated user id from the request context.
func UserIDFromContext(ctx context.Context) (bson.ObjectID, bool) {
	id, ok := ctx.Value(userContextKey).(bson.ObjectID)
	return id, ok
}

// RequestIDFromContext returns the id assigned to the request by RequestLogger.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// RequireAuth is middleware that protects routes requiring authentication.
// It verifies the token in the x-auth-token header and injects the user id
// into the request context. The next handler only runs for a valid token.
func RequireAuth(tokens *service.TokenService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get(TokenHeader))
		if token == "" {
			writeMsg(w, http.StatusUnauthorized, msgNoToken)
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			writeMsg(w, http.StatusUnauthorized, msgTokenInvalid)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SecurityHeaders sets conservative response headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// RateLimit rejects requests from a client IP once limiter denies it.
func RateLimit(limiter service.RateLimiter, metrics *Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientIP(r)) {
			metrics.RateLimited(r.URL.Path)
			writeMsg(w, http.StatusTooManyRequests, msgRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger assigns each request a ULID, logs it once it completes and
// records it in metrics when metrics is non-nil.
func RequestLogger(metrics *Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if !validRequestID(reqID) {
			reqID = newRequestID(start)
		}
		w.Header().Set(RequestIDHeader, reqID)
		r = r.WithContext(context.WithValue(r.Context(), requestIDContextKey, reqID))

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.Observe(r.Method, route, status, duration)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", rec.bytes,
			"duration_ms", duration.Milliseconds(),
			"request_id", reqID,
		}
		switch {
		case status >= http.StatusInternalServerError:
			slog.Error("http.request", fields...)
		case status >= http.StatusBadRequest:
			slog.Warn("http.request", fields...)
		default:
			slog.Info("http.request", fields...)
		}
	})
}

// maxRequestIDLen bounds incoming request ids that are logged and echoed.
const maxRequestIDLen = 64

// validRequestID accepts short ids made of letters, digits and "-_.:".
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, c := range []byte(id) {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}

func newRequestID(now time.Time) string {
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return ""
	}
	return id.String()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// clientIP returns the host part of the request's remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
