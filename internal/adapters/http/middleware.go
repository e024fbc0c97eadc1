package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	maxRequestIDLen = 128
)

type requestScope struct {
	id     string
	logger *slog.Logger
}

type requestScopeKey struct{}

func requestIDFromContext(ctx context.Context) string {
	if scope, ok := ctx.Value(requestScopeKey{}).(requestScope); ok {
		return scope.id
	}
	return ""
}

// loggerFromContext returns the default logger tagged with the request id.
func loggerFromContext(ctx context.Context) *slog.Logger {
	if scope, ok := ctx.Value(requestScopeKey{}).(requestScope); ok && scope.logger != nil {
		return scope.logger
	}
	return slog.Default()
}

// requestIDMiddleware accepts a caller supplied id when it is short and printable.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		scope := requestScope{
			id:     requestID,
			logger: slog.Default().With("request_id", requestID),
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestScopeKey{}, scope)))
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, c := range id {
		if c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"bytes", rec.written,
			"remote_addr", clientAddr(r),
		}
		if userID := r.URL.Query().Get("user_id"); userID != "" {
			attrs = append(attrs, "user_id", userID)
		}

		logger := loggerFromContext(r.Context())
		level := slog.LevelInfo
		switch {
		case rec.status >= 500:
			level = slog.LevelError
		case rec.status >= 400:
			level = slog.LevelWarn
		}
		logger.Log(r.Context(), level, "http_request", attrs...)
	})
}

func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type responseRecorder struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *responseRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
