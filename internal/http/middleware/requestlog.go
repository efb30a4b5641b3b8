package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/TheJakeYoon/local-llm/internal/observability"
)

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLog creates a middleware that assigns each request an ID and logs
// exactly two lines per request lifecycle: one on arrival and one on
// completion. Completions with status >= 400 log at ERROR, the rest at INFO.
func RequestLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := observability.GenerateRequestID()
			ctx := observability.WithRequestID(r.Context(), requestID)
			w.Header().Set("X-Request-Id", requestID)

			logger := observability.FromContext(ctx)
			logger.Info("incoming request",
				zap.String("method", r.Method),
				zap.String("endpoint", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.String("content_type", r.Header.Get("Content-Type")),
			)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("endpoint", r.URL.Path),
				zap.Int("status_code", rec.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			}

			if rec.status >= http.StatusBadRequest {
				logger.Error("request completed", fields...)
				return
			}
			logger.Info("request completed", fields...)
		})
	}
}
