package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/TheJakeYoon/local-llm/internal/observability"
)

// Recover creates a middleware that converts handler panics into a generic
// 500 JSON error instead of tearing down the connection.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				observability.FromContext(r.Context()).Error("unhandled panic in handler",
					zap.String("endpoint", r.URL.Path),
					zap.Any("panic", rec),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   "Internal server error",
					"message": fmt.Sprintf("%v", rec),
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
