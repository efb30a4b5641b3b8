package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/TheJakeYoon/local-llm/internal/config"
)

// CORS creates a middleware that handles Cross-Origin Resource Sharing
// using the github.com/rs/cors library. Preflight OPTIONS requests
// short-circuit here with 200 and an empty body before any route logic.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		// Return no-op middleware if config is nil.
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:       cfg.AllowedOrigins,
		AllowedMethods:       cfg.AllowedMethods,
		AllowedHeaders:       cfg.AllowedHeaders,
		OptionsSuccessStatus: http.StatusOK,
	})

	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}

// OptionsFallback answers any OPTIONS request the CORS layer did not
// already short-circuit (rs/cors only intercepts preflights carrying
// Access-Control-Request-Method) with 200 and an empty body, so no OPTIONS
// request ever reaches route logic.
func OptionsFallback() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
