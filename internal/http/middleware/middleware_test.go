package middleware //nolint:testpackage // Exercises unexported statusRecorder via the chain

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheJakeYoon/local-llm/internal/config"
	"github.com/TheJakeYoon/local-llm/internal/observability"
)

func corsConfig() *config.CORSConfig {
	return &config.CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	reached := false
	handler := CORS(corsConfig())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Body.String())
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	require.False(t, reached, "preflight must not reach route logic")
}

func TestOptionsFallback_BareOptionsShortCircuits(t *testing.T) {
	// rs/cors only intercepts preflights carrying
	// Access-Control-Request-Method; a bare OPTIONS must still answer 200
	// with an empty body before any route logic.
	reached := false
	handler := Chain(CORS(corsConfig()), OptionsFallback())(http.HandlerFunc(
		func(http.ResponseWriter, *http.Request) {
			reached = true
		}))

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Body.String())
	require.False(t, reached, "OPTIONS must not reach route logic")
}

func TestOptionsFallback_PassesOtherMethodsThrough(t *testing.T) {
	reached := false
	handler := OptionsFallback()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		reached = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.True(t, reached)
}

func TestCORS_SimpleRequestGetsHeaders(t *testing.T) {
	handler := CORS(corsConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_NilConfigIsNoop(t *testing.T) {
	reached := false
	handler := CORS(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.True(t, reached)
}

func TestRequestLog_AssignsRequestID(t *testing.T) {
	var seenID string
	handler := RequestLog()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = observability.GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.NotEmpty(t, seenID)
	require.Equal(t, seenID, w.Header().Get("X-Request-Id"))
	require.Equal(t, http.StatusTeapot, w.Code)
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}

	_, err := rec.Write([]byte("implicit 200"))

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.status)
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	handler := Recover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Internal server error")
	require.Contains(t, w.Body.String(), "boom")
}

func TestChain_OrderIsOutsideIn(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(tag("first"), tag("second"))(http.HandlerFunc(
		func(http.ResponseWriter, *http.Request) {
			order = append(order, "handler")
		}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "handler"}, order)
}
