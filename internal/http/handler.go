package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/TheJakeYoon/local-llm/internal/domain"
	"github.com/TheJakeYoon/local-llm/internal/observability"
)

// Handler handles HTTP requests.
type Handler struct {
	proxy  *domain.ProxyService
	static fs.FS
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(proxy *domain.ProxyService, static fs.FS) *Handler {
	return &Handler{
		proxy:  proxy,
		static: static,
	}
}

// errorBody is the uniform failure payload for every route.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type healthBody struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type modelBody struct {
	Name       string `json:"name"`
	ModifiedAt string `json:"modified_at"`
	Size       int64  `json:"size"`
	Digest     string `json:"digest"`
}

type modelsBody struct {
	Success bool        `json:"success"`
	Models  []modelBody `json:"models"`
}

type chatBody struct {
	Success            bool      `json:"success"`
	Model              string    `json:"model"`
	Response           string    `json:"response"`
	Done               bool      `json:"done"`
	CreatedAt          time.Time `json:"created_at"`
	TotalDuration      int64     `json:"total_duration"`
	LoadDuration       int64     `json:"load_duration"`
	PromptEvalCount    int       `json:"prompt_eval_count"`
	PromptEvalDuration int64     `json:"prompt_eval_duration"`
	EvalCount          int       `json:"eval_count"`
	EvalDuration       int64     `json:"eval_duration"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, healthBody{
		Status:    "ok",
		Message:   "Local LLM proxy is running",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// HandleModels lists the models installed on the daemon, with each
// modification timestamp normalized to RFC 3339.
func (h *Handler) HandleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.NotFound(w, r)
		return
	}

	ctx := r.Context()

	models, err := h.proxy.Models(ctx)
	if err != nil {
		observability.FromContext(ctx).Error("failed to list models", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Success: false,
			Error:   "Failed to fetch models",
			Message: err.Error(),
		})
		return
	}

	out := make([]modelBody, len(models))
	for i, m := range models {
		out[i] = modelBody{
			Name:       m.Name,
			ModifiedAt: m.ModifiedAt.Format(time.RFC3339),
			Size:       m.SizeBytes,
			Digest:     m.Digest,
		}
	}

	writeJSON(w, http.StatusOK, modelsBody{Success: true, Models: out})
}

// HandleChat processes chat requests. Responses are always complete:
// streaming is never requested from the daemon even when the caller asks
// for it.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.NotFound(w, r)
		return
	}

	ctx := r.Context()
	logger := observability.FromContext(ctx)

	var req domain.ChatRequest
	if r.Body != nil {
		// An empty body decodes to the zero request and is rejected as a
		// missing-field error below, matching the validation contract.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			logger.Warn("malformed chat request body", zap.Error(err))
			writeJSON(w, http.StatusBadRequest, errorBody{
				Success: false,
				Error:   "Invalid request body",
				Message: err.Error(),
			})
			return
		}
	}

	completion, err := h.proxy.Chat(ctx, &req)
	if err != nil {
		h.writeChatError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatBody{
		Success:            true,
		Model:              completion.Model,
		Response:           completion.Content,
		Done:               completion.Done,
		CreatedAt:          completion.CreatedAt,
		TotalDuration:      completion.TotalDuration,
		LoadDuration:       completion.LoadDuration,
		PromptEvalCount:    completion.PromptEvalCount,
		PromptEvalDuration: completion.PromptEvalDuration,
		EvalCount:          completion.EvalCount,
		EvalDuration:       completion.EvalDuration,
	})
}

// writeChatError maps a proxy failure onto the HTTP surface: validation is
// a 400 with a fixed message, everything else is classified from the
// upstream error text.
func (h *Handler) writeChatError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := observability.FromContext(ctx)

	if errors.Is(err, domain.ErrMissingMessage) {
		logger.Warn("chat request missing message fields")
		writeJSON(w, http.StatusBadRequest, errorBody{
			Success: false,
			Error:   "Missing required field: message or messages",
		})
		return
	}

	logger.Error("chat request failed", zap.Error(err))

	switch domain.Classify(err.Error()) {
	case domain.KindUnavailable:
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Success: false,
			Error:   "Ollama service unavailable",
			Message: err.Error(),
		})
	case domain.KindModelNotFound:
		writeJSON(w, http.StatusNotFound, errorBody{
			Success: false,
			Error:   "Model not found",
			Message: err.Error(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Success: false,
			Error:   "Error calling Ollama",
			Message: err.Error(),
		})
	}
}

// HandleStatic serves the embedded chat UI. Anything not present in the
// embedded tree falls through to the JSON 404, so unmatched API routes and
// unknown paths share one response shape.
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.NotFound(w, r)
		return
	}

	name := path.Clean(r.URL.Path)
	if name == "/" || name == "." {
		name = "index.html"
	} else {
		name = name[1:] // drop leading slash for fs lookup
	}

	data, err := fs.ReadFile(h.static, name)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	_, _ = w.Write(data)
}

// NotFound writes the uniform 404 payload for unmatched routes and method
// mismatches on known paths. Routing misses are logged at WARN, unlike
// upstream failures which log at ERROR.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	observability.FromContext(r.Context()).Warn("route not found",
		zap.String("method", r.Method),
		zap.String("endpoint", r.URL.Path),
	)

	writeJSON(w, http.StatusNotFound, errorBody{
		Success: false,
		Error:   "Not found",
		Message: fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path),
	})
}
