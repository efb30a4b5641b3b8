package ollama //nolint:testpackage // Exercises wire types directly

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TheJakeYoon/local-llm/internal/config"
	"github.com/TheJakeYoon/local-llm/internal/domain"
)

func TestClientChat_Success(t *testing.T) {
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse{
			Model:              "llama3.1",
			CreatedAt:          time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			Message:            domain.Message{Role: "assistant", Content: "Hello!"},
			Done:               true,
			TotalDuration:      5_000_000_000,
			LoadDuration:       1_000_000_000,
			PromptEvalCount:    26,
			PromptEvalDuration: 400_000_000,
			EvalCount:          52,
			EvalDuration:       3_500_000_000,
		})
	}))
	defer server.Close()

	client := NewClient(config.OllamaConfig{BaseURL: server.URL})

	messages := []domain.Message{{Role: "user", Content: "hi"}}
	completion, err := client.Chat(context.Background(), "llama3.1", messages)

	require.NoError(t, err)

	// Streaming is always disabled on the wire.
	require.False(t, gotReq.Stream)
	require.Equal(t, "llama3.1", gotReq.Model)
	require.Equal(t, messages, gotReq.Messages)

	require.Equal(t, "llama3.1", completion.Model)
	require.Equal(t, "Hello!", completion.Content)
	require.True(t, completion.Done)
	require.Equal(t, int64(5_000_000_000), completion.TotalDuration)
	require.Equal(t, int64(1_000_000_000), completion.LoadDuration)
	require.Equal(t, 26, completion.PromptEvalCount)
	require.Equal(t, int64(400_000_000), completion.PromptEvalDuration)
	require.Equal(t, 52, completion.EvalCount)
	require.Equal(t, int64(3_500_000_000), completion.EvalDuration)
}

func TestClientChat_DaemonErrorTextSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: `model "llama9" not found, try pulling it first`})
	}))
	defer server.Close()

	client := NewClient(config.OllamaConfig{BaseURL: server.URL})

	_, err := client.Chat(context.Background(), "llama9", []domain.Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	require.Contains(t, err.Error(), `model "llama9" not found`)
	require.Equal(t, domain.KindModelNotFound, domain.Classify(err.Error()))
}

func TestClientChat_ConnectionRefusedClassifiesUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close() // nothing listens here anymore

	client := NewClient(config.OllamaConfig{BaseURL: baseURL})

	_, err := client.Chat(context.Background(), "llama3.1", []domain.Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	require.Equal(t, domain.KindUnavailable, domain.Classify(err.Error()))
}

func TestClientChat_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewClient(config.OllamaConfig{BaseURL: server.URL})

	_, err := client.Chat(context.Background(), "llama3.1", []domain.Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	require.Contains(t, err.Error(), "status 502")
	require.Contains(t, err.Error(), "upstream exploded")
}

func TestClientListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/tags", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"models": [
				{"name": "llama3.1", "modified_at": "2025-01-02T03:04:05Z", "size": 4700000000, "digest": "sha256:abc123"},
				{"name": "mistral", "modified_at": "2025-02-02T03:04:05Z", "size": 4100000000, "digest": "sha256:def456"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(config.OllamaConfig{BaseURL: server.URL})

	models, err := client.ListModels(context.Background())

	require.NoError(t, err)
	require.Len(t, models, 2)
	require.Equal(t, domain.ModelInfo{
		Name:       "llama3.1",
		ModifiedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		SizeBytes:  4_700_000_000,
		Digest:     "sha256:abc123",
	}, models[0])
	require.Equal(t, "mistral", models[1].Name)
}

func TestClientListModels_DaemonDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(config.OllamaConfig{BaseURL: baseURL})

	_, err := client.ListModels(context.Background())

	require.Error(t, err)
	require.Equal(t, domain.KindUnavailable, domain.Classify(err.Error()))
}
