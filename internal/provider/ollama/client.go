// Package ollama provides an HTTP client for the local Ollama daemon's
// native chat and model-listing endpoints. The native API is used instead
// of the daemon's OpenAI-compatible surface because only the native chat
// response carries the per-request timing metrics the proxy relays.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TheJakeYoon/local-llm/internal/config"
	"github.com/TheJakeYoon/local-llm/internal/domain"
)

// Client wraps the HTTP client for Ollama API calls. The underlying client
// carries no timeout: a hang in the daemon hangs the corresponding request.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Ollama HTTP client.
func NewClient(cfg config.OllamaConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{},
	}
}

// Ollama API request/response structures.
type chatRequest struct {
	Model    string           `json:"model"`
	Messages []domain.Message `json:"messages"`
	Stream   bool             `json:"stream"`
}

type chatResponse struct {
	Model              string         `json:"model"`
	CreatedAt          time.Time      `json:"created_at"`
	Message            domain.Message `json:"message"`
	Done               bool           `json:"done"`
	TotalDuration      int64          `json:"total_duration"`
	LoadDuration       int64          `json:"load_duration"`
	PromptEvalCount    int            `json:"prompt_eval_count"`
	PromptEvalDuration int64          `json:"prompt_eval_duration"`
	EvalCount          int            `json:"eval_count"`
	EvalDuration       int64          `json:"eval_duration"`
}

type tagsResponse struct {
	Models []struct {
		Name       string    `json:"name"`
		ModifiedAt time.Time `json:"modified_at"`
		Size       int64     `json:"size"`
		Digest     string    `json:"digest"`
	} `json:"models"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Chat sends a non-streaming chat request to the daemon. Streaming is
// always disabled regardless of what the proxy's caller asked for.
func (c *Client) Chat(ctx context.Context, model string, messages []domain.Message) (*domain.ChatCompletion, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/chat",
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.daemonError(resp)
	}

	var chatResp chatResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&chatResp); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	return &domain.ChatCompletion{
		Model:              chatResp.Model,
		CreatedAt:          chatResp.CreatedAt,
		Content:            chatResp.Message.Content,
		Done:               chatResp.Done,
		TotalDuration:      chatResp.TotalDuration,
		LoadDuration:       chatResp.LoadDuration,
		PromptEvalCount:    chatResp.PromptEvalCount,
		PromptEvalDuration: chatResp.PromptEvalDuration,
		EvalCount:          chatResp.EvalCount,
		EvalDuration:       chatResp.EvalDuration,
	}, nil
}

// ListModels returns the models installed on the daemon.
func (c *Client) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.daemonError(resp)
	}

	var tags tagsResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&tags); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	models := make([]domain.ModelInfo, len(tags.Models))
	for i, m := range tags.Models {
		models[i] = domain.ModelInfo{
			Name:       m.Name,
			ModifiedAt: m.ModifiedAt,
			SizeBytes:  m.Size,
			Digest:     m.Digest,
		}
	}

	return models, nil
}

// daemonError turns a non-200 daemon response into an error carrying the
// daemon's own message text so it can be classified downstream.
func (c *Client) daemonError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("ollama: %s", errResp.Error)
	}

	return fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
}
