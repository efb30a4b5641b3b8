package domain

import "time"

// DefaultModel is used when a chat request does not name a model.
const DefaultModel = "llama3.1"

// Message roles understood by the daemon.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message represents a single conversation turn.
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// ChatRequest represents an incoming proxy chat request. At least one of
// Message or Messages must be populated; Model falls back to DefaultModel.
type ChatRequest struct {
	Message  string    `json:"message,omitempty"`
	Messages []Message `json:"messages,omitempty"`
	Model    string    `json:"model,omitempty"`
	System   string    `json:"system,omitempty"`
	Stream   bool      `json:"stream,omitempty"`
}

// ChatCompletion is the daemon's answer to a chat request, including the
// timing metrics it reports on the final (done) message.
type ChatCompletion struct {
	Model              string    `json:"model"`
	CreatedAt          time.Time `json:"created_at"`
	Content            string    `json:"content"`
	Done               bool      `json:"done"`
	TotalDuration      int64     `json:"total_duration"`
	LoadDuration       int64     `json:"load_duration"`
	PromptEvalCount    int       `json:"prompt_eval_count"`
	PromptEvalDuration int64     `json:"prompt_eval_duration"`
	EvalCount          int       `json:"eval_count"`
	EvalDuration       int64     `json:"eval_duration"`
}

// ModelInfo is a read-only snapshot of one locally installed model.
type ModelInfo struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	SizeBytes  int64     `json:"size"`
	Digest     string    `json:"digest"`
}
