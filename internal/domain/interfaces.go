package domain

import "context"

// ChatClient wraps the external inference daemon. Implementations are
// non-streaming: Chat returns a single complete answer.
type ChatClient interface {
	// Chat sends a conversation to the daemon and returns the completion.
	Chat(ctx context.Context, model string, messages []Message) (*ChatCompletion, error)

	// ListModels returns the models installed on the daemon.
	ListModels(ctx context.Context) ([]ModelInfo, error)
}
