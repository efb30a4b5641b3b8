package domain

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/TheJakeYoon/local-llm/internal/observability"
)

// ErrMissingMessage indicates a chat request with neither a message string
// nor a messages array.
var ErrMissingMessage = errors.New("missing required field: message or messages")

// ProxyService validates and normalizes chat requests before handing them
// to the daemon client. It holds no cross-request state.
type ProxyService struct {
	client ChatClient
}

// NewProxyService creates a new proxy service (DI constructor).
func NewProxyService(client ChatClient) *ProxyService {
	return &ProxyService{
		client: client,
	}
}

// Chat normalizes the request into an ordered turn list and forwards it to
// the daemon. A request carrying a messages array is forwarded verbatim;
// otherwise the single message string is wrapped as one user turn. The
// stream flag is ignored: the client only performs non-streaming calls.
func (s *ProxyService) Chat(ctx context.Context, req *ChatRequest) (*ChatCompletion, error) {
	if req == nil {
		return nil, ErrMissingMessage
	}

	turns := req.Messages
	if len(turns) == 0 {
		if req.Message == "" {
			return nil, ErrMissingMessage
		}
		turns = []Message{{Role: RoleUser, Content: req.Message}}
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	// TODO: forward req.System as a leading system-role turn. The field is
	// accepted today but never reaches the daemon.

	logger := observability.FromContext(ctx)
	logger.Info("forwarding chat request",
		zap.String("model", model),
		zap.Int("turns", len(turns)),
	)

	// The client error is returned unwrapped so its text can be classified
	// and surfaced to the caller untouched.
	completion, err := s.client.Chat(ctx, model, turns)
	if err != nil {
		return nil, err
	}

	return completion, nil
}

// Models returns the daemon's installed models.
func (s *ProxyService) Models(ctx context.Context) ([]ModelInfo, error) {
	return s.client.ListModels(ctx)
}
