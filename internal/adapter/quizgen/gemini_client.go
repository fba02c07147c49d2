package quizgen

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"quizforge/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// GeminiClient implements domain.CompletionEngine against the Gemini API via
// langchaingo. The orchestrator picks a model and an API key per call; one
// underlying client is kept per key.
type GeminiClient struct {
	mu      sync.Mutex
	clients map[string]*googleai.GoogleAI
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeminiClient creates a new GeminiClient. timeout bounds every single
// completion call; expiry maps to COMPLETION_TIMEOUT.
func NewGeminiClient(timeout time.Duration, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{
		clients: make(map[string]*googleai.GoogleAI),
		timeout: timeout,
		logger:  logger,
	}
}

func (c *GeminiClient) clientFor(ctx context.Context, apiKey string) (*googleai.GoogleAI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[apiKey]; ok {
		return client, nil
	}
	client, err := googleai.New(ctx, googleai.WithAPIKey(apiKey))
	if err != nil {
		return nil, domain.NewInternalError("failed to create Gemini client", err)
	}
	c.clients[apiKey] = client
	return client, nil
}

// Complete sends one prompt to the given model/key pair and returns the
// parsed candidate items or a typed failure.
func (c *GeminiClient) Complete(ctx context.Context, prompt, model, apiKey string) ([]domain.CandidateQuestion, error) {
	client, err := c.clientFor(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := client.GenerateContent(callCtx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithModel(model),
		llms.WithJSONMode(),
	)
	if err != nil {
		classified := ClassifyCompletionError(err)
		c.logger.Warn("completion call failed",
			zap.String("model", model),
			zap.Error(err),
		)
		return nil, classified
	}

	if len(resp.Choices) == 0 {
		return nil, domain.NewMalformedResponseError(errors.New("empty completion response"))
	}

	candidates, err := ParseCandidates(resp.Choices[0].Content)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("completion call succeeded",
		zap.String("model", model),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

// ClassifyCompletionError maps transport and API errors onto the generation
// failure taxonomy. Capacity signals become SERVICE_OVERLOADED (which the
// orchestrator answers with a model fallback), deadline expiry becomes
// COMPLETION_TIMEOUT, everything else MALFORMED_RESPONSE.
func ClassifyCompletionError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewCompletionTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.NewCompletionTimeoutError(err)
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "resource_exhausted", "resource exhausted", "quota", "rate limit", "overloaded", "503", "unavailable"} {
		if strings.Contains(msg, marker) {
			return domain.NewServiceOverloadedError(err)
		}
	}
	return domain.NewMalformedResponseError(err)
}

var _ domain.CompletionEngine = (*GeminiClient)(nil)
