package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"preview-api/apiv1"
)

// Config configures the chat completions client
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Attempts   uint
	RetryDelay time.Duration
}

// Request is a single chat completion call
type Request struct {
	Model       string
	Messages    []apiv1.ChatMessage
	Temperature float64
}

// Completion is the assistant reply and the token usage reported by the API
type Completion struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client talks to an OpenAI compatible chat completions API
type Client struct {
	openai     openai.Client
	model      string
	attempts   uint
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates a client. SDK retries are disabled; transient failures are
// retried by Complete.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := cfg.Model
	if model == "" {
		model = apiv1.DefaultModel
	}
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 3
	}
	delay := cfg.RetryDelay
	if delay == 0 {
		delay = 500 * time.Millisecond
	}

	return &Client{
		openai:     openai.NewClient(opts...),
		model:      model,
		attempts:   attempts,
		retryDelay: delay,
		logger:     logger,
	}
}

// DefaultModel is the model used when a request names none.
func (c *Client) DefaultModel() string {
	return c.model
}

// ResolveModel replaces an empty or placeholder model name with the default.
func (c *Client) ResolveModel(model string) string {
	if model == "" || model == "string" {
		return c.model
	}
	return model
}

func toParams(msgs []apiv1.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case "system":
			result = append(result, openai.SystemMessage(msg.Content))
		case "assistant":
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

// Complete sends the conversation and returns the first choice.
func (c *Client) Complete(ctx context.Context, req Request) (*Completion, error) {
	model := c.ResolveModel(req.Model)
	params := openai.ChatCompletionNewParams{
		Model:       model,
		Messages:    toParams(req.Messages),
		Temperature: openai.Float(req.Temperature),
	}

	start := time.Now()
	var resp *openai.ChatCompletion
	err := retry.Do(
		func() error {
			var err error
			resp, err = c.openai.Chat.Completions.New(ctx, params)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return IsRetryable(ctx, c.logger, err) }),
		retry.OnRetry(func(n uint, err error) {
			c.logger.WarnContext(ctx, "retrying chat completion",
				slog.Uint64("attempt", uint64(n+1)),
				slog.String("error", err.Error()))
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai chat completion: no choices in response")
	}

	c.logger.DebugContext(ctx, "chat completion finished",
		slog.String("model", model),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		slog.Int64("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int64("completion_tokens", resp.Usage.CompletionTokens))

	return &Completion{
		Content:          resp.Choices[0].Message.Content,
		Model:            model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}, nil
}

// IsRetryable reports whether a failed call may succeed when repeated:
// rate limiting, server errors and network failures.
func IsRetryable(ctx context.Context, logger *slog.Logger, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 429 || apiErr.StatusCode >= 500 {
			return true
		}
		logger.ErrorContext(ctx, "chat completion rejected",
			slog.Int("status_code", apiErr.StatusCode),
			slog.String("error_type", apiErr.Type),
			slog.String("error_code", apiErr.Code))
		return false
	}
	return true
}

var responseTimeBase = map[string]int{
	"gpt-3.5-turbo": 5,
	"gpt-4":         8,
	"gpt-4-turbo":   6,
}

// EstimateResponseTime guesses how many seconds the model needs to answer a
// message of the given length.
func EstimateResponseTime(model string, messageLength int) int {
	base, ok := responseTimeBase[model]
	if !ok {
		base = 5
	}
	switch {
	case messageLength > 1000:
		return base + 4
	case messageLength > 500:
		return base + 2
	}
	return base
}
