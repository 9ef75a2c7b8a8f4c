package service

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"preview-api/apiv1"
	"preview-api/internal/ai"
	"preview-api/internal/metrics"
)

const (
	conversationTemperature = 0.7
	assessmentTemperature   = 0.3
)

// ChatCompleter runs chat completions against the language model
type ChatCompleter interface {
	Complete(ctx context.Context, req ai.Request) (*ai.Completion, error)
	ResolveModel(model string) string
}

// InterviewReply is the interviewer's next turn
type InterviewReply struct {
	Response              string `json:"response"`
	EstimatedResponseTime int    `json:"estimatedResponseTime"`
	Model                 string `json:"model"`
	TokensUsed            int    `json:"tokensUsed"`
}

// AIService runs interviews against the language model and accounts for the
// tokens each call consumes.
type AIService struct {
	chat        ChatCompleter
	eligibility *EligibilityService
	usage       *UsageService
	logger      *slog.Logger
}

func NewAIService(chat ChatCompleter, eligibility *EligibilityService, usage *UsageService, logger *slog.Logger) *AIService {
	return &AIService{chat: chat, eligibility: eligibility, usage: usage, logger: logger}
}

func (s *AIService) record(ctx context.Context, user *apiv1.User, c *ai.Completion, usageType apiv1.UsageType) {
	if user == nil || user.ID == 0 || c.TotalTokens == 0 {
		return
	}
	metrics.RecordTokens(string(usageType), c.TotalTokens)
	if _, err := s.usage.Record(ctx, user.ID, c.TotalTokens, usageType, c.Model); err != nil {
		s.logger.ErrorContext(ctx, "failed to record token usage",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("usage_type", string(usageType)),
			slog.String("error", err.Error()))
	}
}

// Start checks the user's eligibility and asks the model for the first question.
// A non-empty customPrompt replaces the generated system prompt.
func (s *AIService) Start(ctx context.Context, user *apiv1.User, settings apiv1.InterviewSettings, customPrompt string) (*InterviewReply, error) {
	if err := s.eligibility.Require(ctx, user); err != nil {
		return nil, err
	}
	if err := settings.Normalize(); err != nil {
		return nil, err
	}

	system := customPrompt
	if system == "" {
		system = ai.BuildInterviewPrompt(settings)
	}
	model := s.chat.ResolveModel(settings.Model)
	completion, err := s.chat.Complete(ctx, ai.Request{
		Model: model,
		Messages: []apiv1.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: ai.StartMessage},
		},
		Temperature: conversationTemperature,
	})
	if err != nil {
		return nil, errors.Wrap(err, "start interview")
	}
	s.record(ctx, user, completion, apiv1.UsageInterviewStart)
	return &InterviewReply{
		Response:              completion.Content,
		EstimatedResponseTime: ai.EstimateResponseTime(model, len(ai.StartMessage)),
		Model:                 completion.Model,
		TokensUsed:            completion.TotalTokens,
	}, nil
}

// Continue sends the conversation so far and returns the interviewer's next turn.
// The last message is the candidate's newest answer.
func (s *AIService) Continue(ctx context.Context, user *apiv1.User, messages []apiv1.ChatMessage, model string) (*InterviewReply, error) {
	if len(messages) == 0 {
		return nil, apiv1.ErrEmptyConversation
	}
	last := messages[len(messages)-1]
	conversation := append(append([]apiv1.ChatMessage{}, messages[:len(messages)-1]...),
		apiv1.ChatMessage{Role: "user", Content: last.Content})

	model = s.chat.ResolveModel(model)
	completion, err := s.chat.Complete(ctx, ai.Request{
		Model:       model,
		Messages:    conversation,
		Temperature: conversationTemperature,
	})
	if err != nil {
		return nil, errors.Wrap(err, "continue interview")
	}
	s.record(ctx, user, completion, apiv1.UsageInterviewContinue)
	return &InterviewReply{
		Response:              completion.Content,
		EstimatedResponseTime: ai.EstimateResponseTime(model, len(last.Content)),
		Model:                 completion.Model,
		TokensUsed:            completion.TotalTokens,
	}, nil
}

func (s *AIService) assess(ctx context.Context, system, instruction string, messages []apiv1.ChatMessage, settings apiv1.InterviewSettings) (*ai.Completion, error) {
	if len(messages) == 0 {
		return nil, apiv1.ErrEmptyConversation
	}
	return s.chat.Complete(ctx, ai.Request{
		Model: s.chat.ResolveModel(settings.Model),
		Messages: []apiv1.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: instruction + "\n\n" + ai.Transcript(messages)},
		},
		Temperature: assessmentTemperature,
	})
}

// Summarize returns a written summary of the candidate's performance.
func (s *AIService) Summarize(ctx context.Context, user *apiv1.User, messages []apiv1.ChatMessage, settings apiv1.InterviewSettings) (string, error) {
	completion, err := s.assess(ctx, ai.SummaryPrompt(settings),
		"Here is the interview conversation. Please summarise it:", messages, settings)
	if err != nil {
		return "", errors.Wrap(err, "summarize interview")
	}
	s.record(ctx, user, completion, apiv1.UsageInterviewSummary)
	return completion.Content, nil
}

// Evaluate asks for a structured evaluation. A reply that is not JSON is
// returned as {evaluationText, isStructured: false}.
func (s *AIService) Evaluate(ctx context.Context, user *apiv1.User, messages []apiv1.ChatMessage, settings apiv1.InterviewSettings) (map[string]any, error) {
	completion, err := s.assess(ctx, ai.EvaluationPrompt(settings),
		"Here is the interview conversation. Please evaluate it:", messages, settings)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate interview")
	}
	s.record(ctx, user, completion, apiv1.UsageInterviewEvaluation)
	return ai.ParseEvaluation(completion.Content), nil
}
