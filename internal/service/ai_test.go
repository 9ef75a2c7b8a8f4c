package service

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preview-api/apiv1"
	"preview-api/internal/ai"
)

// fakeChat answers every request with a canned reply and remembers the requests
type fakeChat struct {
	reply    string
	tokens   int
	err      error
	requests []ai.Request
}

func (f *fakeChat) Complete(_ context.Context, req ai.Request) (*ai.Completion, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Completion{Content: f.reply, Model: req.Model, TotalTokens: f.tokens}, nil
}

func (f *fakeChat) ResolveModel(model string) string {
	if model == "" || model == "string" {
		return apiv1.DefaultModel
	}
	return model
}

func newAIService(s *services, chat *fakeChat) *AIService {
	return NewAIService(chat, s.eligibility, s.usage, testLogger())
}

func TestAIService_Start(t *testing.T) {
	s := newServices(t)
	seedPlans(t, s.db)
	ctx := context.Background()
	user := s.signUp(t, "uid-1", "alice@example.com")
	chat := &fakeChat{reply: "Please introduce yourself.", tokens: 120}
	svc := newAIService(s, chat)

	reply, err := svc.Start(ctx, user, apiv1.InterviewSettings{Model: "string"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Please introduce yourself.", reply.Response)
	assert.Equal(t, 120, reply.TokensUsed)
	assert.Equal(t, apiv1.DefaultModel, reply.Model)
	assert.Equal(t, 5, reply.EstimatedResponseTime)

	require.Len(t, chat.requests, 1)
	req := chat.requests[0]
	assert.InDelta(t, 0.7, req.Temperature, 0.0001)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "## Rules")
	assert.Equal(t, ai.StartMessage, req.Messages[1].Content)

	used, err := s.usage.CurrentMonthUsage(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, used)

	_, err = svc.Start(ctx, user, apiv1.DefaultInterviewSettings(), "You are a pirate interviewer.")
	require.NoError(t, err)
	assert.Equal(t, "You are a pirate interviewer.", chat.requests[1].Messages[0].Content)
}

func TestAIService_Start_NotEligible(t *testing.T) {
	s := newServices(t)
	seedPlans(t, s.db)
	ctx := context.Background()
	user := s.signUp(t, "uid-1", "alice@example.com")
	_, err := s.usage.Record(ctx, user.ID, 9000, apiv1.UsageInterviewStart, "")
	require.NoError(t, err)
	chat := &fakeChat{reply: "unused"}

	_, err = newAIService(s, chat).Start(ctx, user, apiv1.DefaultInterviewSettings(), "")
	assert.True(t, errors.Is(err, apiv1.ErrNotEligible))
	assert.Empty(t, chat.requests)
}

func TestAIService_Continue(t *testing.T) {
	s := newServices(t)
	seedPlans(t, s.db)
	ctx := context.Background()
	user := s.signUp(t, "uid-1", "alice@example.com")
	chat := &fakeChat{reply: "Why Go?", tokens: 80}
	svc := newAIService(s, chat)

	_, err := svc.Continue(ctx, user, nil, "")
	assert.True(t, errors.Is(err, apiv1.ErrEmptyConversation))

	messages := []apiv1.ChatMessage{
		{Role: "system", Content: "prompt"},
		{Role: "assistant", Content: "Introduce yourself."},
		{Role: "user", Content: "I write Go."},
	}
	reply, err := svc.Continue(ctx, user, messages, "gpt-4")
	require.NoError(t, err)
	assert.Equal(t, "Why Go?", reply.Response)
	assert.Equal(t, 8, reply.EstimatedResponseTime)

	require.Len(t, chat.requests, 1)
	sent := chat.requests[0].Messages
	require.Len(t, sent, 3, "the newest answer is sent once")
	assert.Equal(t, "user", sent[2].Role)
	assert.Equal(t, "I write Go.", sent[2].Content)

	history, err := s.usage.History(ctx, user.ID, apiv1.StartOfMonth(user.CreatedAt), user.CreatedAt.AddDate(0, 2, 0))
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, apiv1.UsageInterviewContinue, history[0].UsageType)
	assert.Equal(t, "gpt-4", history[0].Description)
}

func TestAIService_SummarizeAndEvaluate(t *testing.T) {
	s := newServices(t)
	seedPlans(t, s.db)
	ctx := context.Background()
	user := s.signUp(t, "uid-1", "alice@example.com")
	messages := []apiv1.ChatMessage{
		{Role: "system", Content: "hidden"},
		{Role: "assistant", Content: "Tell me about a bug you fixed."},
		{Role: "user", Content: "A race in a cache."},
	}

	chat := &fakeChat{reply: "Solid answer.", tokens: 50}
	summary, err := newAIService(s, chat).Summarize(ctx, user, messages, apiv1.DefaultInterviewSettings())
	require.NoError(t, err)
	assert.Equal(t, "Solid answer.", summary)
	req := chat.requests[0]
	assert.InDelta(t, 0.3, req.Temperature, 0.0001)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[1].Content, "Candidate: A race in a cache.")
	assert.NotContains(t, req.Messages[1].Content, "hidden")

	chat = &fakeChat{reply: `{"overallScore": 72, "hiringRecommendation": "Maybe"}`, tokens: 60}
	evaluation, err := newAIService(s, chat).Evaluate(ctx, user, messages, apiv1.DefaultInterviewSettings())
	require.NoError(t, err)
	assert.Equal(t, float64(72), evaluation["overallScore"])

	chat = &fakeChat{reply: "not json", tokens: 10}
	evaluation, err = newAIService(s, chat).Evaluate(ctx, user, messages, apiv1.DefaultInterviewSettings())
	require.NoError(t, err)
	assert.Equal(t, false, evaluation["isStructured"])

	_, err = newAIService(s, chat).Summarize(ctx, user, nil, apiv1.DefaultInterviewSettings())
	assert.True(t, errors.Is(err, apiv1.BadParameterError))

	used, err := s.usage.CurrentMonthUsage(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, used)
}

func TestAIService_UpstreamError(t *testing.T) {
	s := newServices(t)
	seedPlans(t, s.db)
	user := s.signUp(t, "uid-1", "alice@example.com")
	chat := &fakeChat{err: errors.New("upstream down")}

	_, err := newAIService(s, chat).Continue(context.Background(), user,
		[]apiv1.ChatMessage{{Role: "user", Content: "hi"}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "continue interview")
}
