package ai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preview-api/apiv1"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionJSON(content string, total int) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": total - 5, "completion_tokens": 5, "total_tokens": total},
	})
	return string(body)
}

func TestClient_Complete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionJSON("Tell me about yourself.", 42))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-4"}, testLogger())
	completion, err := client.Complete(context.Background(), Request{
		Model: "string",
		Messages: []apiv1.ChatMessage{
			{Role: "system", Content: "be an interviewer"},
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "hi"},
		},
		Temperature: 0.7,
	})
	require.NoError(t, err)

	assert.Equal(t, "Tell me about yourself.", completion.Content)
	assert.Equal(t, 42, completion.TotalTokens)
	assert.Equal(t, "gpt-4", completion.Model)
	assert.Equal(t, "gpt-4", got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 0.0001)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
			return
		}
		_, _ = io.WriteString(w, completionJSON("ok", 10))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL, RetryDelay: time.Millisecond}, testLogger())
	completion, err := client.Complete(context.Background(), Request{Messages: []apiv1.ChatMessage{{Role: "user", Content: "x"}}})
	require.NoError(t, err)
	assert.Equal(t, "ok", completion.Content)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"bad model","type":"invalid_request_error","code":"model_not_found"}}`)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL, RetryDelay: time.Millisecond}, testLogger())
	_, err := client.Complete(context.Background(), Request{Messages: []apiv1.ChatMessage{{Role: "user", Content: "x"}}})
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolveModel(t *testing.T) {
	client := NewClient(Config{APIKey: "k"}, testLogger())
	assert.Equal(t, apiv1.DefaultModel, client.DefaultModel())
	assert.Equal(t, apiv1.DefaultModel, client.ResolveModel(""))
	assert.Equal(t, apiv1.DefaultModel, client.ResolveModel("string"))
	assert.Equal(t, "gpt-4", client.ResolveModel("gpt-4"))
}

func TestEstimateResponseTime(t *testing.T) {
	tests := []struct {
		model  string
		length int
		want   int
	}{
		{"gpt-3.5-turbo", 10, 5},
		{"gpt-4", 10, 8},
		{"gpt-4-turbo", 10, 6},
		{"unknown", 10, 5},
		{"gpt-4", 501, 10},
		{"gpt-4", 1001, 12},
		{"gpt-3.5-turbo", 500, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateResponseTime(tt.model, tt.length), "%s/%d", tt.model, tt.length)
	}
}

func TestBuildInterviewPrompt(t *testing.T) {
	settings := apiv1.DefaultInterviewSettings()
	settings.TechnicalSkills = []string{"Go", "PostgreSQL"}
	prompt := BuildInterviewPrompt(settings)

	for _, want := range []string{
		"## Job", "Backend Developer", "Field: Development", "caching strategies",
		"## Interviewer style", "Style: Friendly",
		"## Difficulty", "Difficulty: Intermediate",
		"## Experience", "Mid-Level (4-7 years)",
		"## Technical skills", "- Go\n", "- PostgreSQL\n",
		"## Duration", "30 minutes",
		"## Language", "Language: Korean",
		"## Rules", "6. Before closing",
	} {
		assert.Contains(t, prompt, want)
	}

	settings.JobRole = apiv1.RoleHRManager
	settings.TechnicalSkills = nil
	prompt = BuildInterviewPrompt(settings)
	assert.Contains(t, prompt, "Evaluate teamwork and communication.")
	assert.NotContains(t, prompt, "## Technical skills")

	bare := BuildInterviewPrompt(apiv1.InterviewSettings{})
	assert.NotContains(t, bare, "## Job")
	assert.Contains(t, bare, "## Rules")
}

func TestEvaluationPrompt_ContainsSchema(t *testing.T) {
	prompt := EvaluationPrompt(apiv1.DefaultInterviewSettings())
	assert.Contains(t, prompt, `"overallScore"`)
	assert.Contains(t, prompt, `"hiringRecommendation"`)
	assert.Contains(t, prompt, "Strong Hire")
	assert.Contains(t, prompt, "Backend Developer")

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(EvaluationSchema()), &schema))
	assert.Equal(t, "object", schema["type"])
}

func TestTranscript(t *testing.T) {
	text := Transcript([]apiv1.ChatMessage{
		{Role: "system", Content: "secret"},
		{Role: "assistant", Content: "Introduce yourself."},
		{Role: "user", Content: "I am a Go developer."},
	})
	assert.Equal(t, "Interviewer: Introduce yourself.\n\nCandidate: I am a Go developer.\n\n", text)
}

func TestParseEvaluation(t *testing.T) {
	structured := ParseEvaluation("```json\n{\"overallScore\": 85, \"hiringRecommendation\": \"Hire\"}\n```")
	assert.Equal(t, float64(85), structured["overallScore"])
	assert.Equal(t, "Hire", structured["hiringRecommendation"])

	plain := ParseEvaluation("The candidate did well.")
	assert.Equal(t, false, plain["isStructured"])
	assert.Equal(t, "The candidate did well.", plain["evaluationText"])
}
