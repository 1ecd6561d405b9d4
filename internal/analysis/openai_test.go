package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = srv.URL + "/v1"
	return openai.NewClientWithConfig(config)
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
}

func TestOpenAISummarizer_Summarize(t *testing.T) {
	var calls atomic.Int32
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
			assert.Contains(t, req.Messages[1].Content, "Sparkle Soda")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("  Summer launch of Sparkle Soda at Target.  "))
	})

	s := NewOpenAISummarizer(client, OpenAIConfig{Model: "gpt-4o-mini"}, nil)
	got, err := s.Summarize(context.Background(), "Launch Sparkle Soda at Target.")
	require.NoError(t, err)
	assert.Equal(t, "Summer launch of Sparkle Soda at Target.", got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAISummarizer_FallsBackAfterRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})

	s := NewOpenAISummarizer(client, OpenAIConfig{MaxRetries: 2}, NewExtractiveSummarizer())
	got, err := s.Summarize(context.Background(), "We are launching Sparkle Soda at Target this summer.")
	require.NoError(t, err)
	assert.Equal(t, "Launch Sparkle Soda at Target during summer.", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAISummarizer_EmptyResponseWithoutFallback(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse(""))
	})

	s := NewOpenAISummarizer(client, OpenAIConfig{MaxRetries: 1}, nil)
	_, err := s.Summarize(context.Background(), "Some document text.")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSummaryFailed)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAISummarizer_EmptyTextSkipsRequest(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	got, err := NewOpenAISummarizer(client, OpenAIConfig{}, nil).Summarize(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
