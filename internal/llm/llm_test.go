package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refineboard/internal/llm"
)

func completionServer(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			_ = json.NewDecoder(r.Body).Decode(captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate_Success(t *testing.T) {
	var req map[string]any
	srv := completionServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "test-model",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  Refined text  "}}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
	}`, &req)

	client := llm.New(llm.Config{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"})

	text, err := client.Generate(context.Background(), "make it better", 0.3)

	require.NoError(t, err)
	assert.Equal(t, "Refined text", text)
	assert.Equal(t, "test-model", req["model"])
	assert.InDelta(t, 0.3, req["temperature"], 1e-9)
	messages, ok := req["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "make it better", messages[0].(map[string]any)["content"])
}

func TestGenerate_UpstreamError(t *testing.T) {
	srv := completionServer(t, http.StatusTooManyRequests, `{"error": {"message": "quota exceeded", "type": "rate_limit"}}`, nil)

	client := llm.New(llm.Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := client.Generate(context.Background(), "prompt", 0.7)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`, nil)

	client := llm.New(llm.Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := client.Generate(context.Background(), "prompt", 0.7)

	assert.Error(t, err)
}

func TestGenerate_NotConfigured(t *testing.T) {
	client := llm.New(llm.Config{})

	_, err := client.Generate(context.Background(), "prompt", 0.7)

	assert.ErrorIs(t, err, llm.ErrNotConfigured)
	assert.Equal(t, "gpt-4o-mini", client.Model())
}
