package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"pyheal/internal/config"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.New()
	cfg.Provider = "openai"
	cfg.APIKey = "sk-test"
	cfg.Model = "gpt-test"
	cfg.OpenAIBaseURL = srv.URL + "/v1"
	cfg.RetryInitialDelay = time.Millisecond
	cfg.RetryMaxDelay = 2 * time.Millisecond

	o, err := NewOpenAI(cfg, zerolog.Nop())
	require.NoError(t, err)
	return o
}

const openaiOK = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "model": "gpt-test",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "print('ok')"}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8}
}`

func TestOpenAI_Generate(t *testing.T) {
	var gotPath, gotAuth, gotModel, gotPrompt string
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotModel = gjson.GetBytes(body, "model").String()
		gotPrompt = gjson.GetBytes(body, "messages.0.content").String()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, openaiOK)
	})

	text, err := o.Generate(context.Background(), "heal this")
	require.NoError(t, err)

	assert.Equal(t, "print('ok')", text)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-test", gotModel)
	assert.Equal(t, "heal this", gotPrompt)
}

func TestOpenAI_RetriesOverload(t *testing.T) {
	var calls atomic.Int32
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":{"message":"The engine is currently overloaded","type":"server_error"}}`)
			return
		}
		_, _ = io.WriteString(w, openaiOK)
	})

	text, err := o.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "print('ok')", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAI_ExhaustedOverload(t *testing.T) {
	var calls atomic.Int32
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	})

	_, err := o.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 503, StatusCode(err))
	assert.True(t, IsOverloaded(err))
}
