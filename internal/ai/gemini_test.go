package ai

import (
	"context"
	"encoding/json"
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

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.New()
	cfg.APIKey = "test-key"
	cfg.Model = "gemini-test"
	cfg.GeminiBaseURL = srv.URL
	cfg.RetryInitialDelay = time.Millisecond
	cfg.RetryMaxDelay = 2 * time.Millisecond

	g, err := NewGemini(cfg, zerolog.Nop())
	require.NoError(t, err)
	return g
}

const geminiOK = `{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "import unittest\n"}, {"text": "class T(unittest.TestCase): pass"}]},
    "finishReason": "STOP"
  }],
  "usageMetadata": {"totalTokenCount": 42}
}`

func TestGemini_Generate(t *testing.T) {
	var gotPath, gotKey, gotPrompt string
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		gotPrompt = gjson.GetBytes(body, "contents.0.parts.0.text").String()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, geminiOK)
	})

	text, err := g.Generate(context.Background(), "write tests")
	require.NoError(t, err)

	assert.Equal(t, "import unittest\nclass T(unittest.TestCase): pass", text)
	assert.Equal(t, "/v1beta/models/gemini-test:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "write tests", gotPrompt)
}

func TestGemini_RetriesTransientStatuses(t *testing.T) {
	var calls atomic.Int32
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":{"code":503,"message":"The model is overloaded.","status":"UNAVAILABLE"}}`)
			return
		}
		_, _ = io.WriteString(w, geminiOK)
	})

	_, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGemini_GivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`)
	})

	_, err := g.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, int32(config.DefaultRetryAttempts), calls.Load())
	assert.Equal(t, 429, StatusCode(err))
	assert.True(t, IsRateLimited(err))
	assert.Contains(t, err.Error(), "quota")
}

func TestGemini_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": 400, "message": "API key not valid"}})
	})

	_, err := g.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 400, StatusCode(err))
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGemini_EmptyAndBlocked(t *testing.T) {
	t.Run("no candidates", func(t *testing.T) {
		g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"candidates": []}`)
		})
		_, err := g.Generate(context.Background(), "p")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("blocked prompt", func(t *testing.T) {
		g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"promptFeedback": {"blockReason": "SAFETY"}}`)
		})
		_, err := g.Generate(context.Background(), "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SAFETY")
	})
}

func TestGemini_ContextCanceled(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, geminiOK)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
}
