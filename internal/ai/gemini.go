package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"pyheal/internal/config"
)

var _ Model = (*Gemini)(nil)

type gemini_Part struct {
	Text string `json:"text"`
}

type gemini_Content struct {
	Role  string        `json:"role"`
	Parts []gemini_Part `json:"parts"`
}

type gemini_Request struct {
	Contents []gemini_Content `json:"contents"`
}

// Gemini calls the Generative Language REST API
type Gemini struct {
	httpClient *http.Client
	logger     zerolog.Logger
	baseURL    string
	apiKey     string
	model      string
	retry      RetryPolicy
}

// NewGemini creates a Gemini client from cfg; the key must already be resolved
func NewGemini(cfg *config.Config, logger zerolog.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, cfg.APIKeyVar())
	}
	return &Gemini{
		httpClient: &http.Client{},
		logger:     logger.With().Str("provider", "gemini").Str("model", cfg.Model).Logger(),
		baseURL:    strings.TrimRight(cfg.GeminiBaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		retry:      PolicyFromConfig(cfg),
	}, nil
}

// Name returns the provider name
func (g *Gemini) Name() string { return "gemini" }

// Generate sends prompt as a single user turn and returns the concatenated text parts
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	return g.retry.Do(ctx, g.logger, func(ctx context.Context) (string, error) {
		return g.generateOnce(ctx, prompt)
	})
}

func (g *Gemini) generateOnce(ctx context.Context, prompt string) (string, error) {
	payload := gemini_Request{
		Contents: []gemini_Content{{Role: "user", Parts: []gemini_Part{{Text: prompt}}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	g.logger.Debug().Int("prompt_bytes", len(prompt)).Msg("sending generateContent request")
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(data, "error.message").String()
		if msg == "" {
			msg = string(data)
		}
		return "", &StatusError{Provider: "gemini", StatusCode: resp.StatusCode, Message: msg}
	}

	if reason := gjson.GetBytes(data, "promptFeedback.blockReason").String(); reason != "" {
		return "", fmt.Errorf("gemini blocked the prompt: %s", reason)
	}

	var sb strings.Builder
	for _, part := range gjson.GetBytes(data, "candidates.0.content.parts.#.text").Array() {
		sb.WriteString(part.String())
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	g.logger.Debug().
		Str("finish_reason", gjson.GetBytes(data, "candidates.0.finishReason").String()).
		Int64("total_tokens", gjson.GetBytes(data, "usageMetadata.totalTokenCount").Int()).
		Msg("received generateContent response")
	return sb.String(), nil
}
