package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"pyheal/internal/config"
)

var _ Model = (*OpenAI)(nil)

// OpenAI calls the chat completions API through the go-openai SDK
type OpenAI struct {
	client *openai.Client
	logger zerolog.Logger
	model  string
	retry  RetryPolicy
}

// NewOpenAI creates an OpenAI client from cfg; the key must already be resolved
func NewOpenAI(cfg *config.Config, logger zerolog.Logger) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, cfg.APIKeyVar())
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger.With().Str("provider", "openai").Str("model", cfg.Model).Logger(),
		model:  cfg.Model,
		retry:  PolicyFromConfig(cfg),
	}, nil
}

// Name returns the provider name
func (o *OpenAI) Name() string { return "openai" }

// Generate sends prompt as a single user message
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	return o.retry.Do(ctx, o.logger, func(ctx context.Context) (string, error) {
		return o.generateOnce(ctx, prompt)
	})
}

func (o *OpenAI) generateOnce(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	o.logger.Debug().Int("prompt_bytes", len(prompt)).Msg("sending chat completion request")
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	o.logger.Debug().
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("received chat completion")
	return resp.Choices[0].Message.Content, nil
}
