package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"pyheal/internal/config"
)

// Placeholders written instead of test code when the model stays unavailable after retries
const (
	OverloadedPlaceholder = "# AI is currently overloaded. Please wait 30 seconds and try again."
	RateLimitPlaceholder  = "# Rate limit reached. Please wait and try again."
)

// Model is a text-in, text-out generative model backend
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewModel creates the backend selected by cfg.Provider
func NewModel(cfg *config.Config, logger zerolog.Logger) (Model, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGemini(cfg, logger)
	case "openai":
		return NewOpenAI(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// Engine builds the generate and heal prompts and cleans up the answers
type Engine struct {
	model  Model
	logger zerolog.Logger
}

// NewEngine creates an Engine over model
func NewEngine(model Model, logger zerolog.Logger) *Engine {
	return &Engine{model: model, logger: logger}
}

// GenerateTests asks the model for a unittest file covering source, which is importable as module.
// When the service is still overloaded or rate limited after retries, a placeholder comment is
// returned in place of code.
func (e *Engine) GenerateTests(ctx context.Context, source, module string) (string, error) {
	prompt, err := BuildGeneratePrompt(source, module)
	if err != nil {
		return "", fmt.Errorf("build generate prompt: %w", err)
	}

	text, err := e.model.Generate(ctx, prompt)
	if err != nil {
		switch {
		case IsOverloaded(err):
			e.logger.Warn().Err(err).Msg("model overloaded, writing placeholder")
			return OverloadedPlaceholder, nil
		case IsRateLimited(err):
			e.logger.Warn().Err(err).Msg("rate limited, writing placeholder")
			return RateLimitPlaceholder, nil
		default:
			return "", fmt.Errorf("AI generation failed: %w", err)
		}
	}
	return StripFences(text), nil
}

// Heal asks the model to fix source given the failing test output
func (e *Engine) Heal(ctx context.Context, source, errorText string) (string, error) {
	prompt, err := BuildHealPrompt(source, errorText)
	if err != nil {
		return "", fmt.Errorf("build heal prompt: %w", err)
	}

	text, err := e.model.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("AI healing failed: %w", err)
	}
	code := StripFences(text)
	if code == "" {
		return "", fmt.Errorf("AI healing failed: %w", ErrEmptyResponse)
	}
	return code, nil
}
