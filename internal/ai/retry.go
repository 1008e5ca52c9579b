package ai

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"pyheal/internal/config"
)

// RetryPolicy bounds how model calls are repeated on transient HTTP statuses
type RetryPolicy struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	StatusCodes  []int
}

// PolicyFromConfig reads the retry settings out of cfg
func PolicyFromConfig(cfg *config.Config) RetryPolicy {
	return RetryPolicy{
		Attempts:     cfg.RetryAttempts,
		InitialDelay: cfg.RetryInitialDelay,
		MaxDelay:     cfg.RetryMaxDelay,
		StatusCodes:  slices.Clone(cfg.RetryStatusCodes),
	}
}

func (p RetryPolicy) backoff() retry.Backoff {
	base := p.InitialDelay
	if base <= 0 {
		base = time.Millisecond
	}
	b := retry.NewExponential(base)
	if p.MaxDelay > 0 {
		b = retry.WithCappedDuration(p.MaxDelay, b)
	}
	retries := p.Attempts - 1
	if retries < 0 {
		retries = 0
	}
	return retry.WithMaxRetries(uint64(retries), b)
}

// Retryable reports whether err carries one of the policy's status codes
func (p RetryPolicy) Retryable(err error) bool {
	code := StatusCode(err)
	return code != 0 && slices.Contains(p.StatusCodes, code)
}

// Do calls fn until it succeeds, fails with a non-retryable error, or the attempts run out.
// The last error is returned unwrapped.
func (p RetryPolicy) Do(ctx context.Context, logger zerolog.Logger, fn func(ctx context.Context) (string, error)) (string, error) {
	attempt := 0
	return retry.DoValue(ctx, p.backoff(), func(ctx context.Context) (string, error) {
		attempt++
		text, err := fn(ctx)
		if err != nil && p.Retryable(err) {
			logger.Warn().Err(err).Int("attempt", attempt).Int("attempts", p.Attempts).Msg("transient model error, retrying")
			return "", retry.RetryableError(err)
		}
		return text, err
	})
}
