package ai

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

var (
	// ErrMissingAPIKey is returned when the selected provider has no key configured
	ErrMissingAPIKey = errors.New("API key not found")
	// ErrEmptyResponse is returned when the model answered without any text
	ErrEmptyResponse = errors.New("model returned no text")
)

// StatusError is a non-OK HTTP response from a model API
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// StatusCode extracts the HTTP status carried by err, or 0 if there is none
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// IsOverloaded reports whether err means the model service is overloaded (HTTP 503)
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}
	if StatusCode(err) == 503 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "503") || strings.Contains(msg, "overloaded")
}

// IsRateLimited reports whether err means the quota or rate limit was hit (HTTP 429)
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if StatusCode(err) == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota")
}
