// Package llm wraps the text and vision model transports behind one
// Gateway interface and maps their failures onto domain errors.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"vfxprompt/internal/domain"
)

const (
	ProviderGateway = "gateway"
	ProviderGemini  = "gemini"
)

// Request is a single system/user exchange.
type Request struct {
	System string
	User   string
	// ImageURL is an http(s) URL or a base64 data URI.
	ImageURL        string
	Temperature     float64
	MaxOutputTokens int
	// JSON asks the provider for a JSON object response when it supports it.
	JSON bool
}

type Response struct {
	Text     string
	Provider string
	Model    string
}

// Gateway completes one request.
type Gateway interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Name() string
}

// ErrEmptyResponse is returned when the provider answers without text.
var ErrEmptyResponse = errors.New("llm: empty response")

// StatusError is a non-success HTTP status from a provider.
type StatusError struct {
	Provider string
	Code     int
	Err      error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: status %d", e.Provider, e.Code)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Is matches the domain error the status code classifies as.
func (e *StatusError) Is(target error) bool {
	return target == ClassifyStatus(e.Code)
}

// ClassifyStatus maps an HTTP status to a domain error.
func ClassifyStatus(code int) error {
	switch code {
	case 429:
		return domain.ErrRateLimited
	case 402:
		return domain.ErrQuotaExhausted
	}
	return domain.ErrProviderFailure
}

// Surfaced reports whether err must reach the caller instead of degrading
// to a local fallback.
func Surfaced(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrQuotaExhausted)
}

// FailureReason names err for fallback metadata.
func FailureReason(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return fmt.Sprintf("http_%d", se.Code)
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	}
	return "http_request"
}

// ErrNotConfigured is returned by Nop.
var ErrNotConfigured = errors.New("llm: no provider configured")

// Nop is used when no provider key is available. Every call fails with
// ErrNotConfigured so callers take their local fallback.
type Nop struct{}

func (Nop) Complete(context.Context, Request) (*Response, error) {
	return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, ErrNotConfigured)
}

func (Nop) Name() string { return "none" }

// ParseDataURI decodes a base64 data URI.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, domain.Invalid("image", "not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, domain.Invalid("image", "data URI has no payload")
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, domain.Invalid("image", "data URI must be base64 encoded")
	}
	if mime == "" {
		mime = "application/octet-stream"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, domain.Invalid("image", "invalid base64 payload")
	}
	return mime, data, nil
}

// IsDataURI reports whether s looks like a data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// Select returns the first configured gateway in preference order.
func Select(preferred ...Gateway) Gateway {
	for _, g := range preferred {
		if g == nil {
			continue
		}
		if _, nop := g.(Nop); nop {
			continue
		}
		return g
	}
	return Nop{}
}
