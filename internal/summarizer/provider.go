// Package summarizer implements the tiers of the text enhancement chain:
// remote inference APIs and an in-process extractive model.
package summarizer

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrMissingAPIKey is returned by remote providers configured without a key.
	ErrMissingAPIKey = errors.New("missing api key")
	// ErrUnavailable is returned by a provider that could not be initialized.
	ErrUnavailable = errors.New("provider unavailable")
)

// Provider is one tier of the enhancement chain.
type Provider interface {
	Name() string
	Timeout() time.Duration
	Summarize(ctx context.Context, text string) (string, error)
}

// Availability is implemented by providers that may be absent at runtime.
// Unavailable providers are skipped by the chain.
type Availability interface {
	Available() bool
}

var (
	newlineRuns    = regexp.MustCompile(`\n+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Clean is the deterministic last-resort transform: newline runs collapse
// to one, whitespace runs collapse to a single space, then trim.
func Clean(text string) string {
	text = newlineRuns.ReplaceAllString(text, "\n")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
