package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adarsh-griffin/NotifyBack/internal/metrics"
	"github.com/Adarsh-griffin/NotifyBack/internal/summarizer"
	"github.com/rs/zerolog/log"
)

// MinEnhanceLength is the shortest trimmed text sent to any provider.
const MinEnhanceLength = 10

const (
	msgTooShort      = "Text too short for enhancement"
	msgAllFailed     = "All enhancement services failed"
	errTimeoutFormat = "%s timed out after %s"
)

// EnhanceResult is the payload returned for an enhancement request.
type EnhanceResult struct {
	Success        bool   `json:"success"`
	EnhancedText   string `json:"enhancedText"`
	ServiceUsed    string `json:"serviceUsed,omitempty"`
	ProcessingTime *int64 `json:"processingTime,omitempty"` // milliseconds
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
}

// EnhanceServiceProvider defines the interface for the enhancement chain.
type EnhanceServiceProvider interface {
	Enhance(ctx context.Context, text string) (EnhanceResult, error)
}

// EnhanceService walks an ordered list of summarization providers and
// returns the first non-empty summary.
type EnhanceService struct {
	providers []summarizer.Provider
	metrics   *metrics.Metrics
}

// NewEnhanceService creates a new EnhanceService. providers are tried in order.
func NewEnhanceService(providers []summarizer.Provider, m *metrics.Metrics) *EnhanceService {
	return &EnhanceService{providers: providers, metrics: m}
}

// Enhance summarizes text. Provider failures never surface as errors; only
// an empty input does.
func (s *EnhanceService) Enhance(ctx context.Context, text string) (EnhanceResult, error) {
	if text == "" {
		return EnhanceResult{}, fmt.Errorf("%w: text is required", ErrValidation)
	}

	text = strings.TrimSpace(text)
	if len([]rune(text)) < MinEnhanceLength {
		return EnhanceResult{Success: true, EnhancedText: text, Message: msgTooShort}, nil
	}

	// Provider calls outlive a disconnected client; each is bounded by its own timeout.
	detached := context.WithoutCancel(ctx)

	var lastErr error
	for _, p := range s.providers {
		if a, ok := p.(summarizer.Availability); ok && !a.Available() {
			s.metrics.ObserveProvider(p.Name(), metrics.OutcomeSkipped, 0)
			continue
		}

		start := time.Now()
		summary, err := s.invoke(detached, p, text)
		elapsed := time.Since(start)

		if err != nil {
			lastErr = err
			outcome := metrics.OutcomeError
			if errors.Is(err, context.DeadlineExceeded) {
				outcome = metrics.OutcomeTimeout
			}
			s.metrics.ObserveProvider(p.Name(), outcome, elapsed)
			log.Warn().Err(err).Str("provider", p.Name()).Dur("elapsed", elapsed).Msg("Enhancement provider failed")
			continue
		}
		if strings.TrimSpace(summary) == "" {
			s.metrics.ObserveProvider(p.Name(), metrics.OutcomeEmpty, elapsed)
			continue
		}

		s.metrics.ObserveProvider(p.Name(), metrics.OutcomeSuccess, elapsed)
		ms := elapsed.Milliseconds()
		return EnhanceResult{
			Success:        true,
			EnhancedText:   summary,
			ServiceUsed:    p.Name(),
			ProcessingTime: &ms,
		}, nil
	}

	s.metrics.ObserveFallback()
	result := EnhanceResult{
		Success:      false,
		EnhancedText: summarizer.Clean(text),
		Message:      msgAllFailed,
	}
	if lastErr != nil {
		result.Error = lastErr.Error()
	}
	return result, nil
}

type providerOutcome struct {
	summary string
	err     error
}

// invoke runs one provider under its timeout. A provider that ignores its
// context is abandoned once the deadline passes; a panic becomes an error.
func (s *EnhanceService) invoke(ctx context.Context, p summarizer.Provider, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout())
	defer cancel()

	done := make(chan providerOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- providerOutcome{err: fmt.Errorf("%s panicked: %v", p.Name(), r)}
			}
		}()
		summary, err := p.Summarize(ctx, text)
		done <- providerOutcome{summary: summary, err: err}
	}()

	select {
	case out := <-done:
		return out.summary, out.err
	case <-ctx.Done():
		return "", fmt.Errorf(errTimeoutFormat+": %w", p.Name(), p.Timeout(), ctx.Err())
	}
}
