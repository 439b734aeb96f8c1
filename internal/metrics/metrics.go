// Package metrics holds the Prometheus collectors for the third-party
// integrations: the enhancement chain tiers and the OCR relay.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider outcomes recorded by ObserveProvider.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomeEmpty   = "empty"
	OutcomeSkipped = "skipped"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ProviderAttempts *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	EnhanceFallbacks prometheus.Counter
	OCRRequests      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
//
// Metrics:
//   - notes_enhance_provider_attempts_total{provider,outcome}
//   - notes_enhance_provider_duration_seconds{provider}
//   - notes_enhance_fallbacks_total
//   - notes_ocr_requests_total{outcome}
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProviderAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_enhance_provider_attempts_total",
				Help: "Enhancement provider invocations by outcome",
			},
			[]string{"provider", "outcome"},
		),
		ProviderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notes_enhance_provider_duration_seconds",
				Help:    "Time spent in an enhancement provider",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 12, 15},
			},
			[]string{"provider"},
		),
		EnhanceFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "notes_enhance_fallbacks_total",
				Help: "Enhancement requests answered by local cleanup after every provider failed",
			},
		),
		OCRRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_ocr_requests_total",
				Help: "OCR relay calls by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveProvider records one provider attempt.
func (m *Metrics) ObserveProvider(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderAttempts.WithLabelValues(provider, outcome).Inc()
	if outcome != OutcomeSkipped {
		m.ProviderDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	}
}

// ObserveFallback records a request that exhausted every provider.
func (m *Metrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.EnhanceFallbacks.Inc()
}

// ObserveOCR records one OCR relay call.
func (m *Metrics) ObserveOCR(outcome string) {
	if m == nil {
		return
	}
	m.OCRRequests.WithLabelValues(outcome).Inc()
}
