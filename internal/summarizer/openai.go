package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

const summarizePrompt = "Summarize the following note in a few clear sentences. " +
	"Keep the key facts, drop filler, and reply with the summary only.\n\n"

// completer is the part of a langchaingo model the OpenAI tier uses.
type completer interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// OpenAI summarizes through an OpenAI-compatible chat completion endpoint.
type OpenAI struct {
	llm     completer
	timeout time.Duration
	limiter *rate.Limiter
}

// OpenAIConfig configures the OpenAI tier.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for compatible gateways
	Timeout time.Duration
	Limiter *rate.Limiter // optional
}

// NewOpenAI creates an OpenAI provider backed by langchaingo.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return &OpenAI{llm: llm, timeout: cfg.Timeout, limiter: cfg.Limiter}, nil
}

func (o *OpenAI) Name() string           { return "OpenAI" }
func (o *OpenAI) Timeout() time.Duration { return o.timeout }

// Summarize asks the model for a short summary of text.
func (o *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}
	}

	out, err := o.llm.Call(ctx, summarizePrompt+text,
		llms.WithMaxTokens(256),
		llms.WithTemperature(0.2),
	)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}
