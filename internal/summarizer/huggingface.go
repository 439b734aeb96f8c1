package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const maxErrorBody = 512

// HuggingFace calls a summarization model on the HuggingFace inference API.
type HuggingFace struct {
	name       string
	model      string
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

// HuggingFaceConfig configures a HuggingFace tier.
type HuggingFaceConfig struct {
	Name    string
	Model   string // e.g. "facebook/bart-large-cnn"
	BaseURL string // e.g. "https://api-inference.huggingface.co/models"
	APIKey  string
	Timeout time.Duration
	Limiter *rate.Limiter // optional
}

type hfRequest struct {
	Inputs string `json:"inputs"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// NewHuggingFace creates a HuggingFace provider.
func NewHuggingFace(cfg HuggingFaceConfig) *HuggingFace {
	return &HuggingFace{
		name:       cfg.Name,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		limiter:    cfg.Limiter,
	}
}

func (h *HuggingFace) Name() string           { return h.name }
func (h *HuggingFace) Timeout() time.Duration { return h.timeout }

// Summarize posts {"inputs": text} and returns the first summary_text.
// An empty result array yields an empty summary and no error.
func (h *HuggingFace) Summarize(ctx context.Context, text string) (string, error) {
	if h.apiKey == "" {
		return "", fmt.Errorf("%s: %w", h.name, ErrMissingAPIKey)
	}
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}
	}

	body, err := json.Marshal(hfRequest{Inputs: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+h.model, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr hfError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, apiErr.Error)
		}
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return "", fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var summaries []hfSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(summaries) == 0 {
		return "", nil
	}
	return summaries[0].SummaryText, nil
}
