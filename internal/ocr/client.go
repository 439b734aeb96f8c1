// Package ocr relays uploaded images to the OCR.space parse API.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Adarsh-griffin/NotifyBack/internal/metrics"
	"golang.org/x/time/rate"
)

// DefaultURL is the OCR.space parse endpoint.
const DefaultURL = "https://api.ocr.space/parse/image"

const (
	requestTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// ErrNoImage is returned when there is nothing to send.
var ErrNoImage = errors.New("no image file provided")

// Client forwards images to the OCR API.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
}

// Config configures a Client.
type Config struct {
	URL     string
	APIKey  string
	Limiter *rate.Limiter    // optional
	Metrics *metrics.Metrics // optional
}

// NewClient creates a new OCR client.
func NewClient(cfg Config) *Client {
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    cfg.Limiter,
		metrics:    cfg.Metrics,
	}
}

// ImageToText uploads data and returns the provider's JSON response untouched.
func (c *Client) ImageToText(ctx context.Context, fileName string, data []byte) (json.RawMessage, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}

	out, err := c.parse(ctx, fileName, data)
	if err != nil {
		c.metrics.ObserveOCR(metrics.OutcomeError)
		return nil, err
	}
	c.metrics.ObserveOCR(metrics.OutcomeSuccess)
	return out, nil
}

func (c *Client) parse(ctx context.Context, fileName string, data []byte) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}
	}

	body, contentType, err := buildForm(fileName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return nil, fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	if !json.Valid(raw) {
		return nil, errors.New("OCR API returned invalid JSON")
	}
	return json.RawMessage(raw), nil
}

func buildForm(fileName string, data []byte) (*bytes.Buffer, string, error) {
	if fileName == "" {
		fileName = "image"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"language", "eng"},
		{"isOverlayRequired", "false"},
		{"OCREngine", "2"},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
