package summarizer

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Default tier settings.
const (
	DistilBARTModel   = "sshleifer/distilbart-cnn-12-6"
	BARTModel         = "facebook/bart-large-cnn"
	DistilBARTTimeout = 8 * time.Second
	BARTTimeout       = 12 * time.Second
	OpenAITimeout     = 10 * time.Second
	LocalTimeout      = 15 * time.Second
)

// TierConfig carries what BuildTiers needs to assemble the chain.
type TierConfig struct {
	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	Limiter            *rate.Limiter
	LocalModel         *LocalModel // nil when the model failed to load
}

// BuildTiers returns the providers in preference order: the HuggingFace
// models, OpenAI when a key is configured, then the local model.
func BuildTiers(cfg TierConfig) []Provider {
	tiers := []Provider{
		NewHuggingFace(HuggingFaceConfig{
			Name:    "HuggingFace-DistilBART",
			Model:   DistilBARTModel,
			BaseURL: cfg.HuggingFaceBaseURL,
			APIKey:  cfg.HuggingFaceAPIKey,
			Timeout: DistilBARTTimeout,
			Limiter: cfg.Limiter,
		}),
		NewHuggingFace(HuggingFaceConfig{
			Name:    "HuggingFace-BART",
			Model:   BARTModel,
			BaseURL: cfg.HuggingFaceBaseURL,
			APIKey:  cfg.HuggingFaceAPIKey,
			Timeout: BARTTimeout,
			Limiter: cfg.Limiter,
		}),
	}

	if cfg.OpenAIAPIKey != "" {
		oa, err := NewOpenAI(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: OpenAITimeout,
			Limiter: cfg.Limiter,
		})
		if err != nil {
			log.Warn().Err(err).Msg("OpenAI tier disabled")
		} else {
			tiers = append(tiers, oa)
		}
	}

	return append(tiers, NewLocal(cfg.LocalModel, LocalTimeout))
}
