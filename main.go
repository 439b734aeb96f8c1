package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adarsh-griffin/NotifyBack/internal/api"
	"github.com/Adarsh-griffin/NotifyBack/internal/auth"
	"github.com/Adarsh-griffin/NotifyBack/internal/config"
	"github.com/Adarsh-griffin/NotifyBack/internal/database"
	"github.com/Adarsh-griffin/NotifyBack/internal/logger"
	"github.com/Adarsh-griffin/NotifyBack/internal/metrics"
	"github.com/Adarsh-griffin/NotifyBack/internal/ocr"
	"github.com/Adarsh-griffin/NotifyBack/internal/services"
	"github.com/Adarsh-griffin/NotifyBack/internal/summarizer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Set up database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	dialect := database.DialectFor(cfg.DatabaseURL)
	if err := database.Migrate(context.Background(), db, dialect); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}
	log.Info().Str("dialect", string(dialect)).Msg("Database ready")

	m := metrics.New(prometheus.DefaultRegisterer)
	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.TokenTTL)

	// The local model is optional; without it the chain ends at plain cleanup.
	localModel, err := summarizer.LoadLocalModel(summarizer.LocalOptions{
		Disabled:      cfg.LocalModelDisabled,
		StopwordsFile: cfg.LocalModelStopwords,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Local model unavailable")
	}

	tiers := summarizer.BuildTiers(summarizer.TierConfig{
		HuggingFaceAPIKey:  cfg.HuggingFaceAPIKey,
		HuggingFaceBaseURL: cfg.HuggingFaceBaseURL,
		OpenAIAPIKey:       cfg.OpenAIAPIKey,
		OpenAIModel:        cfg.OpenAIModel,
		OpenAIBaseURL:      cfg.OpenAIBaseURL,
		Limiter:            newLimiter(cfg.OutboundRateLimit),
		LocalModel:         localModel,
	})
	for _, p := range tiers {
		log.Info().Str("provider", p.Name()).Dur("timeout", p.Timeout()).Msg("Enhancement tier configured")
	}

	// Set up services
	noteService := services.NewNoteService(db)
	userService := services.NewUserService(db, tokens, noteService)
	enhanceService := services.NewEnhanceService(tiers, m)
	ocrClient := ocr.NewClient(ocr.Config{
		URL:     cfg.OCRURL,
		APIKey:  cfg.OCRAPIKey,
		Limiter: newLimiter(cfg.OutboundRateLimit),
		Metrics: m,
	})

	// Set up router
	router := api.NewRouter(api.Dependencies{
		FrontendURL:    cfg.FrontendURL,
		Tokens:         tokens,
		UserService:    userService,
		NoteService:    noteService,
		EnhanceService: enhanceService,
		OCR:            ocrClient,
		Metrics:        promhttp.Handler(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Long enough for the slowest enhancement tier to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// newLimiter returns a limiter allowing rps requests per second, or nil for
// no limit.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
}
