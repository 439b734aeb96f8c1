package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Adarsh-griffin/NotifyBack/internal/services"
	"github.com/Adarsh-griffin/NotifyBack/internal/summarizer"
	"github.com/rs/zerolog/log"
)

// EnhanceHandler exposes the text enhancement chain.
type EnhanceHandler struct {
	service services.EnhanceServiceProvider
}

// NewEnhanceHandler creates a new EnhanceHandler.
func NewEnhanceHandler(service services.EnhanceServiceProvider) *EnhanceHandler {
	return &EnhanceHandler{service: service}
}

type enhanceRequest struct {
	Text json.RawMessage `json:"text"`
}

type enhanceError struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	OriginalText string `json:"originalText,omitempty"`
	EnhancedText string `json:"enhancedText,omitempty"`
}

var errInvalidInput = enhanceError{Error: "Invalid input", Message: "Please provide valid text"}

// Enhance summarizes the posted text. Provider failures still produce a 200
// with success=false and locally cleaned text.
func (h *EnhanceHandler) Enhance(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errInvalidInput)
		return
	}

	// Only a JSON string is accepted; numbers, arrays and null are rejected.
	var text string
	if len(req.Text) == 0 || req.Text[0] != '"' || json.Unmarshal(req.Text, &text) != nil || text == "" {
		writeJSON(w, http.StatusBadRequest, errInvalidInput)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Enhancement error")
			writeJSON(w, http.StatusInternalServerError, enhanceError{
				Error:        "Processing failed",
				Message:      "Text enhancement service unavailable",
				OriginalText: text,
				EnhancedText: summarizer.Clean(text),
			})
		}
	}()

	result, err := h.service.Enhance(r.Context(), text)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errInvalidInput)
			return
		}
		log.Error().Err(err).Msg("Enhancement error")
		writeJSON(w, http.StatusInternalServerError, enhanceError{
			Error:        "Processing failed",
			Message:      "Text enhancement service unavailable",
			OriginalText: text,
			EnhancedText: summarizer.Clean(text),
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
