package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Adarsh-griffin/NotifyBack/internal/ocr"
	"github.com/rs/zerolog/log"
)

// MaxUploadSize caps the multipart body of an OCR request.
const MaxUploadSize = 10 << 20

// OCRProvider turns an image into the OCR API's JSON result.
type OCRProvider interface {
	ImageToText(ctx context.Context, fileName string, data []byte) (json.RawMessage, error)
}

// OCRHandler relays uploaded images to the OCR provider.
type OCRHandler struct {
	provider OCRProvider
}

// NewOCRHandler creates a new OCRHandler.
func NewOCRHandler(provider OCRProvider) *OCRHandler {
	return &OCRHandler{provider: provider}
}

type ocrError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ImageToText reads the "image" multipart field and returns the OCR result verbatim.
func (h *OCRHandler) ImageToText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ocrError{Error: "Image too large"})
			return
		}
		log.Debug().Err(err).Msg("Unreadable OCR upload")
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ocrError{Error: "No image file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ocrError{Error: "No image file provided"})
		return
	}

	out, err := h.provider.ImageToText(r.Context(), header.Filename, data)
	if err != nil {
		if errors.Is(err, ocr.ErrNoImage) {
			writeJSON(w, http.StatusBadRequest, ocrError{Error: "No image file provided"})
			return
		}
		log.Error().Err(err).Str("file", header.Filename).Msg("OCR Error")
		writeJSON(w, http.StatusInternalServerError, ocrError{Error: "OCR processing failed", Details: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		log.Error().Err(err).Msg("Failed to write OCR response")
	}
}
