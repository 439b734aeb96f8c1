package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Adarsh-griffin/NotifyBack/internal/models"
	"github.com/Adarsh-griffin/NotifyBack/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// NoteHandler handles HTTP requests for the caller's notes.
type NoteHandler struct {
	service services.NoteServiceProvider
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(service services.NoteServiceProvider) *NoteHandler {
	return &NoteHandler{service: service}
}

// NotePayload is the body of create and update requests.
type NotePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type noteResponse struct {
	Message string      `json:"message"`
	Note    models.Note `json:"note"`
}

// GetNotes lists the caller's non-archived notes.
func (h *NoteHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notes, err := h.service.GetNotes(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch notes")
		writeMessage(w, http.StatusInternalServerError, "Error fetching notes")
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// GetAllNotes lists every note of the caller, archived or not.
func (h *NoteHandler) GetAllNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notes, err := h.service.GetAllNotes(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch all notes")
		writeMessage(w, http.StatusInternalServerError, "Error fetching all notes")
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// Create adds a note for the caller.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var payload NotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.service.CreateNote(r.Context(), userID, payload.Title, payload.Content)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeMessage(w, http.StatusBadRequest, "Title and content are required")
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create note")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, noteResponse{Message: "Note created successfully", Note: note})
}

// Update changes the title and/or content of one of the caller's notes.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var payload NotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.service.UpdateNote(r.Context(), id, userID, models.NoteUpdate{
		Title:   payload.Title,
		Content: payload.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Note not found")
		case errors.Is(err, services.ErrForbidden):
			writeMessage(w, http.StatusForbidden, "Unauthorized to update this note")
		default:
			log.Error().Err(err).Str("note_id", id).Msg("Failed to update note")
			writeMessage(w, http.StatusInternalServerError, "Error updating note")
		}
		return
	}
	writeJSON(w, http.StatusOK, noteResponse{Message: "Note updated successfully", Note: note})
}

// Delete removes one of the caller's notes.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteNote(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Note not found")
		case errors.Is(err, services.ErrForbidden):
			writeMessage(w, http.StatusForbidden, "Unauthorized to delete this note")
		default:
			log.Error().Err(err).Str("note_id", id).Msg("Failed to delete note")
			writeMessage(w, http.StatusInternalServerError, "Error deleting note")
		}
		return
	}
	writeMessage(w, http.StatusOK, "Note deleted successfully")
}

// Search finds the caller's notes whose title or content contains ?query=.
func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	query := r.URL.Query().Get("query")

	notes, err := h.service.SearchNotes(r.Context(), userID, query)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeStatus(w, http.StatusBadRequest, "Valid search query (min 2 characters) is required")
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to search notes")
		writeStatus(w, http.StatusInternalServerError, "Server error while searching notes")
		return
	}

	count := len(notes)
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Count: &count, Data: notes})
}

// Archive hides one of the caller's notes from the default listing.
func (h *NoteHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// Unarchive restores an archived note.
func (h *NoteHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *NoteHandler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	verb, gerund, op := "archive", "archiving", h.service.ArchiveNote
	if !archived {
		verb, gerund, op = "unarchive", "unarchiving", h.service.UnarchiveNote
	}

	note, err := op(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeStatus(w, http.StatusNotFound, "Note not found")
		case errors.Is(err, services.ErrForbidden):
			writeStatus(w, http.StatusForbidden, "Unauthorized to "+verb+" this note")
		default:
			log.Error().Err(err).Str("note_id", id).Msgf("Failed to %s note", verb)
			writeStatus(w, http.StatusInternalServerError, "Server error while "+gerund+" note")
		}
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Success: true,
		Message: "Note " + verb + "d successfully",
		Data:    note,
	})
}

// GetArchived lists the caller's archived notes.
func (h *NoteHandler) GetArchived(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notes, err := h.service.GetArchivedNotes(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch archived notes")
		writeStatus(w, http.StatusInternalServerError, "Failed to fetch archived notes")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Data: notes})
}
