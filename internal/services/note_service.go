package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Adarsh-griffin/NotifyBack/internal/models"
	"github.com/google/uuid"
)

// MinSearchQueryLength is the shortest trimmed query SearchNotes accepts.
const MinSearchQueryLength = 2

// NoteServiceProvider defines the interface for note services.
type NoteServiceProvider interface {
	CreateNote(ctx context.Context, userID, title, content string) (models.Note, error)
	GetNotes(ctx context.Context, userID string) ([]models.Note, error)
	GetArchivedNotes(ctx context.Context, userID string) ([]models.Note, error)
	GetAllNotes(ctx context.Context, userID string) ([]models.Note, error)
	UpdateNote(ctx context.Context, noteID, userID string, update models.NoteUpdate) (models.Note, error)
	DeleteNote(ctx context.Context, noteID, userID string) error
	ArchiveNote(ctx context.Context, noteID, userID string) (models.Note, error)
	UnarchiveNote(ctx context.Context, noteID, userID string) (models.Note, error)
	SearchNotes(ctx context.Context, userID, query string) ([]models.Note, error)
}

// NoteService provides business logic for note management.
type NoteService struct {
	db        *sql.DB
	now       func() time.Time
	pickColor func() string
}

// NewNoteService creates a new NoteService.
func NewNoteService(db *sql.DB) *NoteService {
	return &NoteService{
		db:  db,
		now: time.Now,
		pickColor: func() string {
			return models.NoteColors[rand.IntN(len(models.NoteColors))]
		},
	}
}

const noteColumns = "id, user_id, title, content, color, created_at, archived"

// scanNote is a helper to scan a note from a row or rows object.
func scanNote(scanner interface{ Scan(...any) error }) (models.Note, error) {
	var note models.Note
	err := scanner.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.Color, &note.CreatedAt, &note.Archived)
	return note, err
}

func (s *NoteService) queryNotes(ctx context.Context, query string, args ...any) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// GetNoteByID retrieves a note without any owner filter.
func (s *NoteService) GetNoteByID(ctx context.Context, noteID string) (models.Note, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE id = $1", noteID)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, fmt.Errorf("%w: note with id %s", ErrNotFound, noteID)
		}
		return models.Note{}, err
	}
	return note, nil
}

// ownedNote fetches a note and checks it belongs to userID. A missing note is
// ErrNotFound, someone else's note is ErrForbidden.
func (s *NoteService) ownedNote(ctx context.Context, noteID, userID string) (models.Note, error) {
	note, err := s.GetNoteByID(ctx, noteID)
	if err != nil {
		return models.Note{}, err
	}
	if note.UserID != userID {
		return models.Note{}, fmt.Errorf("%w: note %s is not owned by %s", ErrForbidden, noteID, userID)
	}
	return note, nil
}

// CreateNote adds a new note with a color drawn from the palette.
func (s *NoteService) CreateNote(ctx context.Context, userID, title, content string) (models.Note, error) {
	if title == "" || content == "" {
		return models.Note{}, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	note := models.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Color:     s.pickColor(),
		CreatedAt: s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notes (id, user_id, title, content, color, created_at, archived) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		note.ID, note.UserID, note.Title, note.Content, note.Color, note.CreatedAt, note.Archived)
	if err != nil {
		return models.Note{}, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

// GetNotes returns the user's non-archived notes, newest first.
func (s *NoteService) GetNotes(ctx context.Context, userID string) ([]models.Note, error) {
	return s.queryNotes(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = $1 AND archived = $2 ORDER BY created_at DESC, id DESC",
		userID, false)
}

// GetArchivedNotes returns only the user's archived notes, newest first.
func (s *NoteService) GetArchivedNotes(ctx context.Context, userID string) ([]models.Note, error) {
	return s.queryNotes(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = $1 AND archived = $2 ORDER BY created_at DESC, id DESC",
		userID, true)
}

// GetAllNotes returns every note of the user regardless of archived state.
func (s *NoteService) GetAllNotes(ctx context.Context, userID string) ([]models.Note, error) {
	return s.queryNotes(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = $1 ORDER BY created_at DESC, id DESC",
		userID)
}

// UpdateNote overwrites title and content with the non-empty fields of update.
func (s *NoteService) UpdateNote(ctx context.Context, noteID, userID string, update models.NoteUpdate) (models.Note, error) {
	note, err := s.ownedNote(ctx, noteID, userID)
	if err != nil {
		return models.Note{}, err
	}

	// Empty means unchanged, so a note can never be blanked through an update.
	if update.Title != "" {
		note.Title = update.Title
	}
	if update.Content != "" {
		note.Content = update.Content
	}

	_, err = s.db.ExecContext(ctx, "UPDATE notes SET title = $1, content = $2 WHERE id = $3",
		note.Title, note.Content, note.ID)
	if err != nil {
		return models.Note{}, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

// DeleteNote removes a note owned by userID.
func (s *NoteService) DeleteNote(ctx context.Context, noteID, userID string) error {
	if _, err := s.ownedNote(ctx, noteID, userID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = $1", noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// ArchiveNote hides a note from the default listing.
func (s *NoteService) ArchiveNote(ctx context.Context, noteID, userID string) (models.Note, error) {
	return s.setArchived(ctx, noteID, userID, true)
}

// UnarchiveNote brings an archived note back.
func (s *NoteService) UnarchiveNote(ctx context.Context, noteID, userID string) (models.Note, error) {
	return s.setArchived(ctx, noteID, userID, false)
}

func (s *NoteService) setArchived(ctx context.Context, noteID, userID string, archived bool) (models.Note, error) {
	if _, err := s.ownedNote(ctx, noteID, userID); err != nil {
		return models.Note{}, err
	}
	if _, err := s.db.ExecContext(ctx, "UPDATE notes SET archived = $1 WHERE id = $2", archived, noteID); err != nil {
		return models.Note{}, fmt.Errorf("failed to update archived flag: %w", err)
	}
	return s.GetNoteByID(ctx, noteID)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchNotes matches query case-insensitively against title or content.
func (s *NoteService) SearchNotes(ctx context.Context, userID, query string) ([]models.Note, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchQueryLength {
		return nil, fmt.Errorf("%w: search query must be at least %d characters", ErrValidation, MinSearchQueryLength)
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	return s.queryNotes(ctx,
		"SELECT "+noteColumns+` FROM notes
		 WHERE user_id = $1 AND (LOWER(title) LIKE $2 ESCAPE '\' OR LOWER(content) LIKE $2 ESCAPE '\')
		 ORDER BY created_at DESC, id DESC`,
		userID, pattern)
}
