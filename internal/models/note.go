package models

import "time"

// NoteColors is the fixed palette a note's color is drawn from at creation.
var NoteColors = []string{"#ffe666", "#f5c27d", "#f6cebf", "#e3b7d2", "#bfe7f6"}

// Note represents a single user note.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"` // Owner, references users.id
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	Archived  bool      `json:"archived"`
}

// NoteUpdate carries the optional fields of an update request.
// Empty strings mean "leave unchanged".
type NoteUpdate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
