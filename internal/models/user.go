package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}

// UserProfile is the public subset of a user returned on login.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile strips everything but the public fields.
func (u User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Username: u.Username, Email: u.Email}
}
