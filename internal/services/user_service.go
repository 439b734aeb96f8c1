package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Adarsh-griffin/NotifyBack/internal/database"
	"github.com/Adarsh-griffin/NotifyBack/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
}

// TokenIssuer mints session tokens for a user ID.
type TokenIssuer interface {
	GenerateJWT(userID string) (string, error)
}

// LoginResult is everything a successful login hands back to the client.
type LoginResult struct {
	Token string
	User  models.UserProfile
	Notes []models.Note
}

// UserService provides business logic for user management.
type UserService struct {
	db       *sql.DB
	tokens   TokenIssuer
	notes    NoteServiceProvider
	hashCost int
	now      func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, tokens TokenIssuer, notes NoteServiceProvider) *UserService {
	return &UserService{
		db:       db,
		tokens:   tokens,
		notes:    notes,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1", email)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%w: user with email %s", ErrNotFound, email)
		}
		return models.User{}, err
	}
	return user, nil
}

// Signup registers a new user and returns a fresh session token.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	_, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		return "", fmt.Errorf("%w: user with email %s", ErrConflict, email)
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    s.now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)",
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		// A concurrent signup can win between the lookup and the insert.
		if database.IsUniqueViolation(err) {
			return "", fmt.Errorf("%w: user with email %s", ErrConflict, email)
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateJWT(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Login verifies a user's credentials and returns a token, the profile and
// the user's notes, newest first.
func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, fmt.Errorf("%w: user not found", ErrInvalidCredentials)
		}
		return LoginResult{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: invalid password", ErrInvalidCredentials)
	}

	token, err := s.tokens.GenerateJWT(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to generate token: %w", err)
	}

	notes, err := s.notes.GetAllNotes(ctx, user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to load notes: %w", err)
	}

	return LoginResult{Token: token, User: user.Profile(), Notes: notes}, nil
}
