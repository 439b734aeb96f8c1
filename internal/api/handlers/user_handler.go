package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Adarsh-griffin/NotifyBack/internal/models"
	"github.com/Adarsh-griffin/NotifyBack/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for signup and login.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for signup requests. encoding/json
// matches keys case-insensitively, so "Username" is accepted as well.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type loginResponse struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    models.UserProfile `json:"user"`
	Notes   []models.Note      `json:"notes"`
}

// Signup handles new user registration.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.service.Signup(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConflict):
			writeMessage(w, http.StatusBadRequest, "User already exists")
		case errors.Is(err, services.ErrValidation):
			writeMessage(w, http.StatusBadRequest, "Email and password are required")
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
			writeMessage(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{Message: "User registered successfully", Token: token})
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			writeMessage(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Login failed")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   res.Token,
		User:    res.User,
		Notes:   res.Notes,
	})
}
