package services

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP
// statuses with errors.Is; wrapped messages carry the details.
var (
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
)
