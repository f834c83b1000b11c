package models

import "errors"

var (
	// ErrValidation wraps every rejected field check. Handlers answer it with
	// a client error and no body.
	ErrValidation = errors.New("validation failed")

	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrMessageNotFound = errors.New("message not found")

	// ErrUnknownAccount is returned when posted_by does not reference an account.
	ErrUnknownAccount = errors.New("account not found")
)
