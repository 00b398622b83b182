package service

import "errors"

// Common service errors
var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionNotFound is returned for unknown sessions and sessions owned by another agent
	ErrSessionNotFound = errors.New("session not found")

	// ErrDeleteFailed is returned when the backend refused to delete a document
	ErrDeleteFailed = errors.New("failed to delete document")
)
