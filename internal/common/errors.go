// Package common defines shared sentinel errors used across CarVault
// layers. Callers should use errors.Is to match these values; the HTTP
// boundary maps them to status codes.
package common

import "errors"

var (
	// Validation / input errors.
	ErrorValidation = errors.New("validation error")

	// Signup with an email that is already taken.
	ErrorConflict = errors.New("already exists")

	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Blob store failures during image upload.
	ErrorUpload = errors.New("upload error")

	// Auth errors (invalid or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
