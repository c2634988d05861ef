// Package common defines shared constants and sentinel errors used across
// the gallery server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")

	// Service-level errors.
	ErrorValidation = errors.New("validation error")
	ErrorUpstream   = errors.New("upstream error")
	ErrorInternal   = errors.New("internal error")
	ErrorTooLarge   = errors.New("request body too large")

	// Auth errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)
