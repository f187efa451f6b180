package common

import "errors"

// Callers should use errors.Is to match these values.
var (
	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Key derivation.
	ErrEmptySecret = errors.New("empty secret key")

	// Configuration errors.
	ErrUnknownMode      = errors.New("unknown guard mode")
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")
)
