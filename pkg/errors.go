// Package pkg holds the utilities shared across layers.
// This file defines the domain-level errors.
//
// Errors are plain sentinel values, wrapped with detail where useful and matched
// with errors.Is rather than by comparing strings:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import (
	"errors"
	"fmt"
)

// Domain-level errors.
// Services return them (usually wrapped), the handler layer maps them to HTTP
// status codes in mapErrorToStatus.
var (
	// ErrValidation covers missing or malformed request input.
	ErrValidation = errors.New("validation error")
	// ErrInvalidFormat is the "format" sub-kind of ErrValidation, used for a
	// malformed contact identifier. errors.Is(ErrInvalidFormat, ErrValidation) holds.
	ErrInvalidFormat = fmt.Errorf("%w: invalid format", ErrValidation)
	// ErrDuplicateContact is returned when the email is already registered.
	ErrDuplicateContact = errors.New("contact already registered")
	// ErrAuthentication covers bad credentials, unknown or expired tokens and
	// malformed bearer headers alike. Never wrap it with detail.
	ErrAuthentication = errors.New("authentication failed")
	// ErrAuthorization means the identity is valid but its tier is too low.
	ErrAuthorization = errors.New("insufficient privileges")
	ErrNotFound      = errors.New("not found")
	// ErrUpstream wraps every catalog API failure.
	ErrUpstream = errors.New("upstream error")
)
