package domain

import (
	"errors"
	"fmt"
)

// ============================================================================
// Domain Error Types
// ============================================================================

// DomainError represents a domain-specific error with a code and message.
// Message is safe to show to clients; Cause is for logs only.
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code, so wrapped variants
// still satisfy errors.Is(err, ErrUnauthenticated) and friends.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ============================================================================
// Common Domain Errors
// ============================================================================

var (
	// Authentication Errors
	ErrAuthExchange = &DomainError{
		Code:    "AUTH_EXCHANGE_FAILED",
		Message: "GitHub sign-in failed",
	}
	ErrInvalidIdentity = &DomainError{
		Code:    "INVALID_IDENTITY",
		Message: "identity is incomplete",
	}
	ErrUnauthenticated = &DomainError{
		Code:    "UNAUTHENTICATED",
		Message: "Authentication required",
	}

	// Upstream Errors
	ErrUpstreamUnavailable = &DomainError{
		Code:    "UPSTREAM_UNAVAILABLE",
		Message: "GitHub is unavailable",
	}
	ErrUpstreamTimeout = &DomainError{
		Code:    "UPSTREAM_TIMEOUT",
		Message: "GitHub did not respond in time",
	}
	ErrUpstreamUnauthorized = &DomainError{
		Code:    "UPSTREAM_UNAUTHORIZED",
		Message: "GitHub rejected the access token",
	}
	ErrUpstreamRateLimited = &DomainError{
		Code:    "UPSTREAM_RATE_LIMITED",
		Message: "GitHub rate limit exceeded",
	}
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}

	// Validation Errors
	ErrValidationFailed = &DomainError{
		Code:    "VALIDATION_FAILED",
		Message: "validation failed",
	}
)

// ============================================================================
// Error Wrapping Helpers
// ============================================================================

// WrapAuthExchange wraps a failure in one step of the OAuth handshake
func WrapAuthExchange(step string, cause error) error {
	return &DomainError{
		Code:    ErrAuthExchange.Code,
		Message: ErrAuthExchange.Message,
		Cause:   fmt.Errorf("%s: %w", step, cause),
	}
}

// WrapInvalidIdentity reports the required identity field that is missing
func WrapInvalidIdentity(field string) error {
	return &DomainError{
		Code:    ErrInvalidIdentity.Code,
		Message: ErrInvalidIdentity.Message,
		Cause:   fmt.Errorf("missing %s", field),
	}
}

// WrapUnauthenticated keeps the reason for logs while the client only sees the generic message
func WrapUnauthenticated(cause error) error {
	return &DomainError{
		Code:    ErrUnauthenticated.Code,
		Message: ErrUnauthenticated.Message,
		Cause:   cause,
	}
}

// WrapUpstream wraps an upstream failure under the given sentinel
func WrapUpstream(sentinel *DomainError, operation string, cause error) error {
	return &DomainError{
		Code:    sentinel.Code,
		Message: sentinel.Message,
		Cause:   fmt.Errorf("%s: %w", operation, cause),
	}
}

// WrapValidationError wraps an input validation failure for a named field.
// The cause text goes into Message; no Cause is kept.
func WrapValidationError(field string, cause error) error {
	msg := fmt.Sprintf("validation failed for %s", field)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &DomainError{
		Code:    ErrValidationFailed.Code,
		Message: msg,
	}
}

// ============================================================================
// Error Checking Helpers
// ============================================================================

// PublicMessage returns the client-facing message for an error.
// Causes are never included; unknown errors get a generic message.
func PublicMessage(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "Internal server error"
}

// Code returns the machine-readable code for an error
func Code(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "INTERNAL_ERROR"
}

// IsAuthError checks if an error belongs to the authentication taxonomy
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthExchange) ||
		errors.Is(err, ErrInvalidIdentity) ||
		errors.Is(err, ErrUnauthenticated)
}

// IsUpstreamError checks if an error came from the GitHub API boundary
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrUpstreamTimeout) ||
		errors.Is(err, ErrUpstreamUnauthorized) ||
		errors.Is(err, ErrUpstreamRateLimited)
}
