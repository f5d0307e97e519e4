package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ghdash/internal/domain"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newErrorResponse(err error) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Code:    domain.Code(err),
		Message: domain.PublicMessage(err),
	}
}

// statusForError maps the domain error taxonomy onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidationFailed):
		return http.StatusBadRequest
	case domain.IsAuthError(err):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsUpstreamError(err):
		return upstreamStatus(err)
	default:
		return http.StatusInternalServerError
	}
}

func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUpstreamUnauthorized):
		// the stored GitHub token is no longer valid, so the client has to sign in again
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUpstreamRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// respondError logs err with its cause and writes the generic client-facing body
func respondError(c *gin.Context, msg string, err error) {
	status := statusForError(err)
	attrs := []any{
		"path", c.Request.URL.Path,
		"status", status,
		"code", domain.Code(err),
		"request_id", c.GetString(requestIDKey),
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), msg, attrs...)
	} else {
		slog.WarnContext(c.Request.Context(), msg, attrs...)
	}

	c.JSON(status, newErrorResponse(err))
}
