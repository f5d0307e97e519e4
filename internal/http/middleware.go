package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ghdash/internal/config"
	"github.com/ghdash/internal/domain"
	"github.com/ghdash/internal/session"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// contentSecurityPolicy lets the SPA load GitHub avatars and nothing else from off-site
const contentSecurityPolicy = "default-src 'self'; " +
	"img-src 'self' data: https://avatars.githubusercontent.com; " +
	"script-src 'self'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"connect-src 'self'; " +
	"frame-ancestors 'none'"

// securityHeadersMiddleware adds security-related HTTP headers
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		// Prevent clickjacking
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Writer.Header().Set("Content-Security-Policy", contentSecurityPolicy)
		c.Writer.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		// HSTS (only if using HTTPS)
		if c.Request.TLS != nil {
			c.Writer.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// corsMiddleware adds CORS headers with configurable origin
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowedOrigins := make(map[string]bool, len(cfg.CORS.AllowedOrigins))
	for _, origin := range cfg.CORS.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && allowedOrigins[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// cacheControlMiddleware sets appropriate cache headers based on path
func cacheControlMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if strings.HasPrefix(path, "/api/") {
			// API responses carry per-user data
			c.Writer.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Writer.Header().Set("Pragma", "no-cache")
			c.Writer.Header().Set("Expires", "0")
		} else if strings.HasPrefix(path, "/assets/") {
			// Vite emits content-hashed asset names
			c.Writer.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}

		c.Next()
	}
}

// jsonBodyLimitMiddleware limits the size of JSON request bodies to prevent DoS
func jsonBodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodOptions {
			contentType := c.GetHeader("Content-Type")
			if strings.Contains(contentType, "application/json") {
				if c.Request.ContentLength > maxBytes {
					c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
						Code:    "REQUEST_TOO_LARGE",
						Message: "Request body too large",
					})
					return
				}
				c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
			}
		}
		c.Next()
	}
}

// requestIDMiddleware tags every request with an id, reusing a well-formed inbound one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// loggerMiddleware logs HTTP requests once they complete
func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		}

		switch {
		case status >= http.StatusInternalServerError:
			slog.ErrorContext(c.Request.Context(), "HTTP request", attrs...)
		case status >= http.StatusBadRequest:
			slog.WarnContext(c.Request.Context(), "HTTP request", attrs...)
		default:
			slog.InfoContext(c.Request.Context(), "HTTP request", attrs...)
		}
	}
}

// rateLimitMiddleware throttles each client IP with its own token bucket
func rateLimitMiddleware(limiter *clientRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", limiter.retryAfter())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}

// requireAuth lets a request through only with a valid session token.
// Every failure gets the same 401 body; the reason is only logged.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.gate.Authenticate(c.Request)
		if err != nil {
			slog.DebugContext(c.Request.Context(), "authentication failed",
				"path", c.Request.URL.Path,
				"request_id", c.GetString(requestIDKey),
				"error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, newErrorResponse(domain.ErrUnauthenticated))
			return
		}

		c.Set(claimsKey, claims)
		c.Request = c.Request.WithContext(session.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}
