package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/ghdash/internal/apipaths"
	"github.com/ghdash/internal/config"
	"github.com/ghdash/internal/constants"
	"github.com/ghdash/internal/domain"
	"github.com/ghdash/internal/session"
)

// Server wraps the HTTP server
type Server struct {
	config   *config.Config
	engine   *gin.Engine
	provider domain.IdentityProvider
	repos    domain.RepositoryService
	issuer   *session.Issuer
	gate     *session.Gate
	limiter  *clientRateLimiter

	callbackPath string
}

// Dependencies are the collaborators the HTTP layer delegates to
type Dependencies struct {
	Provider domain.IdentityProvider
	Repos    domain.RepositoryService
	Issuer   *session.Issuer
	Gate     *session.Gate
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()

	// Client IPs feed the rate limiter, so forwarded headers are only
	// honoured from configured proxies
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		slog.Warn("invalid trusted proxies, ignoring forwarded headers", "error", err)
		_ = engine.SetTrustedProxies(nil)
	}

	// Middleware - order matters
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(loggerMiddleware())
	engine.Use(securityHeadersMiddleware())
	engine.Use(corsMiddleware(cfg))
	engine.Use(cacheControlMiddleware())
	engine.Use(jsonBodyLimitMiddleware(constants.MaxBodySize))

	engine.MaxMultipartMemory = constants.MaxBodySize

	server := &Server{
		config:   cfg,
		engine:   engine,
		provider: deps.Provider,
		repos:    deps.Repos,
		issuer:   deps.Issuer,
		gate:     deps.Gate,
		limiter:  newClientRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window),

		callbackPath: callbackPath(cfg.Auth.GitHub.CallbackURL),
	}

	server.setupRoutes()

	return server
}

// callbackPath returns the route GitHub redirects back to, taken from the
// configured callback URL.
func callbackPath(callbackURL string) string {
	u, err := url.Parse(callbackURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		if callbackURL != "" {
			slog.Warn("unusable callback URL, using default callback path",
				"callback_url", callbackURL, "path", apipaths.AuthCallback)
		}
		return apipaths.AuthCallback
	}
	return u.Path
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server and blocks until ctx is cancelled,
// then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.ServerAddress
	if addr == "" {
		addr = ":3000"
	}

	// Configure server with timeouts
	server := &http.Server{
		Addr:           addr,
		Handler:        s.engine,
		ReadTimeout:    constants.ServerReadTimeout,
		WriteTimeout:   constants.ServerWriteTimeout,
		IdleTimeout:    constants.ServerIdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "address", addr, "environment", s.config.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
