package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ghdash/internal/config"
	"github.com/ghdash/internal/constants"
	"github.com/ghdash/internal/github"
	"github.com/ghdash/internal/http"
	"github.com/ghdash/internal/logger"
	"github.com/ghdash/internal/provider"
	"github.com/ghdash/internal/session"
)

func main() {
	// Load .env file if it exists (optional, won't error if missing)
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg.Environment, cfg.LogJSON)
	if envErr != nil {
		slog.Debug("no .env file loaded", "error", envErr)
	}

	slog.Info("GitHub OAuth configured",
		"client_id", logger.Redact(cfg.Auth.GitHub.ClientID),
		"callback_url", cfg.Auth.GitHub.CallbackURL,
		"secure_cookies", cfg.Auth.SecureCookie)

	githubProvider, err := provider.NewGitHub(provider.Config{
		ClientID:     cfg.Auth.GitHub.ClientID,
		ClientSecret: cfg.Auth.GitHub.ClientSecret,
		CallbackURL:  cfg.Auth.GitHub.CallbackURL,
		Scopes:       constants.GitHubScopes,
		Timeout:      cfg.Auth.ProviderTimeout,
	}, provider.WithAPIBaseURL(cfg.GitHub.BaseURL))
	if err != nil {
		log.Fatalf("Failed to configure GitHub OAuth: %v", err)
	}

	secret := session.Secret(cfg.Auth.JWTSecret)
	issuer, err := session.NewIssuer(secret, cfg.Auth.SecureCookie)
	if err != nil {
		log.Fatalf("Failed to create session issuer: %v", err)
	}
	gate, err := session.NewGate(secret)
	if err != nil {
		log.Fatalf("Failed to create authentication gate: %v", err)
	}

	server := http.NewServer(cfg, http.Dependencies{
		Provider: githubProvider,
		Repos:    github.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Timeout),
		Issuer:   issuer,
		Gate:     gate,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
