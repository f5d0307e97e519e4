package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultJWTSecret = "change-me-in-production-secret-key"
)

// ErrJWTSecretRequired is returned when running in production without an explicit signing secret
var ErrJWTSecretRequired = errors.New("JWT_SECRET is required in production")

// Config holds the application configuration
type Config struct {
	ServerAddress  string
	Environment    string
	LogJSON        bool
	FrontendURL    string
	StaticDir      string
	TrustedProxies []string // Empty means forwarded headers are ignored
	Auth           AuthConfig
	GitHub         GitHubAPIConfig
	CORS           CORSConfig
	RateLimit      RateLimitConfig
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret       string
	SecureCookie    bool
	GitHub          GitHubOAuthConfig
	ProviderTimeout time.Duration // Deadline for the OAuth code exchange and profile fetch
}

// GitHubOAuthConfig holds GitHub OAuth configuration
type GitHubOAuthConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// GitHubAPIConfig holds settings for the upstream GitHub REST API
type GitHubAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RateLimitConfig holds the inbound per-client rate limit
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	environment := getEnv("APP_ENV", EnvDevelopment)
	frontendURL := strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:5173"), "/")

	// JSON logs by default everywhere except development
	logJSON := environment != EnvDevelopment
	if v := os.Getenv("LOG_JSON"); v != "" {
		logJSON = v == "true"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		if environment == EnvProduction {
			return nil, ErrJWTSecretRequired
		}
		jwtSecret = defaultJWTSecret
	}

	return &Config{
		ServerAddress:  getEnv("SERVER_ADDRESS", ":3000"),
		Environment:    environment,
		LogJSON:        logJSON,
		FrontendURL:    frontendURL,
		StaticDir:      getEnv("STATIC_DIR", "./client/dist"),
		TrustedProxies: parseCommaSeparatedList(os.Getenv("TRUSTED_PROXIES")),
		Auth: AuthConfig{
			JWTSecret:       jwtSecret,
			SecureCookie:    environment == EnvProduction,
			ProviderTimeout: getDuration("PROVIDER_TIMEOUT", 10*time.Second),
			GitHub: GitHubOAuthConfig{
				ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
				ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
				CallbackURL:  getEnv("GITHUB_CALLBACK_URL", "http://localhost:3000/api/auth/callback"),
			},
		},
		GitHub: GitHubAPIConfig{
			BaseURL: strings.TrimSuffix(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
			Timeout: getDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseCommaSeparatedList(getEnv("CORS_ALLOWED_ORIGINS", frontendURL)),
		},
		RateLimit: RateLimitConfig{
			Requests: getInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		},
	}, nil
}

// parseCommaSeparatedList splits a comma-separated string into a slice
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return []string{}
	}

	items := strings.Split(s, ",")
	result := make([]string, 0, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}

	return result
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
