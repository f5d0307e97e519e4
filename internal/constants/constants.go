package constants

import "time"

// Session cookie values
const (
	// SessionCookieName carries the signed session token
	SessionCookieName = "access_token"

	// SessionTTL is the fixed lifetime of a session token; there is no refresh
	SessionTTL = time.Hour

	// SessionIssuer is the JWT "iss" claim
	SessionIssuer = "ghdash"
)

// OAuth handshake values
const (
	// OAuthStateCookieName holds the anti-CSRF state between login and callback
	OAuthStateCookieName = "oauth_state"

	// OAuthStateTTL bounds how long a user may sit on the GitHub consent page
	OAuthStateTTL = 10 * time.Minute
)

// GitHub OAuth scopes: read the profile and primary email, act on repositories
var GitHubScopes = []string{"read:user", "user:email", "repo"}

// Frontend routes the callback redirects to
const (
	FrontendLandingPath = "/home"
	FrontendLoginPath   = "/"
	LoginErrorParam     = "auth_failed"
)

// Timeout constants
const (
	// ServerReadTimeout is the HTTP server read timeout
	ServerReadTimeout = 30 * time.Second

	// ServerWriteTimeout is the HTTP server write timeout
	ServerWriteTimeout = 60 * time.Second

	// ServerIdleTimeout is the HTTP server idle timeout
	ServerIdleTimeout = 120 * time.Second

	// ShutdownTimeout is how long in-flight requests get on SIGTERM
	ShutdownTimeout = 30 * time.Second
)

// Circuit breaker constants
const (
	// CircuitBreakerFailureThreshold is the number of consecutive failures before opening circuit
	CircuitBreakerFailureThreshold = 5

	// CircuitBreakerHalfOpenSuccesses is the number of successes needed to close circuit from half-open
	CircuitBreakerHalfOpenSuccesses = 2

	// CircuitBreakerOpenTimeout is how long an open circuit fails fast before probing again
	CircuitBreakerOpenTimeout = 60 * time.Second
)

// GitHub API constants
const (
	// GitHubAPIVersion is sent as X-GitHub-Api-Version
	GitHubAPIVersion = "2022-11-28"

	// GitHubPageSize is the per_page value for list calls
	GitHubPageSize = 100

	// GitHubMaxResponseSize caps how much of an upstream body is read
	GitHubMaxResponseSize = 4 << 20

	// UpstreamRequestsPerSecond and UpstreamBurst bound outbound GitHub calls from this process
	UpstreamRequestsPerSecond = 50
	UpstreamBurst             = 100
)

// MaxBodySize is the largest accepted JSON request body
const MaxBodySize = 1 << 20
