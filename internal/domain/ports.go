package domain

import (
	"context"
)

// ============================================================================
// Primary Ports (Application Use Cases)
// ============================================================================

// IdentityProvider defines the port for the external OAuth provider
type IdentityProvider interface {
	// BeginAuthorization returns the provider URL the browser is sent to
	BeginAuthorization(state string) string
	// CompleteAuthorization exchanges the callback grant for a normalized identity
	CompleteAuthorization(ctx context.Context, params CallbackParams) (*Identity, error)
}

// RepositoryService defines the port for the upstream GitHub API proxy.
// Every call runs with the caller's delegated access token.
type RepositoryService interface {
	ListRepositories(ctx context.Context, token string) ([]*Repository, error)
	SearchRepositories(ctx context.Context, token string, req SearchRequest) ([]*Repository, error)
	GetRepository(ctx context.Context, token string, repoID int64) (*Repository, error)
	ListIssues(ctx context.Context, token string, ref RepoRef) ([]*Issue, error)
	ListPullRequests(ctx context.Context, token string, ref RepoRef) ([]*PullRequest, error)
}

// ============================================================================
// Request Types
// ============================================================================

// CallbackParams carries the query parameters of the provider callback,
// plus the state value remembered from BeginAuthorization
type CallbackParams struct {
	Code             string
	State            string
	ExpectedState    string
	Error            string
	ErrorDescription string
}

// SearchRequest is a repository search scoped to the user or to all of GitHub
type SearchRequest struct {
	Query string
	Scope SearchScope
}
