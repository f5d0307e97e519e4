// Package github is the upstream proxy to the GitHub REST API. Every call is
// made with the signed-in user's delegated token; nothing is cached and
// failed calls are not retried.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ghdash/internal/constants"
	"github.com/ghdash/internal/domain"
)

// Endpoint groups share a circuit
const (
	groupRepos  = "repos"
	groupSearch = "search"
	groupIssues = "issues"
	groupPulls  = "pulls"
)

// Client handles communication with the GitHub REST API
type Client struct {
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	circuitBreaker *CircuitBreaker
	limiter        *rate.Limiter
}

var _ domain.RepositoryService = (*Client)(nil)

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRateLimiter replaces the outbound rate limiter
func WithRateLimiter(l *rate.Limiter) Option {
	return func(client *Client) {
		client.limiter = l
	}
}

// WithCircuitBreaker replaces the circuit breaker
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(client *Client) {
		client.circuitBreaker = cb
	}
}

// NewClient creates a new GitHub API client
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		httpClient:     &http.Client{},
		timeout:        timeout,
		circuitBreaker: NewCircuitBreaker(),
		limiter:        rate.NewLimiter(constants.UpstreamRequestsPerSecond, constants.UpstreamBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListRepositories lists the repositories the user can access, most recently updated first
func (c *Client) ListRepositories(ctx context.Context, token string) ([]*domain.Repository, error) {
	q := url.Values{}
	q.Set("per_page", fmt.Sprint(constants.GitHubPageSize))
	q.Set("sort", "updated")

	var repos []ghRepo
	if err := c.get(ctx, groupRepos, token, "/user/repos", q, &repos); err != nil {
		return nil, err
	}
	return toRepositories(repos), nil
}

// SearchRepositories searches the user's own repositories by name, or all of GitHub
func (c *Client) SearchRepositories(ctx context.Context, token string, req domain.SearchRequest) ([]*domain.Repository, error) {
	query := strings.TrimSpace(req.Query)

	if req.Scope == domain.ScopeGlobal {
		if query == "" {
			return []*domain.Repository{}, nil
		}
		q := url.Values{}
		q.Set("q", query)
		q.Set("per_page", "30")

		var result ghSearchResult
		if err := c.get(ctx, groupSearch, token, "/search/repositories", q, &result); err != nil {
			return nil, err
		}
		return toRepositories(result.Items), nil
	}

	repos, err := c.ListRepositories(ctx, token)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return repos, nil
	}

	needle := strings.ToLower(query)
	matched := make([]*domain.Repository, 0, len(repos))
	for _, r := range repos {
		if strings.Contains(strings.ToLower(r.FullName), needle) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// GetRepository fetches one repository by its numeric id
func (c *Client) GetRepository(ctx context.Context, token string, repoID int64) (*domain.Repository, error) {
	var repo ghRepo
	if err := c.get(ctx, groupRepos, token, fmt.Sprintf("/repositories/%d", repoID), nil, &repo); err != nil {
		return nil, err
	}
	return repo.toDomain(), nil
}

// ListIssues lists open issues of a repository. GitHub returns pull requests
// from the issues endpoint too; they are dropped here.
func (c *Client) ListIssues(ctx context.Context, token string, ref domain.RepoRef) ([]*domain.Issue, error) {
	var items []ghIssue
	if err := c.get(ctx, groupIssues, token, repoPath(ref)+"/issues", listQuery(), &items); err != nil {
		return nil, err
	}

	issues := make([]*domain.Issue, 0, len(items))
	for _, it := range items {
		if it.PullRequest != nil {
			continue
		}
		issues = append(issues, it.toDomain())
	}
	return issues, nil
}

// ListPullRequests lists open pull requests of a repository
func (c *Client) ListPullRequests(ctx context.Context, token string, ref domain.RepoRef) ([]*domain.PullRequest, error) {
	var items []ghPull
	if err := c.get(ctx, groupPulls, token, repoPath(ref)+"/pulls", listQuery(), &items); err != nil {
		return nil, err
	}

	pulls := make([]*domain.PullRequest, 0, len(items))
	for _, it := range items {
		pulls = append(pulls, it.toDomain())
	}
	return pulls, nil
}

// CircuitStats exposes the breaker state of an endpoint group
func (c *Client) CircuitStats(group string) CircuitStats {
	return c.circuitBreaker.GetStats(group)
}

func repoPath(ref domain.RepoRef) string {
	if ref.ByID() {
		return fmt.Sprintf("/repositories/%d", ref.ID)
	}
	return "/repos/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Name)
}

// validationField names the caller input GitHub rejected with 422
func validationField(group string) string {
	switch group {
	case groupSearch:
		return "search query"
	case groupIssues:
		return "issues request"
	case groupPulls:
		return "pull requests request"
	default:
		return "repository request"
	}
}

func listQuery() url.Values {
	q := url.Values{}
	q.Set("state", "open")
	q.Set("per_page", fmt.Sprint(constants.GitHubPageSize))
	return q
}

// get performs an authenticated GET and decodes the JSON body into out.
// Only transport failures, 5xx and undecodable bodies count against the circuit.
func (c *Client) get(ctx context.Context, group, token, path string, query url.Values, out any) error {
	op := "GET " + path

	if c.circuitBreaker.IsOpen(group) {
		stats := c.circuitBreaker.GetStats(group)
		return domain.WrapUpstream(domain.ErrUpstreamUnavailable, op, &CircuitOpenError{Key: group, Stats: stats})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.WrapUpstream(domain.ErrUpstreamTimeout, op, err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", constants.GitHubAPIVersion)
	req.Header.Set("User-Agent", constants.SessionIssuer)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.circuitBreaker.RecordFailure(group)
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.WrapUpstream(domain.ErrUpstreamTimeout, op, err)
		}
		return domain.WrapUpstream(domain.ErrUpstreamUnavailable, op, err)
	}
	defer resp.Body.Close()

	slog.DebugContext(ctx, "github api call",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"rate_remaining", resp.Header.Get("X-RateLimit-Remaining"),
	)

	if err := c.checkStatus(group, op, resp); err != nil {
		return err
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, constants.GitHubMaxResponseSize)).Decode(out); err != nil {
		c.circuitBreaker.RecordFailure(group)
		return domain.WrapUpstream(domain.ErrUpstreamUnavailable, op, fmt.Errorf("failed to decode response: %w", err))
	}

	c.circuitBreaker.RecordSuccess(group)
	return nil
}

func (c *Client) checkStatus(group, op string, resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))

	switch {
	case resp.StatusCode >= 500:
		c.circuitBreaker.RecordFailure(group)
		return domain.WrapUpstream(domain.ErrUpstreamUnavailable, op, cause)
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return domain.WrapUpstream(domain.ErrUpstreamRateLimited, op, cause)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return domain.WrapUpstream(domain.ErrUpstreamUnauthorized, op, cause)
	case resp.StatusCode == http.StatusNotFound:
		return domain.WrapUpstream(domain.ErrNotFound, op, cause)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return domain.WrapValidationError(validationField(group), errors.New("rejected by GitHub"))
	default:
		return domain.WrapUpstream(domain.ErrUpstreamUnavailable, op, cause)
	}
}
