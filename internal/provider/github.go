// Package provider adapts GitHub's OAuth authorization-code flow into the
// normalized identity the session layer signs.
package provider

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/ghdash/internal/constants"
	"github.com/ghdash/internal/domain"
)

const maxProfileSize = 1 << 20

// Config holds what the adapter needs from process configuration
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	Scopes       []string
	Timeout      time.Duration
}

// Option customizes the GitHub adapter
type Option func(*GitHub)

// WithEndpoint points the OAuth exchange at a different authorization server
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(g *GitHub) {
		g.oauth.Endpoint = endpoint
	}
}

// WithAPIBaseURL sets the REST API root used for profile lookups
func WithAPIBaseURL(baseURL string) Option {
	return func(g *GitHub) {
		g.apiBaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets the client used for both the exchange and profile calls
func WithHTTPClient(client *http.Client) Option {
	return func(g *GitHub) {
		g.httpClient = client
	}
}

// GitHub is the identity provider adapter for github.com
type GitHub struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
	timeout    time.Duration
}

var _ domain.IdentityProvider = (*GitHub)(nil)

// NewGitHub creates the adapter
func NewGitHub(cfg Config, opts ...Option) (*GitHub, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("github oauth client id and secret are required")
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = constants.GitHubScopes
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	g := &GitHub{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     githuboauth.Endpoint,
			Scopes:       scopes,
		},
		apiBaseURL: "https://api.github.com",
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// BeginAuthorization returns the GitHub consent URL carrying state
func (g *GitHub) BeginAuthorization(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// CompleteAuthorization runs the callback half of the handshake
func (g *GitHub) CompleteAuthorization(ctx context.Context, params domain.CallbackParams) (*domain.Identity, error) {
	flow := g.Complete(ctx, params)
	return flow.Identity, flow.Err
}

// Complete drives a Flow from Pending to Exchanged or Failed
func (g *GitHub) Complete(ctx context.Context, params domain.CallbackParams) *Flow {
	flow := newFlow()

	if params.Error != "" {
		return flow.fail(StepConsent, fmt.Errorf("%s: %s", params.Error, params.ErrorDescription))
	}
	if params.ExpectedState == "" || subtle.ConstantTimeCompare([]byte(params.State), []byte(params.ExpectedState)) != 1 {
		return flow.fail(StepState, errors.New("state mismatch"))
	}
	if params.Code == "" {
		return flow.fail(StepExchange, errors.New("missing authorization code"))
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	token, err := g.oauth.Exchange(ctx, params.Code)
	if err != nil {
		return flow.fail(StepExchange, err)
	}
	if token.AccessToken == "" {
		return flow.fail(StepExchange, errors.New("provider returned no access token"))
	}

	profile, err := g.fetchProfile(ctx, token)
	if err != nil {
		return flow.fail(StepProfile, err)
	}

	identity := profile.Normalize(token.AccessToken)
	if err := identity.Validate(); err != nil {
		return flow.fail(StepIdentity, err)
	}
	return flow.exchanged(identity)
}

// githubUser is the subset of GET /user the dashboard uses
type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// githubEmail is one entry of GET /user/emails
type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHub) fetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	client := g.oauth.Client(ctx, token)

	var user githubUser
	if err := g.getJSON(ctx, client, "/user", &user); err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:          formatID(user.ID),
		Login:       user.Login,
		DisplayName: user.Name,
	}
	profile.addEmail(user.Email)
	profile.addPhoto(user.AvatarURL)

	// The emails list needs the user:email scope; without it the profile email is all we get
	var emails []githubEmail
	if err := g.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		slog.DebugContext(ctx, "github email lookup skipped", "login", user.Login, "error", err)
		return profile, nil
	}
	for _, e := range orderEmails(emails) {
		profile.addEmail(e)
	}
	return profile, nil
}

func (g *GitHub) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", constants.GitHubAPIVersion)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProfileSize)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// orderEmails puts the primary address first, then verified ones, then the rest
func orderEmails(emails []githubEmail) []string {
	ordered := make([]string, 0, len(emails))
	for _, pass := range []func(githubEmail) bool{
		func(e githubEmail) bool { return e.Primary && e.Verified },
		func(e githubEmail) bool { return !e.Primary && e.Verified },
		func(e githubEmail) bool { return !e.Verified },
	} {
		for _, e := range emails {
			if pass(e) {
				ordered = append(ordered, e.Email)
			}
		}
	}
	return ordered
}

func formatID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
