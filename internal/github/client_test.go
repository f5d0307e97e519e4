package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/ghdash/internal/domain"
)

const reposJSON = `[
  {"id": 1, "name": "hello-world", "full_name": "octocat/hello-world", "owner": {"login": "octocat"},
   "description": null, "html_url": "https://github.com/octocat/hello-world", "private": false,
   "language": "Go", "stargazers_count": 80, "forks_count": 9, "open_issues_count": 2,
   "updated_at": "2026-01-01T00:00:00Z"},
  {"id": 2, "name": "Spoon-Knife", "full_name": "octocat/Spoon-Knife", "owner": {"login": "octocat"},
   "html_url": "https://github.com/octocat/Spoon-Knife", "private": true, "updated_at": "2026-02-01T00:00:00Z"}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithHTTPClient(srv.Client()), WithRateLimiter(rate.NewLimiter(rate.Inf, 1))}, opts...)
	return NewClient(srv.URL, time.Second, opts...), srv
}

func TestListRepositories(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, reposJSON)
	})

	repos, err := client.ListRepositories(context.Background(), "tok-abc")
	if err != nil {
		t.Fatalf("ListRepositories() error = %v", err)
	}

	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q, want Bearer tok-abc", gotAuth)
	}
	if gotPath != "/user/repos" {
		t.Errorf("path = %q, want /user/repos", gotPath)
	}
	if !strings.Contains(gotQuery, "per_page=100") || !strings.Contains(gotQuery, "sort=updated") {
		t.Errorf("query = %q", gotQuery)
	}
	if len(repos) != 2 {
		t.Fatalf("got %d repos, want 2", len(repos))
	}
	r := repos[0]
	if r.ID != 1 || r.Name != "hello-world" || r.FullName != "octocat/hello-world" || r.Owner != "octocat" {
		t.Errorf("unexpected repo %+v", r)
	}
	if r.Description != "" || r.Language != "Go" || r.Stars != 80 || r.Forks != 9 || r.OpenIssues != 2 {
		t.Errorf("unexpected repo details %+v", r)
	}
	if !repos[1].Private {
		t.Error("expected second repo to be private")
	}
}

func TestSearchRepositories(t *testing.T) {
	tests := []struct {
		name      string
		req       domain.SearchRequest
		wantPath  string
		wantQuery string
		wantNames []string
	}{
		{
			name:      "user scope filters by name",
			req:       domain.SearchRequest{Query: "spoon", Scope: domain.ScopeUser},
			wantPath:  "/user/repos",
			wantNames: []string{"Spoon-Knife"},
		},
		{
			name:      "user scope with empty query returns everything",
			req:       domain.SearchRequest{Query: "  ", Scope: domain.ScopeUser},
			wantPath:  "/user/repos",
			wantNames: []string{"hello-world", "Spoon-Knife"},
		},
		{
			name:      "global scope uses search api",
			req:       domain.SearchRequest{Query: "gin framework", Scope: domain.ScopeGlobal},
			wantPath:  "/search/repositories",
			wantQuery: "gin framework",
			wantNames: []string{"hello-world", "Spoon-Knife"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotQ string
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQ = r.URL.Query().Get("q")
				if r.URL.Path == "/search/repositories" {
					fmt.Fprintf(w, `{"total_count": 2, "items": %s}`, reposJSON)
					return
				}
				fmt.Fprint(w, reposJSON)
			})

			repos, err := client.SearchRepositories(context.Background(), "tok", tt.req)
			if err != nil {
				t.Fatalf("SearchRepositories() error = %v", err)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}
			if gotQ != tt.wantQuery {
				t.Errorf("q = %q, want %q", gotQ, tt.wantQuery)
			}
			var names []string
			for _, r := range repos {
				names = append(names, r.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.wantNames, ",") {
				t.Errorf("names = %v, want %v", names, tt.wantNames)
			}
		})
	}
}

func TestSearchGlobalEmptyQuerySkipsUpstream(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	repos, err := client.SearchRepositories(context.Background(), "tok", domain.SearchRequest{Scope: domain.ScopeGlobal})
	if err != nil {
		t.Fatalf("SearchRepositories() error = %v", err)
	}
	if len(repos) != 0 || calls.Load() != 0 {
		t.Errorf("expected no results and no upstream call, got %d repos, %d calls", len(repos), calls.Load())
	}
}

func TestGetRepository(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repositories/1296269" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"id": 1296269, "name": "Hello-World", "full_name": "octocat/Hello-World", "owner": {"login": "octocat"}}`)
	})

	repo, err := client.GetRepository(context.Background(), "tok", 1296269)
	if err != nil {
		t.Fatalf("GetRepository() error = %v", err)
	}
	if repo.ID != 1296269 || repo.Owner != "octocat" {
		t.Errorf("unexpected repo %+v", repo)
	}

	if _, err := client.GetRepository(context.Background(), "tok", 7); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetRepository(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListIssuesDropsPullRequests(t *testing.T) {
	tests := []struct {
		name     string
		ref      domain.RepoRef
		wantPath string
	}{
		{"by id", domain.RepoRef{ID: 1296269}, "/repositories/1296269/issues"},
		{"by name", domain.RepoRef{Owner: "octocat", Name: "Hello-World"}, "/repos/octocat/Hello-World/issues"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotState string
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotState = r.URL.Query().Get("state")
				fmt.Fprint(w, `[
				  {"id": 10, "number": 1, "title": "Found a bug", "state": "open", "user": {"login": "octocat"}, "comments": 3},
				  {"id": 11, "number": 2, "title": "Add feature", "state": "open", "user": {"login": "hubot"}, "pull_request": {"url": "x"}}
				]`)
			})

			issues, err := client.ListIssues(context.Background(), "tok", tt.ref)
			if err != nil {
				t.Fatalf("ListIssues() error = %v", err)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}
			if gotState != "open" {
				t.Errorf("state = %q, want open", gotState)
			}
			if len(issues) != 1 || issues[0].Title != "Found a bug" || issues[0].User != "octocat" || issues[0].Comments != 3 {
				t.Errorf("unexpected issues %+v", issues)
			}
		})
	}
}

func TestListPullRequests(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `[{"id": 20, "number": 5, "title": "Fix typo", "state": "open", "user": {"login": "hubot"}, "draft": true}]`)
	})

	pulls, err := client.ListPullRequests(context.Background(), "tok", domain.RepoRef{Owner: "octo cat", Name: "repo"})
	if err != nil {
		t.Fatalf("ListPullRequests() error = %v", err)
	}
	if gotPath != "/repos/octo cat/repo/pulls" {
		t.Errorf("path = %q", gotPath)
	}
	if len(pulls) != 1 || pulls[0].Number != 5 || !pulls[0].Draft || pulls[0].User != "hubot" {
		t.Errorf("unexpected pulls %+v", pulls)
	}
}

func TestUpstreamErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		headers map[string]string
		want    *domain.DomainError
	}{
		{"server error", http.StatusInternalServerError, nil, domain.ErrUpstreamUnavailable},
		{"bad gateway", http.StatusBadGateway, nil, domain.ErrUpstreamUnavailable},
		{"revoked token", http.StatusUnauthorized, nil, domain.ErrUpstreamUnauthorized},
		{"forbidden", http.StatusForbidden, nil, domain.ErrUpstreamUnauthorized},
		{"primary rate limit", http.StatusForbidden, map[string]string{"X-RateLimit-Remaining": "0"}, domain.ErrUpstreamRateLimited},
		{"secondary rate limit", http.StatusTooManyRequests, nil, domain.ErrUpstreamRateLimited},
		{"not found", http.StatusNotFound, nil, domain.ErrNotFound},
		{"invalid search", http.StatusUnprocessableEntity, nil, domain.ErrValidationFailed},
		{"teapot", http.StatusTeapot, nil, domain.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message": "nope"}`)
			})

			_, err := client.ListRepositories(context.Background(), "tok")
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpstreamTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, 50*time.Millisecond, WithHTTPClient(srv.Client()))
	_, err := client.ListRepositories(context.Background(), "tok")
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Errorf("error = %v, want ErrUpstreamTimeout", err)
	}
}

func TestUpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second)
	_, err := client.ListRepositories(context.Background(), "tok")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestMalformedBodyIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{not json`)
	})

	_, err := client.ListRepositories(context.Background(), "tok")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestCircuitOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < 5; i++ {
		if _, err := client.ListRepositories(context.Background(), "tok"); !errors.Is(err, domain.ErrUpstreamUnavailable) {
			t.Fatalf("call %d: error = %v", i, err)
		}
	}
	if got := client.CircuitStats(groupRepos).State; got != StateOpen {
		t.Fatalf("circuit state = %s, want open", got)
	}

	_, err := client.ListRepositories(context.Background(), "tok")
	var open *CircuitOpenError
	if !errors.As(err, &open) {
		t.Fatalf("expected CircuitOpenError, got %v", err)
	}
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("open circuit should surface as ErrUpstreamUnavailable, got %v", err)
	}
	if calls.Load() != 5 {
		t.Errorf("upstream called %d times, want 5 (open circuit must fail fast)", calls.Load())
	}

	// Other endpoint groups are unaffected
	if got := client.CircuitStats(groupPulls).State; got != StateClosed {
		t.Errorf("pulls circuit = %s, want closed", got)
	}
}

func TestNotFoundDoesNotTripCircuit(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	for i := 0; i < 10; i++ {
		_, _ = client.GetRepository(context.Background(), "tok", 1)
	}
	if got := client.CircuitStats(groupRepos).State; got != StateClosed {
		t.Errorf("circuit state = %s, want closed", got)
	}
}

func TestUnprocessableNamesTheRejectedInput(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "Validation Failed"}`)
	})
	ctx := context.Background()
	ref := domain.RepoRef{Owner: "octocat", Name: "hello-world"}

	tests := []struct {
		name      string
		call      func() error
		wantField string
	}{
		{"search", func() error {
			_, err := client.SearchRepositories(ctx, "tok", domain.SearchRequest{Query: "x", Scope: domain.ScopeGlobal})
			return err
		}, "search query"},
		{"issues", func() error {
			_, err := client.ListIssues(ctx, "tok", ref)
			return err
		}, "issues request"},
		{"pulls", func() error {
			_, err := client.ListPullRequests(ctx, "tok", ref)
			return err
		}, "pull requests request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, domain.ErrValidationFailed) {
				t.Fatalf("error = %v, want ErrValidationFailed", err)
			}
			msg := domain.PublicMessage(err)
			if !strings.Contains(msg, tt.wantField) {
				t.Errorf("message = %q, want it to name %q", msg, tt.wantField)
			}
			if tt.wantField != "search query" && strings.Contains(msg, "search query") {
				t.Errorf("message = %q blames the search query", msg)
			}
		})
	}
}
