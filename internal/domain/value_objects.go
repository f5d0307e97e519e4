package domain

import (
	"fmt"
	"time"
)

// SearchScope selects where repository search looks
type SearchScope string

const (
	ScopeUser   SearchScope = "user"
	ScopeGlobal SearchScope = "global"
)

// ParseSearchScope converts the `type` query parameter into a scope.
// An empty value means the user's own repositories.
func ParseSearchScope(s string) (SearchScope, error) {
	switch SearchScope(s) {
	case "", ScopeUser:
		return ScopeUser, nil
	case ScopeGlobal:
		return ScopeGlobal, nil
	default:
		return "", fmt.Errorf("unknown search scope %q", s)
	}
}

// RepoRef addresses a repository either by numeric id or by owner/name
type RepoRef struct {
	ID    int64
	Owner string
	Name  string
}

// ByID reports whether the reference uses the numeric repository id
func (r RepoRef) ByID() bool {
	return r.ID > 0
}

func (r RepoRef) String() string {
	if r.ByID() {
		return fmt.Sprintf("repository %d", r.ID)
	}
	return r.Owner + "/" + r.Name
}

// Repository is the dashboard view of a GitHub repository
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Owner       string    `json:"owner"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Private     bool      `json:"private"`
	Language    string    `json:"language"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	OpenIssues  int       `json:"open_issues_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Issue is the dashboard view of a GitHub issue
type Issue struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	HTMLURL   string    `json:"html_url"`
	User      string    `json:"user"`
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PullRequest is the dashboard view of a GitHub pull request
type PullRequest struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	HTMLURL   string    `json:"html_url"`
	User      string    `json:"user"`
	Draft     bool      `json:"draft"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
