package github

import (
	"encoding/json"
	"time"

	"github.com/ghdash/internal/domain"
)

type ghUser struct {
	Login string `json:"login"`
}

type ghRepo struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Owner           ghUser    `json:"owner"`
	Description     string    `json:"description"`
	HTMLURL         string    `json:"html_url"`
	Private         bool      `json:"private"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ghSearchResult struct {
	TotalCount int      `json:"total_count"`
	Items      []ghRepo `json:"items"`
}

type ghIssue struct {
	ID          int64            `json:"id"`
	Number      int              `json:"number"`
	Title       string           `json:"title"`
	State       string           `json:"state"`
	HTMLURL     string           `json:"html_url"`
	User        ghUser           `json:"user"`
	Comments    int              `json:"comments"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	PullRequest *json.RawMessage `json:"pull_request"`
}

type ghPull struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	HTMLURL   string    `json:"html_url"`
	User      ghUser    `json:"user"`
	Draft     bool      `json:"draft"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r ghRepo) toDomain() *domain.Repository {
	return &domain.Repository{
		ID:          r.ID,
		Name:        r.Name,
		FullName:    r.FullName,
		Owner:       r.Owner.Login,
		Description: r.Description,
		HTMLURL:     r.HTMLURL,
		Private:     r.Private,
		Language:    r.Language,
		Stars:       r.StargazersCount,
		Forks:       r.ForksCount,
		OpenIssues:  r.OpenIssuesCount,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRepositories(items []ghRepo) []*domain.Repository {
	repos := make([]*domain.Repository, 0, len(items))
	for _, it := range items {
		repos = append(repos, it.toDomain())
	}
	return repos
}

func (i ghIssue) toDomain() *domain.Issue {
	return &domain.Issue{
		ID:        i.ID,
		Number:    i.Number,
		Title:     i.Title,
		State:     i.State,
		HTMLURL:   i.HTMLURL,
		User:      i.User.Login,
		Comments:  i.Comments,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func (p ghPull) toDomain() *domain.PullRequest {
	return &domain.PullRequest{
		ID:        p.ID,
		Number:    p.Number,
		Title:     p.Title,
		State:     p.State,
		HTMLURL:   p.HTMLURL,
		User:      p.User.Login,
		Draft:     p.Draft,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
