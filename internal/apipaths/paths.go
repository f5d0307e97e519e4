package apipaths

import "strconv"

// Single API surface paths. Used by routes and by tests.

const (
	Health = "/api/health"

	AuthLogin    = "/api/auth/login"
	AuthCallback = "/api/auth/callback"
	AuthMe       = "/api/auth/me"
	AuthSignOut  = "/api/auth/signout"

	Repos      = "/api/repo"
	NamedRepos = "/api/repos"
	Search     = "/api/search"
	RepoSearch = Repos + "/search"
)

func RepoByID(id int64) string   { return Repos + "/" + strconv.FormatInt(id, 10) }
func RepoIssues(id int64) string { return RepoByID(id) + "/issues" }
func RepoPulls(id int64) string  { return RepoByID(id) + "/pull" }

func NamedRepoIssues(owner, repo string) string {
	return NamedRepos + "/" + owner + "/" + repo + "/issues"
}

func NamedRepoPulls(owner, repo string) string {
	return NamedRepos + "/" + owner + "/" + repo + "/pull"
}

// OwnerRepoIssues and OwnerRepoPulls address a repository by owner/name under /api/repo
func OwnerRepoIssues(owner, repo string) string {
	return Repos + "/" + owner + "/" + repo + "/issues"
}

func OwnerRepoPulls(owner, repo string) string {
	return Repos + "/" + owner + "/" + repo + "/pull"
}
