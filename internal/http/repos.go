package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ghdash/internal/domain"
	"github.com/ghdash/internal/httputil"
)

// accessToken returns the delegated GitHub token of the signed-in user
func accessToken(c *gin.Context) (string, bool) {
	claims, ok := getClaims(c)
	if !ok || claims.AccessToken == "" {
		return "", false
	}
	return claims.AccessToken, true
}

// withToken runs fn with the caller's delegated token, or answers 401
func withToken(c *gin.Context, fn func(token string)) {
	token, ok := accessToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse(domain.ErrUnauthenticated))
		return
	}
	fn(token)
}

// listRepos lists the signed-in user's repositories
func (s *Server) listRepos(c *gin.Context) {
	withToken(c, func(token string) {
		repos, err := s.repos.ListRepositories(c.Request.Context(), token)
		if err != nil {
			respondError(c, "failed to list repositories", err)
			return
		}
		c.JSON(http.StatusOK, repos)
	})
}

// searchRepos searches the user's repositories or all of GitHub
func (s *Server) searchRepos(c *gin.Context) {
	req, err := httputil.GetSearchRequest(c)
	if err != nil {
		respondError(c, "invalid search request", err)
		return
	}

	withToken(c, func(token string) {
		slog.DebugContext(c.Request.Context(), "searching repositories",
			"scope", req.Scope,
			"query_length", len(req.Query))

		repos, err := s.repos.SearchRepositories(c.Request.Context(), token, req)
		if err != nil {
			respondError(c, "failed to search repositories", err)
			return
		}
		c.JSON(http.StatusOK, repos)
	})
}

// getRepo fetches a repository by its numeric id
func (s *Server) getRepo(c *gin.Context) {
	id, err := httputil.ValidateAndGetRepoID(c)
	if err != nil {
		respondError(c, "invalid repository id", err)
		return
	}

	withToken(c, func(token string) {
		repo, err := s.repos.GetRepository(c.Request.Context(), token, id)
		if err != nil {
			respondError(c, "failed to get repository", err)
			return
		}
		c.JSON(http.StatusOK, repo)
	})
}

// listRepoIssues lists open issues of a repository addressed by id
func (s *Server) listRepoIssues(c *gin.Context) {
	id, err := httputil.ValidateAndGetRepoID(c)
	if err != nil {
		respondError(c, "invalid repository id", err)
		return
	}
	s.listIssues(c, domain.RepoRef{ID: id})
}

// listRepoPulls lists open pull requests of a repository addressed by id
func (s *Server) listRepoPulls(c *gin.Context) {
	id, err := httputil.ValidateAndGetRepoID(c)
	if err != nil {
		respondError(c, "invalid repository id", err)
		return
	}
	s.listPulls(c, domain.RepoRef{ID: id})
}

// listNamedRepoIssues lists open issues of any repository addressed by owner/name
func (s *Server) listNamedRepoIssues(c *gin.Context) {
	ref, err := httputil.ValidateAndGetRepoRef(c)
	if err != nil {
		respondError(c, "invalid repository", err)
		return
	}
	s.listIssues(c, ref)
}

// listNamedRepoPulls lists open pull requests of any repository addressed by owner/name
func (s *Server) listNamedRepoPulls(c *gin.Context) {
	ref, err := httputil.ValidateAndGetRepoRef(c)
	if err != nil {
		respondError(c, "invalid repository", err)
		return
	}
	s.listPulls(c, ref)
}

func (s *Server) listIssues(c *gin.Context, ref domain.RepoRef) {
	withToken(c, func(token string) {
		issues, err := s.repos.ListIssues(c.Request.Context(), token, ref)
		if err != nil {
			respondError(c, "failed to list issues", err)
			return
		}
		c.JSON(http.StatusOK, issues)
	})
}

func (s *Server) listPulls(c *gin.Context, ref domain.RepoRef) {
	withToken(c, func(token string) {
		pulls, err := s.repos.ListPullRequests(c.Request.Context(), token, ref)
		if err != nil {
			respondError(c, "failed to list pull requests", err)
			return
		}
		c.JSON(http.StatusOK, pulls)
	})
}
