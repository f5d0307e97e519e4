package httputil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ghdash/internal/domain"
	"github.com/ghdash/internal/validation"
)

// ValidateAndGetRepoID validates and returns the numeric repository ID from URL parameter
func ValidateAndGetRepoID(c *gin.Context) (int64, error) {
	idParam := c.Param("id")
	if idParam == "" {
		return 0, domain.WrapValidationError("id", fmt.Errorf("repository id is required"))
	}

	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.WrapValidationError("id", fmt.Errorf("repository id must be a positive integer"))
	}

	return id, nil
}

// ValidateAndGetRepoRef validates and returns the owner/repo pair from URL parameters.
// Under /api/repo the owner shares the :id segment with numeric lookups.
func ValidateAndGetRepoRef(c *gin.Context) (domain.RepoRef, error) {
	owner := c.Param("owner")
	if owner == "" {
		owner = c.Param("id")
	}
	if err := validation.ValidateOwner(owner); err != nil {
		return domain.RepoRef{}, domain.WrapValidationError("owner", err)
	}

	name := c.Param("repo")
	if err := validation.ValidateRepoName(name); err != nil {
		return domain.RepoRef{}, domain.WrapValidationError("repo", err)
	}

	return domain.RepoRef{Owner: owner, Name: name}, nil
}

// GetSearchRequest reads q and type from the query string
func GetSearchRequest(c *gin.Context) (domain.SearchRequest, error) {
	query := strings.TrimSpace(c.Query("q"))
	if err := validation.ValidateSearchQuery(query); err != nil {
		return domain.SearchRequest{}, domain.WrapValidationError("q", err)
	}

	scope, err := domain.ParseSearchScope(c.Query("type"))
	if err != nil {
		return domain.SearchRequest{}, domain.WrapValidationError("type", err)
	}

	return domain.SearchRequest{Query: query, Scope: scope}, nil
}
