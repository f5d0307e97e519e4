package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxOwnerLength    = 39
	maxRepoNameLength = 100
	// MaxSearchQueryLength mirrors the GitHub search API limit
	MaxSearchQueryLength = 256
)

var (
	// ownerRegex allows alphanumerics separated by single hyphens
	ownerRegex = regexp.MustCompile(`^[a-zA-Z0-9](?:-?[a-zA-Z0-9])*$`)

	// repoNameRegex allows alphanumerics, dots, hyphens, and underscores
	repoNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

// Reserved names that GitHub refuses as repository names
var reservedRepoNames = map[string]bool{
	".":  true,
	"..": true,
}

// ValidateOwner validates a GitHub user or organization login
func ValidateOwner(owner string) error {
	if len(owner) < 1 {
		return errors.New("owner cannot be empty")
	}
	if len(owner) > maxOwnerLength {
		return errors.New("owner must be 39 characters or less")
	}

	if !ownerRegex.MatchString(owner) {
		return errors.New("owner must contain only letters, numbers, and single hyphens, and cannot start or end with a hyphen")
	}

	return nil
}

// ValidateRepoName validates a repository name to prevent path traversal into other API routes
func ValidateRepoName(name string) error {
	if len(name) < 1 {
		return errors.New("repository name cannot be empty")
	}
	if len(name) > maxRepoNameLength {
		return errors.New("repository name must be 100 characters or less")
	}

	if reservedRepoNames[name] {
		return errors.New("repository name is reserved")
	}

	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return errors.New("repository name cannot contain slashes")
	}

	if !repoNameRegex.MatchString(name) {
		return errors.New("repository name must contain only letters, numbers, dots, hyphens, and underscores")
	}

	return nil
}

// ValidateSearchQuery validates a repository search term. Empty is allowed.
func ValidateSearchQuery(query string) error {
	if !utf8.ValidString(query) {
		return errors.New("search query must be valid UTF-8")
	}
	if utf8.RuneCountInString(query) > MaxSearchQueryLength {
		return errors.New("search query must be 256 characters or less")
	}
	if strings.ContainsAny(query, "\x00\r\n") {
		return errors.New("search query cannot contain control characters")
	}

	return nil
}
