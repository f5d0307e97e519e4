package validation

import (
	"strings"
	"testing"
)

func TestValidateOwner(t *testing.T) {
	tests := []struct {
		name      string
		owner     string
		shouldErr bool
	}{
		// Valid owners
		{"valid simple", "octocat", false},
		{"valid with hyphen", "octo-cat", false},
		{"valid with numbers", "user123", false},
		{"valid single char", "a", false},
		{"valid max length", strings.Repeat("a", 39), false},

		// Invalid owners
		{"empty", "", true},
		{"too long", strings.Repeat("a", 40), true},
		{"starts with hyphen", "-octocat", true},
		{"ends with hyphen", "octocat-", true},
		{"double hyphen", "octo--cat", true},
		{"underscore", "octo_cat", true},
		{"dot", "octo.cat", true},
		{"slash", "octo/cat", true},
		{"path traversal", "..", true},
		{"spaces", "octo cat", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOwner(tt.owner)
			if tt.shouldErr && err == nil {
				t.Errorf("expected error but got none for owner: %s", tt.owner)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("unexpected error for valid owner %s: %v", tt.owner, err)
			}
		})
	}
}

func TestValidateRepoName(t *testing.T) {
	tests := []struct {
		name      string
		repoName  string
		shouldErr bool
	}{
		// Valid names
		{"valid simple", "hello-world", false},
		{"valid with dot", "octocat.github.io", false},
		{"valid with underscore", "my_repo", false},
		{"valid leading dot", ".github", false},
		{"valid mixed case", "Spoon-Knife", false},

		// Invalid names
		{"empty", "", true},
		{"too long", strings.Repeat("a", 101), true},
		{"reserved dot", ".", true},
		{"reserved double dot", "..", true},
		{"slash forward", "repo/issues", true},
		{"slash backward", "repo\\issues", true},
		{"special characters", "repo@name", true},
		{"spaces", "my repo", true},
		{"query injection", "repo?state=all", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepoName(tt.repoName)
			if tt.shouldErr && err == nil {
				t.Errorf("expected error but got none for repo name: %s", tt.repoName)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("unexpected error for valid repo name %s: %v", tt.repoName, err)
			}
		})
	}
}

func TestValidateSearchQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		shouldErr bool
	}{
		{"empty", "", false},
		{"simple", "dashboard", false},
		{"qualifiers", "language:go stars:>100", false},
		{"unicode", "日本語", false},
		{"max length", strings.Repeat("a", 256), false},
		{"max length multibyte", strings.Repeat("é", 256), false},

		{"too long", strings.Repeat("a", 257), true},
		{"null byte", "dash\x00board", true},
		{"newline", "dash\nboard", true},
		{"invalid utf8", "\xff\xfe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchQuery(tt.query)
			if tt.shouldErr && err == nil {
				t.Errorf("expected error but got none for query: %q", tt.query)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("unexpected error for valid query %q: %v", tt.query, err)
			}
		})
	}
}
