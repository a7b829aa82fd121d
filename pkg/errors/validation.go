package errors

import (
	"strconv"
	"strings"
	"unicode"
)

// ValidateFullName validates a repository identifier as accepted by the
// provider adapters. Two forms are valid:
//   - a positive numeric ID, e.g. "49558751"
//   - a slash separated path with at least two segments, e.g. "owner/repo"
//     or "group/subgroup/repo" (GitLab namespaces nest)
//
// Segments may not be empty and may not contain whitespace or control
// characters.
func ValidateFullName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRepo, "repository name cannot be empty")
	}
	if id, err := strconv.ParseInt(name, 10, 64); err == nil {
		if id <= 0 {
			return New(ErrCodeInvalidRepo, "repository id must be positive: %d", id)
		}
		return nil
	}

	parts := strings.Split(name, "/")
	if len(parts) < 2 {
		return New(ErrCodeInvalidRepo, "invalid repository %q: use owner/name", name)
	}
	for _, p := range parts {
		if p == "" {
			return New(ErrCodeInvalidRepo, "invalid repository %q: empty path segment", name)
		}
		if p == "." || p == ".." {
			return New(ErrCodeInvalidRepo, "invalid repository %q: relative path segment", name)
		}
		for _, r := range p {
			if unicode.IsSpace(r) || unicode.IsControl(r) {
				return New(ErrCodeInvalidRepo, "invalid repository %q: contains whitespace", name)
			}
		}
	}
	return nil
}

// maxPathLength bounds repository file paths.
const maxPathLength = 500

// ValidatePath checks a file path inside a repository. Paths are relative,
// use forward slashes and never step outside the repository root.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.IndexFunc(path, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "path contains control characters")
	case strings.HasPrefix(path, "/"):
		return New(ErrCodeInvalidPath, "path %q must be relative", path)
	case strings.Contains(path, `\`):
		return New(ErrCodeInvalidPath, "path %q contains a backslash", path)
	case strings.Contains(path, ".."):
		return New(ErrCodeInvalidPath, "path %q contains ..", path)
	}
	return nil
}

// ValidateURL validates a webhook or API URL.
// It ensures the URL has an http or https scheme.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
