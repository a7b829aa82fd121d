package github

import (
	"regexp"
	"strings"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
)

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return igerr.New(igerr.ErrCodeInvalidRepo, "owner is required")
	}
	if !validOwner.MatchString(owner) {
		return igerr.New(igerr.ErrCodeInvalidRepo, "invalid owner %q: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen", owner)
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return igerr.New(igerr.ErrCodeInvalidRepo, "repo is required")
	}
	if !validRepo.MatchString(repo) {
		return igerr.New(igerr.ErrCodeInvalidRepo, "invalid repo %q: must be 1-100 alphanumeric characters, hyphens, underscores, or dots", repo)
	}
	return nil
}

// ParseRepoRef parses an "owner/repo" string and validates both parts.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(ref, "/")
	if !ok {
		return "", "", igerr.New(igerr.ErrCodeInvalidRepo, "invalid repo %q: use owner/repo", ref)
	}
	if err := ValidateOwner(owner); err != nil {
		return "", "", err
	}
	if err := ValidateRepo(repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}

// ValidateFullName accepts a numeric repository ID or "owner/repo".
func ValidateFullName(name string) error {
	if err := igerr.ValidateFullName(name); err != nil {
		return err
	}
	if isNumeric(name) {
		return nil
	}
	_, _, err := ParseRepoRef(name)
	return err
}
