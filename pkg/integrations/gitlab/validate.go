package gitlab

import (
	"regexp"
	"strings"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
)

// Group, subgroup and project paths: letters, digits, underscores, dots and
// hyphens, starting with a letter, digit or underscore.
var validSegment = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]{0,254}$`)

// ValidateFullName accepts a numeric project ID or a full project path of
// at least two segments, "group/subgroup/project".
func ValidateFullName(name string) error {
	if err := igerr.ValidateFullName(name); err != nil {
		return err
	}
	if isNumeric(name) {
		return nil
	}
	for _, seg := range strings.Split(name, "/") {
		if !validSegment.MatchString(seg) {
			return igerr.New(igerr.ErrCodeInvalidRepo, "invalid project path %q: bad segment %q", name, seg)
		}
		if strings.HasSuffix(seg, ".git") || strings.HasSuffix(seg, ".atom") {
			return igerr.New(igerr.ErrCodeInvalidRepo, "invalid project path %q: segment %q has a reserved suffix", name, seg)
		}
	}
	return nil
}
