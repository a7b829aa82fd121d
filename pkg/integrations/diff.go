package integrations

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// DiffIndex returns the position of a new-file line within a unified diff
// patch, counted in patch lines from the first hunk header. Providers
// address inline comments by this position. ok is false if line is not
// part of the patch.
func DiffIndex(patch string, line int) (index int, ok bool) {
	if patch == "" {
		return 0, false
	}
	if !strings.HasSuffix(patch, "\n") {
		patch += "\n"
	}
	hunks, err := diff.ParseHunks([]byte(patch))
	if err != nil {
		return 0, false
	}

	pos := -1
	for _, h := range hunks {
		pos++ // hunk header
		cur := int(h.NewStartLine) - 1
		for _, l := range strings.Split(strings.TrimSuffix(string(h.Body), "\n"), "\n") {
			pos++
			if strings.HasPrefix(l, "-") || strings.HasPrefix(l, `\`) {
				continue
			}
			cur++
			if cur == line {
				return pos, true
			}
		}
	}
	return 0, false
}

// LocatedComment prefixes message with the commit, file and line it refers
// to. It is used when a comment cannot be attached inline. Empty file and
// zero line are left out.
func LocatedComment(sha, file string, line int, message string) string {
	var b strings.Builder
	b.WriteString("Comment on " + sha)
	if file != "" {
		b.WriteString(", file " + file)
	}
	if line != 0 {
		fmt.Fprintf(&b, ", line %d", line)
	}
	b.WriteString(".\n\n" + message)
	return b.String()
}
