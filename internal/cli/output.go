package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
)

// emit writes v in the format chosen by --output. For text output, text is
// called instead.
func (c *CLI) emit(v any, text func(w io.Writer)) error {
	switch c.flags.output {
	case outputJSON:
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(c.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(c.Out)
		return nil
	}
}

// =============================================================================
// Views
// =============================================================================

type repoView struct {
	Provider          string   `json:"provider" yaml:"provider"`
	FullName          string   `json:"full_name" yaml:"full_name"`
	ID                int64    `json:"id" yaml:"id"`
	WebURL            string   `json:"web_url" yaml:"web_url"`
	Labels            []string `json:"labels" yaml:"labels"`
	Hooks             []string `json:"hooks,omitempty" yaml:"hooks,omitempty"`
	OpenIssues        int      `json:"open_issues" yaml:"open_issues"`
	OpenMergeRequests int      `json:"open_merge_requests" yaml:"open_merge_requests"`
}

type issueView struct {
	Number  int       `json:"number" yaml:"number"`
	Title   string    `json:"title" yaml:"title"`
	State   string    `json:"state" yaml:"state"`
	Author  string    `json:"author,omitempty" yaml:"author,omitempty"`
	Labels  []string  `json:"labels" yaml:"labels"`
	Created time.Time `json:"created" yaml:"created"`
	Updated time.Time `json:"updated" yaml:"updated"`
	URL     string    `json:"url" yaml:"url"`
}

type mergeRequestView struct {
	issueView `yaml:",inline"`

	Base      string   `json:"base" yaml:"base"`
	Head      string   `json:"head" yaml:"head"`
	Files     []string `json:"files" yaml:"files"`
	Additions int      `json:"additions" yaml:"additions"`
	Deletions int      `json:"deletions" yaml:"deletions"`
}

type commitView struct {
	SHA    string `json:"sha" yaml:"sha"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
	URL    string `json:"url" yaml:"url"`
}

type statusView struct {
	Context     string `json:"context" yaml:"context"`
	Status      string `json:"status" yaml:"status"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	TargetURL   string `json:"target_url,omitempty" yaml:"target_url,omitempty"`
}

type userView struct {
	Username string `json:"username" yaml:"username"`
	ID       int64  `json:"id" yaml:"id"`
	WebURL   string `json:"web_url" yaml:"web_url"`
}

type orgView struct {
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	WebURL        string   `json:"web_url" yaml:"web_url"`
	BillableUsers int      `json:"billable_users" yaml:"billable_users"`
	Owners        []string `json:"owners" yaml:"owners"`
	Masters       []string `json:"masters" yaml:"masters"`
	Suborgs       []string `json:"suborgs" yaml:"suborgs"`
}

type contentView struct {
	Path string `json:"path" yaml:"path"`
	Ref  string `json:"ref" yaml:"ref"`
	Text string `json:"text" yaml:"text"`
}

// =============================================================================
// Loaders
// =============================================================================

func loadIssueView(ctx context.Context, is hosting.Issue) (issueView, error) {
	v := issueView{Number: is.Number(), URL: is.URL()}
	var err error
	if v.Title, err = is.Title(ctx); err != nil {
		return v, err
	}
	state, err := is.State(ctx)
	if err != nil {
		return v, err
	}
	v.State = state.String()
	if v.Labels, err = is.Labels(ctx); err != nil {
		return v, err
	}
	if v.Created, err = is.Created(ctx); err != nil {
		return v, err
	}
	if v.Updated, err = is.Updated(ctx); err != nil {
		return v, err
	}
	if author, err := is.Author(ctx); err == nil && author != nil {
		v.Author, _ = author.Username(ctx)
	}
	return v, nil
}

func loadMergeRequestView(ctx context.Context, mr hosting.MergeRequest) (mergeRequestView, error) {
	iv, err := loadIssueView(ctx, mr)
	if err != nil {
		return mergeRequestView{}, err
	}
	v := mergeRequestView{issueView: iv}
	if v.Base, err = mr.BaseBranchName(ctx); err != nil {
		return v, err
	}
	if v.Head, err = mr.HeadBranchName(ctx); err != nil {
		return v, err
	}
	if v.Files, err = mr.AffectedFiles(ctx); err != nil {
		return v, err
	}
	v.Additions, v.Deletions, err = mr.Diffstat(ctx)
	return v, err
}

func loadUserView(ctx context.Context, u hosting.User) (userView, error) {
	var v userView
	var err error
	if v.Username, err = u.Username(ctx); err != nil {
		return v, err
	}
	if v.ID, err = u.Identifier(ctx); err != nil {
		return v, err
	}
	v.WebURL, err = u.WebURL(ctx)
	return v, err
}

func usernames(ctx context.Context, users []hosting.User) ([]string, error) {
	out := make([]string, 0, len(users))
	for _, u := range users {
		name, err := u.Username(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// =============================================================================
// Text
// =============================================================================

func writeIssueLine(w io.Writer, v issueView) {
	state := stateStyle(v.State).Render(v.State)
	line := fmt.Sprintf("%s %s %s", StyleNumber.Render(fmt.Sprintf("#%-5d", v.Number)), state, v.Title)
	if len(v.Labels) > 0 {
		line += " " + StyleDim.Render("["+strings.Join(v.Labels, ", ")+"]")
	}
	fmt.Fprintln(w, line)
}

func writeIssue(w io.Writer, v issueView) {
	fprintKeyValue(w, "Number", fmt.Sprintf("#%d", v.Number))
	fprintKeyValue(w, "Title", v.Title)
	fprintKeyValue(w, "State", v.State)
	if v.Author != "" {
		fprintKeyValue(w, "Author", "@"+v.Author)
	}
	if len(v.Labels) > 0 {
		fprintKeyValue(w, "Labels", strings.Join(v.Labels, ", "))
	}
	fprintKeyValue(w, "Created", v.Created.Format(time.RFC1123))
	fprintKeyValue(w, "Updated", formatRelativeTime(v.Updated))
	fprintKeyValue(w, "URL", StyleLink.Render(v.URL))
}
