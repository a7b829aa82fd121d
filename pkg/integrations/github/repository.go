package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Repository is a GitHub repository. It is addressed by full name when one
// is known and by numeric ID otherwise.
type Repository struct {
	*integrations.Object
	name string
}

func newRepository(client *integrations.Client, name string) *Repository {
	if isNumeric(name) {
		return &Repository{Object: integrations.NewObject(client, "/repositories/"+name)}
	}
	return &Repository{Object: integrations.NewObject(client, "/repos/"+name), name: name}
}

func repositoryFromData(client *integrations.Client, data map[string]any) *Repository {
	name := integrations.Str(data, "full_name")
	if name == "" {
		name = strconv.FormatInt(integrations.Int(data, "id"), 10)
	}
	r := newRepository(client, name)
	r.SetData(data)
	return r
}

// Identifier returns the numeric repository ID.
func (r *Repository) Identifier(ctx context.Context) (int64, error) {
	data, err := r.Data(ctx)
	if err != nil {
		return 0, err
	}
	return integrations.Int(data, "id"), nil
}

// FullName returns "owner/name". A repository addressed by ID is fetched.
func (r *Repository) FullName(ctx context.Context) (string, error) {
	if r.name != "" {
		return r.name, nil
	}
	return r.Field(ctx, "full_name")
}

// WebURL returns the repository's page on github.com.
func (r *Repository) WebURL(ctx context.Context) (string, error) {
	data, err := r.Data(ctx)
	if err != nil {
		return "", err
	}
	if u := integrations.Str(data, "html_url"); u != "" {
		return u, nil
	}
	return WebURL + "/" + integrations.Str(data, "full_name"), nil
}

// TopLevelOrg returns the owner of the repository.
func (r *Repository) TopLevelOrg(ctx context.Context) (hosting.Organization, error) {
	full, err := r.FullName(ctx)
	if err != nil {
		return nil, err
	}
	owner, _, _ := strings.Cut(full, "/")
	return newOrganization(r.Client(), owner), nil
}

// CloneURL returns the HTTPS clone URL with the token as user info.
func (r *Repository) CloneURL(ctx context.Context) (string, error) {
	raw, err := r.Field(ctx, "clone_url")
	if err != nil {
		return "", err
	}
	return withCredential(ctx, r.Client(), raw)
}

func withCredential(ctx context.Context, client *integrations.Client, raw string) (string, error) {
	tok := client.Token()
	if tok == nil {
		return raw, nil
	}
	value, err := tok.Value(ctx)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse clone url: %w", err)
	}
	u.User = url.User(value)
	return u.String(), nil
}

// Labels returns the label names of the repository, sorted.
func (r *Repository) Labels(ctx context.Context) ([]string, error) {
	v, err := r.Client().Get(ctx, r.Path()+"/labels", nil)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, l := range integrations.AsObjects(v) {
		names = append(names, integrations.Str(l, "name"))
	}
	return hosting.SortedSet(names), nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// CreateLabel creates a label. color may carry a leading #.
func (r *Repository) CreateLabel(ctx context.Context, name, color string) error {
	labels, err := r.Labels(ctx)
	if err != nil {
		return err
	}
	if contains(labels, name) {
		return igerr.New(igerr.ErrCodeAlreadyExists, "%s already exists.", name)
	}
	_, err = r.Client().Post(ctx, r.Path()+"/labels", map[string]any{
		"name":  name,
		"color": strings.TrimLeft(color, "#"),
	})
	return err
}

// DeleteLabel deletes a label.
func (r *Repository) DeleteLabel(ctx context.Context, name string) error {
	labels, err := r.Labels(ctx)
	if err != nil {
		return err
	}
	if !contains(labels, name) {
		return igerr.New(igerr.ErrCodeDoesntExist, "%s doesnt exist.", name)
	}
	_, err = r.Client().Delete(ctx, r.Path()+"/labels/"+url.PathEscape(name), nil)
	return err
}

func (r *Repository) hooks(ctx context.Context) ([]map[string]any, error) {
	v, err := r.Client().Get(ctx, r.Path()+"/hooks", nil)
	if err != nil {
		return nil, err
	}
	return integrations.AsObjects(v), nil
}

func hookURL(h map[string]any) string {
	s, _ := integrations.Path(h, "config", "url").(string)
	return s
}

// Hooks returns the target URLs of the repository's webhooks. Hooks
// without a URL (e.g. service integrations) are skipped.
func (r *Repository) Hooks(ctx context.Context) ([]string, error) {
	hooks, err := r.hooks(ctx)
	if err != nil {
		return nil, err
	}
	var urls []string
	for _, h := range hooks {
		if u := hookURL(h); u != "" {
			urls = append(urls, u)
		}
	}
	return hosting.SortedSet(urls), nil
}

// RegisterHook registers a JSON webhook for target. It does nothing if a
// hook for target exists.
func (r *Repository) RegisterHook(ctx context.Context, target, secret string, events ...hosting.WebhookEvent) error {
	urls, err := r.Hooks(ctx)
	if err != nil {
		return err
	}
	if contains(urls, target) {
		return nil
	}

	codes, err := webhookTable.EncodeAll(events)
	if err != nil {
		return err
	}
	if len(codes) == 0 {
		codes = []string{"*"}
	}
	config := map[string]any{"url": target, "content_type": "json"}
	if secret != "" {
		config["secret"] = secret
	}
	_, err = r.Client().Post(ctx, r.Path()+"/hooks", map[string]any{
		"name":   "web",
		"active": true,
		"config": config,
		"events": codes,
	})
	return err
}

// DeleteHook deletes every webhook pointing at target.
func (r *Repository) DeleteHook(ctx context.Context, target string) error {
	hooks, err := r.hooks(ctx)
	if err != nil {
		return err
	}
	for _, h := range hooks {
		if hookURL(h) != target {
			continue
		}
		id := strconv.FormatInt(integrations.Int(h, "id"), 10)
		if _, err := r.Client().Delete(ctx, r.Path()+"/hooks/"+id, nil); err != nil {
			return err
		}
	}
	return nil
}

// GetIssue returns issue number. No request is made for a repository
// addressed by name.
func (r *Repository) GetIssue(ctx context.Context, number int) (hosting.Issue, error) {
	full, err := r.FullName(ctx)
	if err != nil {
		return nil, err
	}
	return newIssue(r.Client(), full, number), nil
}

// GetMergeRequest returns pull request number.
func (r *Repository) GetMergeRequest(ctx context.Context, number int) (hosting.MergeRequest, error) {
	full, err := r.FullName(ctx)
	if err != nil {
		return nil, err
	}
	return newMergeRequest(r.Client(), full, number), nil
}

// GetCommit returns the commit with the given SHA.
func (r *Repository) GetCommit(ctx context.Context, sha string) (hosting.Commit, error) {
	full, err := r.FullName(ctx)
	if err != nil {
		return nil, err
	}
	return newCommit(r.Client(), full, sha), nil
}

// GetContent returns the file at path on the default branch. Use Fetch to
// read another ref.
func (r *Repository) GetContent(ctx context.Context, path string) (hosting.Content, error) {
	if err := igerr.ValidatePath(path); err != nil {
		return nil, err
	}
	full, err := r.FullName(ctx)
	if err != nil {
		return nil, err
	}
	return newContent(r.Client(), full, path), nil
}

// Issues lists the open issues.
func (r *Repository) Issues(ctx context.Context) ([]hosting.Issue, error) {
	return r.FilterIssues(ctx, hosting.StateOpen)
}

// FilterIssues lists issues in state. Pull requests, which GitHub also
// reports as issues, are left out.
func (r *Repository) FilterIssues(ctx context.Context, state hosting.State) ([]hosting.Issue, error) {
	code, err := stateTable.Encode(state)
	if err != nil {
		return nil, err
	}
	full, err := r.FullName(ctx)
	if err != nil {
		return nil, err
	}
	v, err := r.Client().Get(ctx, r.Path()+"/issues", url.Values{"state": {code}})
	if err != nil {
		return nil, err
	}
	var out []hosting.Issue
	for _, data := range integrations.AsObjects(v) {
		if integrations.Has(data, "pull_request") {
			continue
		}
		out = append(out, issueFromData(r.Client(), full, data))
	}
	return out, nil
}

// MergeRequests lists the open pull requests. The entities load their
// full representation on first use.
func (r *Repository) MergeRequests(ctx context.Context) ([]hosting.MergeRequest, error) {
	full, err := r.FullName(ctx)
	if err != nil {
		return nil, err
	}
	v, err := r.Client().Get(ctx, r.Path()+"/pulls", nil)
	if err != nil {
		return nil, err
	}
	var out []hosting.MergeRequest
	for _, data := range integrations.AsObjects(v) {
		out = append(out, newMergeRequest(r.Client(), full, int(integrations.Int(data, "number"))))
	}
	return out, nil
}

// CreateIssue opens an issue.
func (r *Repository) CreateIssue(ctx context.Context, title, body string) (hosting.Issue, error) {
	full, err := r.FullName(ctx)
	if err != nil {
		return nil, err
	}
	v, err := r.Client().Post(ctx, "/repos/"+full+"/issues", map[string]any{"title": title, "body": body})
	if err != nil {
		return nil, err
	}
	return issueFromData(r.Client(), full, integrations.AsObject(v)), nil
}

// CreateMergeRequest opens a pull request from opts.Head into opts.Base.
// The returned entity belongs to the base repository.
func (r *Repository) CreateMergeRequest(ctx context.Context, opts hosting.MergeRequestOptions) (hosting.MergeRequest, error) {
	body := map[string]any{"title": opts.Title, "base": opts.Base, "head": opts.Head}
	if opts.Body != "" {
		body["body"] = opts.Body
	}
	v, err := r.Client().Post(ctx, r.Path()+"/pulls", body)
	if err != nil {
		return nil, err
	}
	data := integrations.AsObject(v)
	base, _ := integrations.Path(data, "base", "repo", "full_name").(string)
	mr := newMergeRequest(r.Client(), base, int(integrations.Int(data, "number")))
	mr.SetData(data)
	return mr, nil
}

// CreateFile commits a new file.
func (r *Repository) CreateFile(ctx context.Context, opts hosting.FileOptions) (hosting.Content, error) {
	if err := igerr.ValidatePath(opts.Path); err != nil {
		return nil, err
	}
	full, err := r.FullName(ctx)
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"path":    opts.Path,
		"message": opts.Message,
		"content": base64.StdEncoding.EncodeToString([]byte(opts.Content)),
	}
	if opts.Branch != "" {
		body["branch"] = opts.Branch
	}
	v, err := r.Client().Put(ctx, r.Path()+"/contents/"+escapePath(opts.Path), body)
	if err != nil {
		return nil, err
	}
	path, _ := integrations.Path(integrations.AsObject(v), "content", "path").(string)
	if path == "" {
		path = opts.Path
	}
	return newContent(r.Client(), full, path), nil
}

// Commits lists the commits of the default branch. An empty repository,
// for which GitHub answers 409, has no commits.
func (r *Repository) Commits(ctx context.Context) ([]hosting.Commit, error) {
	full, err := r.FullName(ctx)
	if err != nil {
		return nil, err
	}
	v, err := r.Client().Get(ctx, r.Path()+"/commits", nil)
	if integrations.IsConflict(err) {
		return []hosting.Commit{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out []hosting.Commit
	for _, data := range integrations.AsObjects(v) {
		out = append(out, commitFromData(r.Client(), full, data))
	}
	return out, nil
}

// CreateFork forks the repository into opts.Organization, or into the
// user's account if it is empty.
func (r *Repository) CreateFork(ctx context.Context, opts hosting.ForkOptions) (hosting.Repository, error) {
	body := map[string]any{}
	if opts.Organization != "" {
		body["organization"] = opts.Organization
	}
	v, err := r.Client().Post(ctx, r.Path()+"/forks", body)
	if err != nil {
		return nil, err
	}
	return repositoryFromData(r.Client(), integrations.AsObject(v)), nil
}

// Delete deletes the repository.
func (r *Repository) Delete(ctx context.Context) error {
	_, err := r.Client().Delete(ctx, r.Path(), nil)
	return err
}

// SearchIssues lists open issues matching filter.
func (r *Repository) SearchIssues(ctx context.Context, filter hosting.SearchFilter) (iter.Seq[hosting.Issue], error) {
	full, results, err := r.search(ctx, "issue", filter)
	if err != nil {
		return nil, err
	}
	return func(yield func(hosting.Issue) bool) {
		for _, data := range results {
			if !yield(issueFromData(r.Client(), full, data)) {
				return
			}
		}
	}, nil
}

// SearchMergeRequests lists open pull requests matching filter. The
// entities carry the search result; call Refresh for the full pull
// request representation.
func (r *Repository) SearchMergeRequests(ctx context.Context, filter hosting.SearchFilter) (iter.Seq[hosting.MergeRequest], error) {
	full, results, err := r.search(ctx, "pr", filter)
	if err != nil {
		return nil, err
	}
	return func(yield func(hosting.MergeRequest) bool) {
		for _, data := range results {
			mr := newMergeRequest(r.Client(), full, int(integrations.Int(data, "number")))
			mr.SetData(data)
			if !yield(mr) {
				return
			}
		}
	}, nil
}

func (r *Repository) search(ctx context.Context, kind string, f hosting.SearchFilter) (string, []map[string]any, error) {
	if err := f.Validate(); err != nil {
		return "", nil, err
	}
	full, err := r.FullName(ctx)
	if err != nil {
		return "", nil, err
	}
	v, err := r.Client().Get(ctx, "/search/issues", url.Values{
		"q":        {searchQuery(kind, full, f)},
		"per_page": {strconv.Itoa(perPage)},
	})
	if err != nil {
		return "", nil, err
	}
	return full, integrations.AsObjects(v), nil
}

func searchQuery(kind, full string, f hosting.SearchFilter) string {
	q := " type:" + kind + " state:open repo:" + full
	switch {
	case !f.CreatedAfter.IsZero():
		q += " created:>=" + f.CreatedAfter.UTC().Format(hosting.SearchTimeFormat)
	case !f.CreatedBefore.IsZero():
		q += " created:<" + f.CreatedBefore.UTC().Format(hosting.SearchTimeFormat)
	}
	switch {
	case !f.UpdatedAfter.IsZero():
		q += " updated:>=" + f.UpdatedAfter.UTC().Format(hosting.SearchTimeFormat)
	case !f.UpdatedBefore.IsZero():
		q += " updated:<" + f.UpdatedBefore.UTC().Format(hosting.SearchTimeFormat)
	}
	return q
}

var _ hosting.Repository = (*Repository)(nil)
