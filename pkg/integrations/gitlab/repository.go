package gitlab

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"
	"time"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Repository is a GitLab project. The API accepts the numeric ID and the
// URL-encoded full path alike, so nested entities reuse whichever the
// project was addressed by.
type Repository struct {
	*integrations.Object
	ref string
}

func newRepository(client *integrations.Client, ref string) *Repository {
	return &Repository{Object: integrations.NewObject(client, projectPath(ref)), ref: ref}
}

func repositoryFromData(client *integrations.Client, data map[string]any) *Repository {
	ref := integrations.Str(data, "path_with_namespace")
	if ref == "" {
		ref = strconv.FormatInt(integrations.Int(data, "id"), 10)
	}
	r := newRepository(client, ref)
	r.SetData(data)
	return r
}

// Identifier returns the numeric project ID.
func (r *Repository) Identifier(ctx context.Context) (int64, error) {
	if id, err := strconv.ParseInt(r.ref, 10, 64); err == nil {
		return id, nil
	}
	data, err := r.Data(ctx)
	if err != nil {
		return 0, err
	}
	return integrations.Int(data, "id"), nil
}

// FullName returns the full project path. A project addressed by ID is
// fetched.
func (r *Repository) FullName(ctx context.Context) (string, error) {
	if !isNumeric(r.ref) {
		return r.ref, nil
	}
	return r.Field(ctx, "path_with_namespace")
}

func (r *Repository) WebURL(ctx context.Context) (string, error) {
	data, err := r.Data(ctx)
	if err != nil {
		return "", err
	}
	if u := integrations.Str(data, "web_url"); u != "" {
		return u, nil
	}
	return WebURL + "/" + integrations.Str(data, "path_with_namespace"), nil
}

// TopLevelOrg returns the root group (or user namespace) of the project.
func (r *Repository) TopLevelOrg(ctx context.Context) (hosting.Organization, error) {
	full, err := r.FullName(ctx)
	if err != nil {
		return nil, err
	}
	top, _, _ := strings.Cut(full, "/")
	return newOrganization(r.Client(), top), nil
}

// CloneURL returns the HTTPS clone URL with the token embedded. GitLab
// accepts any token as password with the user name "oauth2".
func (r *Repository) CloneURL(ctx context.Context) (string, error) {
	raw, err := r.Field(ctx, "http_url_to_repo")
	if err != nil {
		return "", err
	}
	tok := r.Client().Token()
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
	u.User = url.UserPassword("oauth2", value)
	return u.String(), nil
}

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

// CreateLabel creates a label. GitLab wants the colour with its leading #,
// which is added if missing.
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
		"color": "#" + strings.TrimLeft(color, "#"),
	})
	return err
}

func (r *Repository) DeleteLabel(ctx context.Context, name string) error {
	labels, err := r.Labels(ctx)
	if err != nil {
		return err
	}
	if !contains(labels, name) {
		return igerr.New(igerr.ErrCodeDoesntExist, "%s doesnt exist.", name)
	}
	_, err = r.Client().Delete(ctx, r.Path()+"/labels/"+integrations.URLEncode(name), nil)
	return err
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func (r *Repository) hooks(ctx context.Context) ([]map[string]any, error) {
	v, err := r.Client().Get(ctx, r.Path()+"/hooks", nil)
	if err != nil {
		return nil, err
	}
	return integrations.AsObjects(v), nil
}

func (r *Repository) Hooks(ctx context.Context) ([]string, error) {
	hooks, err := r.hooks(ctx)
	if err != nil {
		return nil, err
	}
	var urls []string
	for _, h := range hooks {
		urls = append(urls, integrations.Str(h, "url"))
	}
	return hosting.SortedSet(urls), nil
}

// RegisterHook adds a project hook for target. Every event flag of the
// hooks API is sent, true for the selected events and false otherwise.
func (r *Repository) RegisterHook(ctx context.Context, target, secret string, events ...hosting.WebhookEvent) error {
	urls, err := r.Hooks(ctx)
	if err != nil {
		return err
	}
	if contains(urls, target) {
		return nil
	}
	if len(events) == 0 {
		events = hosting.AllWebhookEvents()
	}
	selected, err := webhookTable.EncodeAll(events)
	if err != nil {
		return err
	}

	body := map[string]any{"url": target, "enable_ssl_verification": true}
	for _, flag := range webhookTable.Codes() {
		body[flag] = false
	}
	for _, flag := range selected {
		body[flag] = true
	}
	if secret != "" {
		body["token"] = secret
	}
	_, err = r.Client().Post(ctx, r.Path()+"/hooks", body)
	return err
}

func (r *Repository) DeleteHook(ctx context.Context, target string) error {
	hooks, err := r.hooks(ctx)
	if err != nil {
		return err
	}
	for _, h := range hooks {
		if integrations.Str(h, "url") != target {
			continue
		}
		id := strconv.FormatInt(integrations.Int(h, "id"), 10)
		if _, err := r.Client().Delete(ctx, r.Path()+"/hooks/"+id, nil); err != nil {
			return err
		}
	}
	return nil
}

// GetIssue returns the issue with the project-scoped number (iid).
func (r *Repository) GetIssue(_ context.Context, number int) (hosting.Issue, error) {
	return newIssue(r.Client(), r.ref, number), nil
}

// GetMergeRequest returns the merge request with the project-scoped number.
func (r *Repository) GetMergeRequest(_ context.Context, number int) (hosting.MergeRequest, error) {
	return newMergeRequest(r.Client(), r.ref, number), nil
}

// GetCommit returns the commit at sha, which may also be a branch or tag.
func (r *Repository) GetCommit(_ context.Context, sha string) (hosting.Commit, error) {
	return newCommit(r.Client(), r.ref, sha), nil
}

func (r *Repository) GetContent(_ context.Context, path string) (hosting.Content, error) {
	if err := igerr.ValidatePath(path); err != nil {
		return nil, err
	}
	return newContent(r.Client(), r.ref, path), nil
}

func (r *Repository) Issues(ctx context.Context) ([]hosting.Issue, error) {
	return r.FilterIssues(ctx, hosting.StateOpen)
}

// FilterIssues lists issues in state. StateMerged does not apply to issues
// and fails with ErrCodeUnmapped.
func (r *Repository) FilterIssues(ctx context.Context, state hosting.State) ([]hosting.Issue, error) {
	code, err := issueStateTable.Encode(state)
	if err != nil {
		return nil, err
	}
	v, err := r.Client().Get(ctx, r.Path()+"/issues", url.Values{"state": {code}})
	if err != nil {
		return nil, err
	}
	var out []hosting.Issue
	for _, data := range integrations.AsObjects(v) {
		out = append(out, issueFromData(r.Client(), r.ref, data))
	}
	return out, nil
}

// MergeRequests lists the open merge requests.
func (r *Repository) MergeRequests(ctx context.Context) ([]hosting.MergeRequest, error) {
	v, err := r.Client().Get(ctx, r.Path()+"/merge_requests", url.Values{"state": {"opened"}})
	if err != nil {
		return nil, err
	}
	var out []hosting.MergeRequest
	for _, data := range integrations.AsObjects(v) {
		out = append(out, mergeRequestFromData(r.Client(), r.ref, data))
	}
	return out, nil
}

func (r *Repository) CreateIssue(ctx context.Context, title, body string) (hosting.Issue, error) {
	v, err := r.Client().Post(ctx, r.Path()+"/issues", map[string]any{"title": title, "description": body})
	if err != nil {
		return nil, err
	}
	return issueFromData(r.Client(), r.ref, integrations.AsObject(v)), nil
}

// CreateMergeRequest opens a merge request from opts.Head into opts.Base.
// With opts.TargetProjectID set, the merge request targets that project
// and the returned entity belongs to it.
func (r *Repository) CreateMergeRequest(ctx context.Context, opts hosting.MergeRequestOptions) (hosting.MergeRequest, error) {
	body := map[string]any{
		"title":         opts.Title,
		"source_branch": opts.Head,
		"target_branch": opts.Base,
	}
	if opts.Body != "" {
		body["description"] = opts.Body
	}
	ref := r.ref
	if opts.TargetProjectID != 0 {
		body["target_project_id"] = opts.TargetProjectID
		ref = strconv.FormatInt(opts.TargetProjectID, 10)
	}
	v, err := r.Client().Post(ctx, r.Path()+"/merge_requests", body)
	if err != nil {
		return nil, err
	}
	return mergeRequestFromData(r.Client(), ref, integrations.AsObject(v)), nil
}

// CreateFile commits a new file to opts.Branch.
func (r *Repository) CreateFile(ctx context.Context, opts hosting.FileOptions) (hosting.Content, error) {
	if err := igerr.ValidatePath(opts.Path); err != nil {
		return nil, err
	}
	branch := orDefaultBranch(opts.Branch)
	_, err := r.Client().Post(ctx, r.Path()+"/repository/files/"+integrations.URLEncode(opts.Path), map[string]any{
		"branch":         branch,
		"commit_message": opts.Message,
		"content":        base64.StdEncoding.EncodeToString([]byte(opts.Content)),
		"encoding":       "base64",
	})
	if err != nil {
		return nil, err
	}
	c := newContent(r.Client(), r.ref, opts.Path)
	c.SetQuery(url.Values{"ref": {branch}})
	return c, nil
}

// Commits lists the commits of the default branch. GitLab answers 404 for
// a project without commits; any other 404 is returned.
func (r *Repository) Commits(ctx context.Context) ([]hosting.Commit, error) {
	v, err := r.Client().Get(ctx, r.Path()+"/repository/commits", nil)
	if integrations.IsNotFound(err) && r.emptyRepository(ctx, err) {
		return []hosting.Commit{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out []hosting.Commit
	for _, data := range integrations.AsObjects(v) {
		out = append(out, commitFromData(r.Client(), r.ref, data))
	}
	return out, nil
}

// emptyRepository tells a 404 for a project without a tree apart from a
// missing or inaccessible project.
func (r *Repository) emptyRepository(ctx context.Context, notFound error) bool {
	var apiErr *integrations.APIError
	if errors.As(notFound, &apiErr) && strings.Contains(apiErr.Message(), "Tree Not Found") {
		return true
	}
	data, err := r.Data(ctx)
	return err == nil && integrations.Bool(data, "empty_repo")
}

// CreateFork forks the project into opts.Namespace (or opts.Organization),
// or into the user's namespace if both are empty.
func (r *Repository) CreateFork(ctx context.Context, opts hosting.ForkOptions) (hosting.Repository, error) {
	body := map[string]any{}
	ns := opts.Namespace
	if ns == "" {
		ns = opts.Organization
	}
	if ns != "" {
		body["namespace_path"] = ns
	}
	v, err := r.Client().Post(ctx, r.Path()+"/fork", body)
	if err != nil {
		return nil, err
	}
	return repositoryFromData(r.Client(), integrations.AsObject(v)), nil
}

func (r *Repository) Delete(ctx context.Context) error {
	_, err := r.Client().Delete(ctx, r.Path(), nil)
	return err
}

// SearchIssues lists open issues matching filter.
func (r *Repository) SearchIssues(ctx context.Context, filter hosting.SearchFilter) (iter.Seq[hosting.Issue], error) {
	results, err := r.search(ctx, "/issues", filter)
	if err != nil {
		return nil, err
	}
	return func(yield func(hosting.Issue) bool) {
		for _, data := range results {
			if !yield(issueFromData(r.Client(), r.ref, data)) {
				return
			}
		}
	}, nil
}

// SearchMergeRequests lists open merge requests matching filter.
func (r *Repository) SearchMergeRequests(ctx context.Context, filter hosting.SearchFilter) (iter.Seq[hosting.MergeRequest], error) {
	results, err := r.search(ctx, "/merge_requests", filter)
	if err != nil {
		return nil, err
	}
	return func(yield func(hosting.MergeRequest) bool) {
		for _, data := range results {
			if !yield(mergeRequestFromData(r.Client(), r.ref, data)) {
				return
			}
		}
	}, nil
}

func (r *Repository) search(ctx context.Context, resource string, f hosting.SearchFilter) ([]map[string]any, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	v, err := r.Client().Get(ctx, r.Path()+resource, searchQuery(f))
	if err != nil {
		return nil, err
	}
	return integrations.AsObjects(v), nil
}

func searchQuery(f hosting.SearchFilter) url.Values {
	q := url.Values{
		"state":    {"opened"},
		"per_page": {strconv.Itoa(perPage)},
	}
	set := func(key string, t time.Time) {
		if !t.IsZero() {
			q.Set(key, t.UTC().Format(hosting.SearchTimeFormat))
		}
	}
	set("created_after", f.CreatedAfter)
	set("created_before", f.CreatedBefore)
	set("updated_after", f.UpdatedAfter)
	set("updated_before", f.UpdatedBefore)
	return q
}

var _ hosting.Repository = (*Repository)(nil)
