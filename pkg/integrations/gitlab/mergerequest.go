package gitlab

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// MergeRequest is a GitLab merge request. It belongs to the target
// project.
type MergeRequest struct {
	*Issue
}

func newMergeRequest(client *integrations.Client, repo string, number int) *MergeRequest {
	return &MergeRequest{Issue: &Issue{
		Object: integrations.NewObject(client, fmt.Sprintf("%s/merge_requests/%d", projectPath(repo), number)),
		repo:   repo,
		number: number,
	}}
}

func mergeRequestFromData(client *integrations.Client, repo string, data map[string]any) *MergeRequest {
	m := newMergeRequest(client, repo, int(integrations.Int(data, "iid")))
	m.SetData(data)
	return m
}

func (m *MergeRequest) State(ctx context.Context) (hosting.State, error) {
	s, err := m.Field(ctx, "state")
	if err != nil {
		return 0, err
	}
	return mergeRequestStateTable.Decode(s)
}

// Base returns the merge base recorded by GitLab, or the target branch
// head when the diff has not been computed yet.
func (m *MergeRequest) Base(ctx context.Context) (hosting.Commit, error) {
	data, err := m.Data(ctx)
	if err != nil {
		return nil, err
	}
	sha, _ := integrations.Path(data, "diff_refs", "base_sha").(string)
	if sha == "" {
		sha = integrations.Str(data, "target_branch")
	}
	return newCommit(m.Client(), m.repo, sha), nil
}

// Head returns the source branch head in the source project.
func (m *MergeRequest) Head(ctx context.Context) (hosting.Commit, error) {
	data, err := m.Data(ctx)
	if err != nil {
		return nil, err
	}
	repo := m.repo
	if src := integrations.Int(data, "source_project_id"); src != 0 && src != integrations.Int(data, "project_id") {
		repo = strconv.FormatInt(src, 10)
	}
	return newCommit(m.Client(), repo, integrations.Str(data, "sha")), nil
}

func (m *MergeRequest) BaseBranchName(ctx context.Context) (string, error) {
	return m.Field(ctx, "target_branch")
}

func (m *MergeRequest) HeadBranchName(ctx context.Context) (string, error) {
	return m.Field(ctx, "source_branch")
}

func (m *MergeRequest) Commits(ctx context.Context) ([]hosting.Commit, error) {
	v, err := m.Client().Get(ctx, m.Path()+"/commits", nil)
	if err != nil {
		return nil, err
	}
	var out []hosting.Commit
	for _, data := range integrations.AsObjects(v) {
		out = append(out, commitFromData(m.Client(), m.repo, data))
	}
	return out, nil
}

func (m *MergeRequest) changes(ctx context.Context) ([]map[string]any, error) {
	v, err := m.Client().Get(ctx, m.Path()+"/changes", nil)
	if err != nil {
		return nil, err
	}
	return integrations.AsObjects(integrations.AsObject(v)["changes"]), nil
}

// AffectedFiles returns the paths changed by the merge request, sorted.
// Both sides of a rename are included.
func (m *MergeRequest) AffectedFiles(ctx context.Context) ([]string, error) {
	changes, err := m.changes(ctx)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, c := range changes {
		files = append(files, integrations.Str(c, "old_path"), integrations.Str(c, "new_path"))
	}
	return hosting.SortedSet(files), nil
}

// Diffstat counts the added and removed lines in the hunks of all changes.
func (m *MergeRequest) Diffstat(ctx context.Context) (additions, deletions int, err error) {
	changes, err := m.changes(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, c := range changes {
		inHunk := false
		for _, line := range strings.Split(integrations.Str(c, "diff"), "\n") {
			switch {
			case strings.HasPrefix(line, "@@"):
				inHunk = true
			case !inHunk:
			case strings.HasPrefix(line, "+"):
				additions++
			case strings.HasPrefix(line, "-"):
				deletions++
			}
		}
	}
	return additions, deletions, nil
}

var _ hosting.MergeRequest = (*MergeRequest)(nil)
