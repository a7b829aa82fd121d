package github

import (
	"context"
	"fmt"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// MergeRequest is a GitHub pull request. Issue operations go through the
// pulls endpoint, which accepts the same fields.
type MergeRequest struct {
	*Issue
}

func newMergeRequest(client *integrations.Client, repo string, number int) *MergeRequest {
	return &MergeRequest{Issue: &Issue{
		Object: integrations.NewObject(client, fmt.Sprintf("/repos/%s/pulls/%d", repo, number)),
		repo:   repo,
		number: number,
	}}
}

// State reports StateMerged for closed pull requests that were merged.
func (m *MergeRequest) State(ctx context.Context) (hosting.State, error) {
	data, err := m.Data(ctx)
	if err != nil {
		return 0, err
	}
	state, err := stateTable.Decode(integrations.Str(data, "state"))
	if err != nil {
		return 0, err
	}
	if state == hosting.StateClosed && (integrations.Bool(data, "merged") || integrations.Has(data, "merged_at")) {
		return hosting.StateMerged, nil
	}
	return state, nil
}

func (m *MergeRequest) Base(ctx context.Context) (hosting.Commit, error) { return m.ref(ctx, "base") }
func (m *MergeRequest) Head(ctx context.Context) (hosting.Commit, error) { return m.ref(ctx, "head") }

func (m *MergeRequest) ref(ctx context.Context, side string) (hosting.Commit, error) {
	data, err := m.Data(ctx)
	if err != nil {
		return nil, err
	}
	ref := integrations.Map(data, side)
	repo, _ := integrations.Path(ref, "repo", "full_name").(string)
	if repo == "" {
		repo = m.repo
	}
	return newCommit(m.Client(), repo, integrations.Str(ref, "sha")), nil
}

func (m *MergeRequest) BaseBranchName(ctx context.Context) (string, error) {
	return m.branch(ctx, "base")
}

func (m *MergeRequest) HeadBranchName(ctx context.Context) (string, error) {
	return m.branch(ctx, "head")
}

func (m *MergeRequest) branch(ctx context.Context, side string) (string, error) {
	data, err := m.Data(ctx)
	if err != nil {
		return "", err
	}
	s, _ := integrations.Path(data, side, "ref").(string)
	return s, nil
}

// Commits lists the commits of the pull request, oldest first.
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

// AffectedFiles returns the paths changed by the pull request, sorted.
func (m *MergeRequest) AffectedFiles(ctx context.Context) ([]string, error) {
	v, err := m.Client().Get(ctx, m.Path()+"/files", nil)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, f := range integrations.AsObjects(v) {
		files = append(files, integrations.Str(f, "filename"))
	}
	return hosting.SortedSet(files), nil
}

// Diffstat returns the number of added and deleted lines.
func (m *MergeRequest) Diffstat(ctx context.Context) (additions, deletions int, err error) {
	data, err := m.Data(ctx)
	if err != nil {
		return 0, 0, err
	}
	return int(integrations.Int(data, "additions")), int(integrations.Int(data, "deletions")), nil
}

var _ hosting.MergeRequest = (*MergeRequest)(nil)
