package github

import (
	"context"
	"encoding/json"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

var (
	issueActions = map[string]hosting.Action{
		"opened":   hosting.IssueOpened,
		"closed":   hosting.IssueClosed,
		"reopened": hosting.IssueReopened,
	}
	pullRequestActions = map[string]hosting.Action{
		"synchronize": hosting.MergeRequestSynchronized,
		"opened":      hosting.MergeRequestOpened,
		"closed":      hosting.MergeRequestClosed,
	}
	installationActions = map[string]hosting.Action{
		"created": hosting.InstallationCreated,
		"deleted": hosting.InstallationDeleted,
	}
)

// HandleWebhook translates a delivery. event is the X-GitHub-Event header.
// The payload signature must have been checked by the caller.
func (h *Hoster) HandleWebhook(ctx context.Context, event string, payload []byte) (hosting.Delivery, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return hosting.Delivery{}, igerr.Wrap(igerr.ErrCodeInvalidInput, err, "decode %s payload", event)
	}
	action := integrations.Str(data, "action")

	switch event {
	case "installation":
		a, ok := installationActions[action]
		if !ok {
			return hosting.Delivery{}, unsupported(event, action)
		}
		inst := installationFromData(h.client, integrations.Map(data, "installation"))
		return hosting.Delivery{Action: a, Objects: []hosting.Entity{inst}}, nil

	case "installation_repositories":
		var (
			a   hosting.Action
			key string
		)
		switch action {
		case "added":
			a, key = hosting.InstallationRepositoriesAdded, "repositories_added"
		case "removed":
			a, key = hosting.InstallationRepositoriesRemoved, "repositories_removed"
		default:
			return hosting.Delivery{}, unsupported(event, action)
		}
		inst := installationFromData(h.client, integrations.Map(data, "installation"))
		var repos []hosting.Repository
		for _, r := range integrations.AsObjects(data[key]) {
			repos = append(repos, repositoryFromData(h.client, r))
		}
		return hosting.Delivery{Action: a, Objects: []hosting.Entity{inst}, Repositories: repos}, nil
	}

	repo, _ := integrations.Path(data, "repository", "full_name").(string)

	switch event {
	case "issues":
		a, ok := issueActions[action]
		if !ok {
			a = hosting.IssueAttributesChanged
		}
		issue := issueFromData(h.client, repo, integrations.Map(data, "issue"))
		return hosting.Delivery{Action: a, Objects: []hosting.Entity{issue}}, nil

	case "pull_request":
		pr := integrations.Map(data, "pull_request")
		a, ok := pullRequestActions[action]
		if !ok {
			a = hosting.MergeRequestAttributesChanged
		}
		if a == hosting.MergeRequestClosed && integrations.Bool(pr, "merged") {
			a = hosting.MergeRequestMerged
		}
		mr := newMergeRequest(h.client, repo, int(integrations.Int(pr, "number")))
		mr.SetData(pr)
		return hosting.Delivery{Action: a, Objects: []hosting.Entity{mr}}, nil

	case "issue_comment":
		if action == "deleted" {
			break
		}
		issue := integrations.Map(data, "issue")
		comment := issueCommentFromData(h.client, repo, integrations.Map(data, "comment"))
		number := int(integrations.Int(issue, "number"))
		if integrations.Has(issue, "pull_request") {
			mr := newMergeRequest(h.client, repo, number)
			mr.SetData(issue)
			return hosting.Delivery{Action: hosting.MergeRequestCommented, Objects: []hosting.Entity{mr, comment}}, nil
		}
		return hosting.Delivery{
			Action:  hosting.IssueCommented,
			Objects: []hosting.Entity{issueFromData(h.client, repo, issue), comment},
		}, nil

	case "status":
		commit := commitFromData(h.client, repo, integrations.Map(data, "commit"))
		return hosting.Delivery{Action: hosting.PipelineUpdated, Objects: []hosting.Entity{commit}}, nil
	}
	return hosting.Delivery{}, unsupported(event, action)
}

func unsupported(event, action string) error {
	return igerr.New(igerr.ErrCodeUnsupported, "webhook event %q (action %q) cannot be handled", event, action)
}
