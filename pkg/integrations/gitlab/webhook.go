package gitlab

import (
	"context"
	"encoding/json"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

var (
	issueActions = map[string]hosting.Action{
		"open":   hosting.IssueOpened,
		"close":  hosting.IssueClosed,
		"reopen": hosting.IssueReopened,
	}
	mergeRequestActions = map[string]hosting.Action{
		"open":   hosting.MergeRequestOpened,
		"reopen": hosting.MergeRequestOpened,
		"close":  hosting.MergeRequestClosed,
		"merge":  hosting.MergeRequestMerged,
	}
)

// HandleWebhook translates a delivery. event is the X-Gitlab-Event header.
// The secret token must have been checked by the caller.
func (h *Hoster) HandleWebhook(ctx context.Context, event string, payload []byte) (hosting.Delivery, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return hosting.Delivery{}, igerr.Wrap(igerr.ErrCodeInvalidInput, err, "decode %s payload", event)
	}
	attrs := integrations.Map(data, "object_attributes")
	action := integrations.Str(attrs, "action")
	repo, _ := integrations.Path(data, "project", "path_with_namespace").(string)

	switch event {
	case "Issue Hook":
		a, ok := issueActions[action]
		if !ok {
			a = hosting.IssueAttributesChanged
		}
		issue := issueFromData(h.client, repo, attrs)
		return hosting.Delivery{Action: a, Objects: []hosting.Entity{issue}}, nil

	case "Merge Request Hook":
		a, ok := mergeRequestActions[action]
		switch {
		case action == "update" && integrations.Has(attrs, "oldrev"):
			a = hosting.MergeRequestSynchronized
		case !ok:
			a = hosting.MergeRequestAttributesChanged
		}
		mr := mergeRequestFromData(h.client, repo, attrs)
		return hosting.Delivery{Action: a, Objects: []hosting.Entity{mr}}, nil

	case "Note Hook":
		if !integrations.Has(attrs, "author") {
			attrs["author"] = integrations.Map(data, "user")
		}
		switch integrations.Str(attrs, "noteable_type") {
		case "MergeRequest":
			mr := mergeRequestFromData(h.client, repo, integrations.Map(data, "merge_request"))
			note := noteFromData(h.client, mr.Path(), attrs)
			return hosting.Delivery{Action: hosting.MergeRequestCommented, Objects: []hosting.Entity{mr, note}}, nil
		case "Issue":
			issue := issueFromData(h.client, repo, integrations.Map(data, "issue"))
			note := noteFromData(h.client, issue.Path(), attrs)
			return hosting.Delivery{Action: hosting.IssueCommented, Objects: []hosting.Entity{issue, note}}, nil
		}
		action = integrations.Str(attrs, "noteable_type")

	case "Pipeline Hook":
		sha := integrations.Str(attrs, "sha")
		if sha == "" {
			sha, _ = integrations.Path(data, "commit", "id").(string)
		}
		commit := newCommit(h.client, repo, sha)
		return hosting.Delivery{Action: hosting.PipelineUpdated, Objects: []hosting.Entity{commit}}, nil
	}
	return hosting.Delivery{}, igerr.New(igerr.ErrCodeUnsupported, "webhook event %q (%q) cannot be handled", event, action)
}
