package github

import "github.com/RaiVaibhav/IGitt/pkg/hosting"

var statusTable = hosting.NewTable("github commit status", map[hosting.Status]string{
	hosting.StatusError:   "error",
	hosting.StatusFailed:  "failure",
	hosting.StatusPending: "pending",
	hosting.StatusSuccess: "success",
})

var stateTable = hosting.NewTable("github issue state", map[hosting.State]string{
	hosting.StateOpen:   "open",
	hosting.StateClosed: "closed",
	hosting.StateAll:    "all",
})

// Both comment kinds arrive as issue_comment, so the event a delivery is
// about cannot be decoded from the event name alone.
var webhookTable = hosting.NewManyToOneTable("github webhook event", map[hosting.WebhookEvent]string{
	hosting.EventPush:                "push",
	hosting.EventIssue:               "issues",
	hosting.EventMergeRequest:        "pull_request",
	hosting.EventCommitComment:       "commit_comment",
	hosting.EventMergeRequestComment: "issue_comment",
	hosting.EventIssueComment:        "issue_comment",
})
