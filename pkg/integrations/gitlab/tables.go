package gitlab

import "github.com/RaiVaibhav/IGitt/pkg/hosting"

var statusTable = hosting.NewTable("gitlab commit status", map[hosting.Status]string{
	hosting.StatusPending:  "pending",
	hosting.StatusRunning:  "running",
	hosting.StatusSuccess:  "success",
	hosting.StatusFailed:   "failed",
	hosting.StatusCanceled: "canceled",
})

var issueStateTable = hosting.NewTable("gitlab issue state", map[hosting.State]string{
	hosting.StateOpen:   "opened",
	hosting.StateClosed: "closed",
	hosting.StateAll:    "all",
})

var mergeRequestStateTable = hosting.NewTable("gitlab merge request state", map[hosting.State]string{
	hosting.StateOpen:   "opened",
	hosting.StateClosed: "closed",
	hosting.StateMerged: "merged",
	hosting.StateAll:    "all",
})

// Hook flags of the project hooks API. All comment kinds share note_events.
var webhookTable = hosting.NewManyToOneTable("gitlab webhook event", map[hosting.WebhookEvent]string{
	hosting.EventPush:                "push_events",
	hosting.EventIssue:               "issues_events",
	hosting.EventMergeRequest:        "merge_requests_events",
	hosting.EventCommitComment:       "note_events",
	hosting.EventMergeRequestComment: "note_events",
	hosting.EventIssueComment:        "note_events",
})
