package hosting

import (
	"strings"

	"github.com/RaiVaibhav/IGitt/pkg/errors"
)

// Status is the state of a commit status or pipeline.
type Status int

const (
	StatusError Status = iota
	StatusFailed
	StatusPending
	StatusSuccess
	StatusCanceled
	StatusRunning
)

var statusNames = [...]string{"error", "failed", "pending", "success", "canceled", "running"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// ParseStatus parses the lower-case name of a Status.
func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if strings.EqualFold(s, name) {
			return Status(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown status %q", s)
}

// State is the lifecycle state of an issue or merge request.
// All is only meaningful as a filter.
type State int

const (
	StateOpen State = iota
	StateClosed
	StateMerged
	StateAll
)

var stateNames = [...]string{"open", "closed", "merged", "all"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// ParseState parses a state name. "opened" is accepted for StateOpen.
func ParseState(s string) (State, error) {
	if strings.EqualFold(s, "opened") {
		return StateOpen, nil
	}
	for i, name := range stateNames {
		if strings.EqualFold(s, name) {
			return State(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown state %q", s)
}

// WebhookEvent is a kind of event a repository webhook can subscribe to.
type WebhookEvent int

const (
	EventPush WebhookEvent = iota
	EventIssue
	EventMergeRequest
	EventCommitComment
	EventMergeRequestComment
	EventIssueComment
)

var eventNames = [...]string{"push", "issue", "merge_request", "commit_comment", "merge_request_comment", "issue_comment"}

func (e WebhookEvent) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[e]
}

// AllWebhookEvents lists every WebhookEvent.
func AllWebhookEvents() []WebhookEvent {
	out := make([]WebhookEvent, len(eventNames))
	for i := range eventNames {
		out[i] = WebhookEvent(i)
	}
	return out
}

// ParseWebhookEvent parses the name of a WebhookEvent.
func ParseWebhookEvent(s string) (WebhookEvent, error) {
	for i, name := range eventNames {
		if strings.EqualFold(s, name) {
			return WebhookEvent(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown webhook event %q", s)
}
