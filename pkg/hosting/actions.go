package hosting

// Action is what a webhook delivery reports to have happened.
type Action string

const (
	IssueOpened            Action = "issue_opened"
	IssueClosed            Action = "issue_closed"
	IssueReopened          Action = "issue_reopened"
	IssueAttributesChanged Action = "issue_attributes_changed"
	IssueCommented         Action = "issue_commented"

	MergeRequestOpened            Action = "merge_request_opened"
	MergeRequestClosed            Action = "merge_request_closed"
	MergeRequestMerged            Action = "merge_request_merged"
	MergeRequestSynchronized      Action = "merge_request_synchronized"
	MergeRequestAttributesChanged Action = "merge_request_attributes_changed"
	MergeRequestCommented         Action = "merge_request_commented"

	PipelineUpdated Action = "pipeline_updated"

	InstallationCreated             Action = "installation_created"
	InstallationDeleted             Action = "installation_deleted"
	InstallationRepositoriesAdded   Action = "installation_repositories_added"
	InstallationRepositoriesRemoved Action = "installation_repositories_removed"
)

func (a Action) String() string { return string(a) }

// Delivery is the translated form of a webhook payload.
//
// Objects holds the affected entities, primary entity first: an issue or
// merge request followed by the new comment for comment events, a commit for
// pipeline events, the installation for installation events. Repositories
// holds the repositories added to or removed from an installation.
type Delivery struct {
	Action       Action
	Objects      []Entity
	Repositories []Repository
}
