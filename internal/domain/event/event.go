// Package event defines the typed forge-event and client/server wire
// messages the relay exchanges, per spec.md §3/§6. Event/Command/Message
// are implemented as tagged unions with exhaustive switches rather than
// open interfaces with many implementations, so that the JSON wire form
// (frozen by spec.md §6) can't drift silently from the Go types.
package event

import "github.com/bsteffaniak/chadreview-relay/internal/domain/model"

// Kind identifies which of the three forwarded forge event families a
// WebhookEvent carries.
type Kind uint8

const (
	KindIssueComment Kind = iota + 1
	KindPullRequestReviewComment
	KindPullRequest
)

func (k Kind) String() string {
	switch k {
	case KindIssueComment:
		return "IssueComment"
	case KindPullRequestReviewComment:
		return "PullRequestReviewComment"
	case KindPullRequest:
		return "PullRequest"
	default:
		return "Unknown"
	}
}

// WebhookEvent is the tagged union over the three event families the relay
// forwards (spec.md §3). Exactly one of the comment/pr fields is non-nil,
// matching Kind, except in the zero value (Kind 0, both nil) that Decode
// returns for an unforwarded action; PRKey must not be called on it.
type WebhookEvent struct {
	kind    Kind
	comment *CommentEvent
	pr      *PullRequestEvent
}

func (e WebhookEvent) Kind() Kind { return e.kind }

// PRKey returns the routing/subscription key carried by whichever variant
// is set.
func (e WebhookEvent) PRKey() model.PRKey {
	if e.comment != nil {
		return e.comment.PRKey
	}
	return e.pr.PRKey
}

// Comment returns the comment payload and true if this is an IssueComment
// or PullRequestReviewComment event.
func (e WebhookEvent) Comment() (CommentEvent, bool) {
	if e.comment == nil {
		return CommentEvent{}, false
	}
	return *e.comment, true
}

// PullRequest returns the pull-request payload and true if this is a
// PullRequest event.
func (e WebhookEvent) PullRequest() (PullRequestEvent, bool) {
	if e.pr == nil {
		return PullRequestEvent{}, false
	}
	return *e.pr, true
}

// CommentAction enumerates the actions forwarded for comment events.
type CommentAction string

const (
	CommentCreated CommentAction = "created"
	CommentEdited  CommentAction = "edited"
	CommentDeleted CommentAction = "deleted"
)

// CommentEvent backs both IssueComment and PullRequestReviewComment; which
// one it represents is carried by the enclosing WebhookEvent.Kind.
type CommentEvent struct {
	Action  CommentAction
	PRKey   model.PRKey
	Comment model.Comment
}

// PullRequestAction enumerates the pull_request actions the relay
// forwards. The full upstream action list is source-implementation-defined
// (spec.md Open Questions); this is the set a PR review client cares about.
type PullRequestAction string

const (
	PullRequestOpened          PullRequestAction = "opened"
	PullRequestClosed          PullRequestAction = "closed"
	PullRequestReopened        PullRequestAction = "reopened"
	PullRequestSynchronize     PullRequestAction = "synchronize"
	PullRequestEdited          PullRequestAction = "edited"
	PullRequestReviewRequested PullRequestAction = "review_requested"
)

var forwardedPullRequestActions = map[PullRequestAction]bool{
	PullRequestOpened:          true,
	PullRequestClosed:          true,
	PullRequestReopened:        true,
	PullRequestSynchronize:     true,
	PullRequestEdited:          true,
	PullRequestReviewRequested: true,
}

// PullRequestEvent backs the PullRequest variant.
type PullRequestEvent struct {
	Action PullRequestAction
	PRKey  model.PRKey
}
