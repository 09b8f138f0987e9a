package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/model"
)

// HeaderEventType is the set of X-Forge-Event values the ingress gate
// allows through to decode (spec.md §4.D step 2).
type HeaderEventType string

const (
	HeaderIssueComment       HeaderEventType = "issue_comment"
	HeaderPullRequestComment HeaderEventType = "pull_request_review_comment"
	HeaderPullRequest        HeaderEventType = "pull_request"
)

// SupportedHeaderEventTypes is the allow-set from spec.md §4.D step 2.
var SupportedHeaderEventTypes = map[HeaderEventType]bool{
	HeaderIssueComment:       true,
	HeaderPullRequestComment: true,
	HeaderPullRequest:        true,
}

// rawRepository mirrors the subset of the upstream forge's JSON schema the
// relay reads (spec.md §6: "read fields only").
type rawRepository struct {
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type rawUser struct {
	Login string `json:"login"`
}

type rawComment struct {
	ID        int64     `json:"id"`
	User      rawUser   `json:"user"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Path      string    `json:"path"`
	Side      string    `json:"side"`
	Line      int       `json:"line"`
	// OriginalLine/OriginalSide cover the case where the comment anchors to
	// a position that has since scrolled out of the diff (spec.md §6).
	OriginalLine int    `json:"original_line"`
	OriginalSide string `json:"original_side"`
}

func (c rawComment) toModel() model.Comment {
	side := c.Side
	line := c.Line
	if side == "" {
		side = c.OriginalSide
	}
	if line == 0 {
		line = c.OriginalLine
	}
	return model.Comment{
		ID:        c.ID,
		Author:    c.User.Login,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Path:      c.Path,
		Side:      model.CommentSide(side),
		Line:      line,
	}
}

type rawIssueCommentPayload struct {
	Action     string        `json:"action"`
	Repository rawRepository `json:"repository"`
	Issue      struct {
		Number int `json:"number"`
	} `json:"issue"`
	Comment rawComment `json:"comment"`
}

type rawPullRequestCommentPayload struct {
	Action      string        `json:"action"`
	Repository  rawRepository `json:"repository"`
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
	Comment rawComment `json:"comment"`
}

type rawPullRequestPayload struct {
	Action      string        `json:"action"`
	Repository  rawRepository `json:"repository"`
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
}

// Decode parses raw into the WebhookEvent variant matching headerType.
//
// It returns (event, nil) when the payload is recognized and forwardable,
// (WebhookEvent{}, nil) — the zero value — when the event family is
// recognized but the action is not one the relay forwards (the caller
// treats this as Dropped(unsupported_action), per spec.md §4.A), and
// (WebhookEvent{}, model.ErrMalformedPayload) when a required field is
// absent or ill-typed.
func Decode(headerType HeaderEventType, raw []byte) (WebhookEvent, error) {
	switch headerType {
	case HeaderIssueComment:
		return decodeIssueComment(raw)
	case HeaderPullRequestComment:
		return decodePullRequestComment(raw)
	case HeaderPullRequest:
		return decodePullRequest(raw)
	default:
		return WebhookEvent{}, fmt.Errorf("event: unsupported header type %q", headerType)
	}
}

func decodeIssueComment(raw []byte) (WebhookEvent, error) {
	var p rawIssueCommentPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", model.ErrMalformedPayload, err)
	}

	key := model.PRKey{Owner: p.Repository.Owner.Login, Repo: p.Repository.Name, Number: p.Issue.Number}
	if p.Action == "" || p.Comment.ID == 0 || !key.Valid() {
		return WebhookEvent{}, model.ErrMalformedPayload
	}

	action, ok := commentActionOf(p.Action)
	if !ok {
		return WebhookEvent{}, nil
	}

	return WebhookEvent{
		kind: KindIssueComment,
		comment: &CommentEvent{
			Action:  action,
			PRKey:   key,
			Comment: p.Comment.toModel(),
		},
	}, nil
}

func decodePullRequestComment(raw []byte) (WebhookEvent, error) {
	var p rawPullRequestCommentPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", model.ErrMalformedPayload, err)
	}

	key := model.PRKey{Owner: p.Repository.Owner.Login, Repo: p.Repository.Name, Number: p.PullRequest.Number}
	if p.Action == "" || p.Comment.ID == 0 || !key.Valid() {
		return WebhookEvent{}, model.ErrMalformedPayload
	}

	action, ok := commentActionOf(p.Action)
	if !ok {
		return WebhookEvent{}, nil
	}

	return WebhookEvent{
		kind: KindPullRequestReviewComment,
		comment: &CommentEvent{
			Action:  action,
			PRKey:   key,
			Comment: p.Comment.toModel(),
		},
	}, nil
}

func decodePullRequest(raw []byte) (WebhookEvent, error) {
	var p rawPullRequestPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", model.ErrMalformedPayload, err)
	}

	key := model.PRKey{Owner: p.Repository.Owner.Login, Repo: p.Repository.Name, Number: p.PullRequest.Number}
	if p.Action == "" || !key.Valid() {
		return WebhookEvent{}, model.ErrMalformedPayload
	}

	action := PullRequestAction(p.Action)
	if !forwardedPullRequestActions[action] {
		return WebhookEvent{}, nil
	}

	return WebhookEvent{
		kind: KindPullRequest,
		pr:   &PullRequestEvent{Action: action, PRKey: key},
	}, nil
}

func commentActionOf(raw string) (CommentAction, bool) {
	switch CommentAction(raw) {
	case CommentCreated:
		return CommentCreated, true
	case CommentEdited:
		return CommentEdited, true
	case CommentDeleted:
		return CommentDeleted, true
	default:
		return "", false
	}
}
