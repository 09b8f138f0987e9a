package event

import (
	"encoding/json"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/model"
)

// MessageKind tags the variant of a ServerMessage.
type MessageKind uint8

const (
	MessageSubscribed MessageKind = iota + 1
	MessageUnsubscribed
	MessagePong
	MessageWebhook
)

// ServerMessage is the tagged union sent on the socket (spec.md §6):
//
//	{"Subscribed":   {"pr_key": PrKey}}
//	{"Unsubscribed": {"pr_key": PrKey}}
//	{"Pong": null}
//	{"Webhook": {"instance_id": string, "pr_key": PrKey, "event": WebhookEvent}}
type ServerMessage struct {
	Kind       MessageKind
	PRKey      model.PRKey
	InstanceID string
	Event      WebhookEvent
}

func Subscribed(key model.PRKey) ServerMessage {
	return ServerMessage{Kind: MessageSubscribed, PRKey: key}
}

func Unsubscribed(key model.PRKey) ServerMessage {
	return ServerMessage{Kind: MessageUnsubscribed, PRKey: key}
}

func Pong() ServerMessage {
	return ServerMessage{Kind: MessagePong}
}

func Webhook(instanceID string, key model.PRKey, ev WebhookEvent) ServerMessage {
	return ServerMessage{Kind: MessageWebhook, InstanceID: instanceID, PRKey: key, Event: ev}
}

// webhookEventWire is the JSON shape of the "event" field inside a Webhook
// ServerMessage: a tagged union over the three forwardable families.
type webhookEventWire struct {
	IssueComment             *commentWire `json:"IssueComment,omitempty"`
	PullRequestReviewComment *commentWire `json:"PullRequestReviewComment,omitempty"`
	PullRequest              *prWire      `json:"PullRequest,omitempty"`
}

type commentWire struct {
	Action  CommentAction `json:"action"`
	PRKey   model.PRKey   `json:"pr_key"`
	Comment model.Comment `json:"comment"`
}

type prWire struct {
	Action PullRequestAction `json:"action"`
	PRKey  model.PRKey       `json:"pr_key"`
}

func toWire(ev WebhookEvent) webhookEventWire {
	switch ev.Kind() {
	case KindIssueComment:
		c, _ := ev.Comment()
		return webhookEventWire{IssueComment: &commentWire{Action: c.Action, PRKey: c.PRKey, Comment: c.Comment}}
	case KindPullRequestReviewComment:
		c, _ := ev.Comment()
		return webhookEventWire{PullRequestReviewComment: &commentWire{Action: c.Action, PRKey: c.PRKey, Comment: c.Comment}}
	case KindPullRequest:
		p, _ := ev.PullRequest()
		return webhookEventWire{PullRequest: &prWire{Action: p.Action, PRKey: p.PRKey}}
	default:
		return webhookEventWire{}
	}
}

// MarshalJSON encodes m using the exact externally-frozen tagged-union
// schema from spec.md §6.
func (m ServerMessage) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case MessageSubscribed:
		return json.Marshal(map[string]any{"Subscribed": prKeyBody{PRKey: m.PRKey}})
	case MessageUnsubscribed:
		return json.Marshal(map[string]any{"Unsubscribed": prKeyBody{PRKey: m.PRKey}})
	case MessagePong:
		return json.Marshal(map[string]any{"Pong": nil})
	case MessageWebhook:
		return json.Marshal(map[string]any{"Webhook": struct {
			InstanceID string            `json:"instance_id"`
			PRKey      model.PRKey       `json:"pr_key"`
			Event      webhookEventWire  `json:"event"`
		}{
			InstanceID: m.InstanceID,
			PRKey:      m.PRKey,
			Event:      toWire(m.Event),
		}})
	default:
		return json.Marshal(map[string]any{})
	}
}
