package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/model"
)

var testKey = model.PRKey{Owner: "octo", Repo: "hi", Number: 7}

func TestServerMessage_SubscribedWireShape(t *testing.T) {
	raw, err := json.Marshal(Subscribed(testKey))
	require.NoError(t, err)

	var decoded map[string]map[string]model.PRKey
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, testKey, decoded["Subscribed"]["pr_key"])
}

func TestServerMessage_PongWireShape(t *testing.T) {
	raw, err := json.Marshal(Pong())
	require.NoError(t, err)
	assert.JSONEq(t, `{"Pong":null}`, string(raw))
}

func TestServerMessage_WebhookWireShapeForComment(t *testing.T) {
	ev := WebhookEvent{
		kind:    KindIssueComment,
		comment: &CommentEvent{Action: CommentCreated, PRKey: testKey, Comment: model.Comment{ID: 1, Author: "alice", Body: "lgtm"}},
	}
	msg := Webhook("inst-1", testKey, ev)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded struct {
		Webhook struct {
			InstanceID string        `json:"instance_id"`
			PRKey      model.PRKey   `json:"pr_key"`
			Event      struct {
				IssueComment struct {
					Action  string        `json:"action"`
					PRKey   model.PRKey   `json:"pr_key"`
					Comment model.Comment `json:"comment"`
				} `json:"IssueComment"`
			} `json:"event"`
		} `json:"Webhook"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "inst-1", decoded.Webhook.InstanceID)
	assert.Equal(t, testKey, decoded.Webhook.PRKey)
	assert.Equal(t, "created", decoded.Webhook.Event.IssueComment.Action)
	assert.Equal(t, "alice", decoded.Webhook.Event.IssueComment.Comment.Author)
}
