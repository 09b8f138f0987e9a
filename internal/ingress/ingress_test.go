package ingress

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/event"
	"github.com/bsteffaniak/chadreview-relay/internal/domain/model"
	"github.com/bsteffaniak/chadreview-relay/internal/domain/registry"
	"github.com/bsteffaniak/chadreview-relay/internal/telemetry"
)

func newTestIngress(t *testing.T, secret string) (*Ingress, *registry.Registry) {
	t.Helper()
	reg := registry.NewRegistry()
	m, err := telemetry.New()
	require.NoError(t, err)
	logger := slog.New(slog.DiscardHandler)
	return New(secret, reg, m, logger), reg
}

const issueCommentBody = `{
  "action": "created",
  "repository": {"name": "hi", "owner": {"login": "octo"}},
  "issue": {"number": 7},
  "comment": {"id": 1, "user": {"login": "alice"}, "body": "lgtm"}
}`

func TestIngress_BadSignatureRejected(t *testing.T) {
	in, _ := newTestIngress(t, "shh")

	out := in.Handle(Request{
		InstanceID: "inst-1",
		HeaderType: event.HeaderIssueComment,
		Signature:  "sha256=0000",
		Body:       []byte(issueCommentBody),
	})

	assert.Equal(t, 401, out.Status)
	assert.False(t, out.Delivered)
	assert.Equal(t, ReasonBadSignature, out.Reason)
}

func TestIngress_NoSecretSkipsVerification(t *testing.T) {
	in, reg := newTestIngress(t, "")
	conn := registry.NewConnection("inst-1", 8)
	conn.Subscriptions().Add(model.PRKey{Owner: "octo", Repo: "hi", Number: 7})
	reg.Register(conn)

	out := in.Handle(Request{
		InstanceID: "inst-1",
		HeaderType: event.HeaderIssueComment,
		Signature:  "garbage",
		Body:       []byte(issueCommentBody),
	})

	assert.True(t, out.Delivered)
}

func TestIngress_UnsupportedEventTypeDropped(t *testing.T) {
	in, _ := newTestIngress(t, "")

	out := in.Handle(Request{
		InstanceID: "inst-1",
		HeaderType: event.HeaderEventType("check_run"),
		Body:       []byte(`{}`),
	})

	assert.True(t, out.Dropped)
	assert.Equal(t, ReasonUnsupportedEvent, out.Reason)
	assert.Equal(t, 202, out.Status)
}

func TestIngress_MalformedPayloadRejected(t *testing.T) {
	in, _ := newTestIngress(t, "")

	out := in.Handle(Request{
		InstanceID: "inst-1",
		HeaderType: event.HeaderIssueComment,
		Body:       []byte(`not json`),
	})

	assert.Equal(t, 400, out.Status)
	assert.Equal(t, ReasonMalformedPayload, out.Reason)
}

func TestIngress_UnsupportedActionDropped(t *testing.T) {
	in, _ := newTestIngress(t, "")

	out := in.Handle(Request{
		InstanceID: "inst-1",
		HeaderType: event.HeaderIssueComment,
		Body: []byte(`{
			"action": "locked",
			"repository": {"name": "hi", "owner": {"login": "octo"}},
			"issue": {"number": 7},
			"comment": {"id": 1, "user": {"login": "alice"}, "body": "lgtm"}
		}`),
	})

	assert.True(t, out.Dropped)
	assert.Equal(t, ReasonUnsupportedAction, out.Reason)
}

func TestIngress_NoInstanceDropped(t *testing.T) {
	in, _ := newTestIngress(t, "")

	out := in.Handle(Request{
		InstanceID: "unknown-inst",
		HeaderType: event.HeaderIssueComment,
		Body:       []byte(issueCommentBody),
	})

	assert.True(t, out.Dropped)
	assert.Equal(t, ReasonNoInstance, out.Reason)
}

func TestIngress_NotSubscribedDropped(t *testing.T) {
	in, reg := newTestIngress(t, "")
	reg.Register(registry.NewConnection("inst-1", 8))

	out := in.Handle(Request{
		InstanceID: "inst-1",
		HeaderType: event.HeaderIssueComment,
		Body:       []byte(issueCommentBody),
	})

	assert.True(t, out.Dropped)
	assert.Equal(t, ReasonNotSubscribed, out.Reason)
}

func TestIngress_BackpressureDropped(t *testing.T) {
	in, reg := newTestIngress(t, "")
	conn := registry.NewConnection("inst-1", 0)
	conn.Subscriptions().Add(model.PRKey{Owner: "octo", Repo: "hi", Number: 7})
	reg.Register(conn)

	out := in.Handle(Request{
		InstanceID: "inst-1",
		HeaderType: event.HeaderIssueComment,
		Body:       []byte(issueCommentBody),
	})

	assert.True(t, out.Dropped)
	assert.Equal(t, ReasonBackpressure, out.Reason)
}

func TestIngress_DeliveredEnqueuesOnConnection(t *testing.T) {
	in, reg := newTestIngress(t, "")
	conn := registry.NewConnection("inst-1", 8)
	key := model.PRKey{Owner: "octo", Repo: "hi", Number: 7}
	conn.Subscriptions().Add(key)
	reg.Register(conn)

	out := in.Handle(Request{
		InstanceID: "inst-1",
		HeaderType: event.HeaderIssueComment,
		Body:       []byte(issueCommentBody),
	})

	require.True(t, out.Delivered)
	assert.Equal(t, 202, out.Status)

	msg := <-conn.Outbound()
	assert.Equal(t, event.MessageWebhook, msg.Kind)
	assert.Equal(t, key, msg.PRKey)
	assert.Equal(t, "inst-1", msg.InstanceID)
}

func TestIngress_SetSecretRotatesLiveSecret(t *testing.T) {
	in, reg := newTestIngress(t, "old")
	conn := registry.NewConnection("inst-1", 8)
	conn.Subscriptions().Add(model.PRKey{Owner: "octo", Repo: "hi", Number: 7})
	reg.Register(conn)

	sig := sign([]byte("new"), []byte(issueCommentBody))

	out := in.Handle(Request{InstanceID: "inst-1", HeaderType: event.HeaderIssueComment, Signature: sig, Body: []byte(issueCommentBody)})
	assert.Equal(t, 401, out.Status)

	in.SetSecret("new")

	out = in.Handle(Request{InstanceID: "inst-1", HeaderType: event.HeaderIssueComment, Signature: sig, Body: []byte(issueCommentBody)})
	assert.True(t, out.Delivered)
}
