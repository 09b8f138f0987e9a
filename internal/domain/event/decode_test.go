package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/model"
)

func TestDecode_IssueCommentCreated(t *testing.T) {
	raw := []byte(`{
		"action": "created",
		"repository": {"name": "hi", "owner": {"login": "octo"}},
		"issue": {"number": 7},
		"comment": {"id": 1, "user": {"login": "alice"}, "body": "lgtm"}
	}`)

	ev, err := Decode(HeaderIssueComment, raw)
	require.NoError(t, err)
	assert.Equal(t, KindIssueComment, ev.Kind())

	c, ok := ev.Comment()
	require.True(t, ok)
	assert.Equal(t, CommentCreated, c.Action)
	assert.Equal(t, model.PRKey{Owner: "octo", Repo: "hi", Number: 7}, c.PRKey)
	assert.Equal(t, "alice", c.Comment.Author)
}

func TestDecode_CommentFallsBackToOriginalPosition(t *testing.T) {
	raw := []byte(`{
		"action": "edited",
		"repository": {"name": "hi", "owner": {"login": "octo"}},
		"pull_request": {"number": 3},
		"comment": {
			"id": 2, "user": {"login": "bob"}, "body": "x",
			"line": 0, "side": "",
			"original_line": 42, "original_side": "LEFT"
		}
	}`)

	ev, err := Decode(HeaderPullRequestComment, raw)
	require.NoError(t, err)
	c, ok := ev.Comment()
	require.True(t, ok)
	assert.Equal(t, 42, c.Comment.Line)
	assert.Equal(t, model.SideLeft, c.Comment.Side)
}

func TestDecode_PullRequestSynchronizeForwarded(t *testing.T) {
	raw := []byte(`{
		"action": "synchronize",
		"repository": {"name": "hi", "owner": {"login": "octo"}},
		"pull_request": {"number": 9}
	}`)

	ev, err := Decode(HeaderPullRequest, raw)
	require.NoError(t, err)
	assert.Equal(t, KindPullRequest, ev.Kind())

	p, ok := ev.PullRequest()
	require.True(t, ok)
	assert.Equal(t, PullRequestSynchronize, p.Action)
}

func TestDecode_UnforwardedActionYieldsZeroValue(t *testing.T) {
	raw := []byte(`{
		"action": "locked",
		"repository": {"name": "hi", "owner": {"login": "octo"}},
		"issue": {"number": 7},
		"comment": {"id": 1, "user": {"login": "alice"}, "body": "lgtm"}
	}`)

	ev, err := Decode(HeaderIssueComment, raw)
	require.NoError(t, err)
	assert.Equal(t, Kind(0), ev.Kind())
}

func TestDecode_MalformedJSONIsErrMalformedPayload(t *testing.T) {
	_, err := Decode(HeaderIssueComment, []byte(`not json`))
	assert.True(t, errors.Is(err, model.ErrMalformedPayload))
}

func TestDecode_MissingRequiredFieldIsErrMalformedPayload(t *testing.T) {
	raw := []byte(`{"action": "created", "repository": {"name": "hi", "owner": {"login": "octo"}}, "issue": {"number": 7}}`)
	_, err := Decode(HeaderIssueComment, raw)
	assert.True(t, errors.Is(err, model.ErrMalformedPayload))
}

func TestDecode_UnsupportedHeaderType(t *testing.T) {
	_, err := Decode(HeaderEventType("check_run"), []byte(`{}`))
	assert.Error(t, err)
}
