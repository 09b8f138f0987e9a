package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/model"
)

func TestUnmarshalClientCommand_Subscribe(t *testing.T) {
	raw := []byte(`{"Subscribe": {"pr_key": {"owner": "octo", "repo": "hi", "number": 7}}}`)

	cmd, err := UnmarshalClientCommand(raw)
	require.NoError(t, err)
	assert.Equal(t, CommandSubscribe, cmd.Kind)
	assert.Equal(t, model.PRKey{Owner: "octo", Repo: "hi", Number: 7}, cmd.PRKey)
}

func TestUnmarshalClientCommand_Ping(t *testing.T) {
	cmd, err := UnmarshalClientCommand([]byte(`{"Ping": null}`))
	require.NoError(t, err)
	assert.Equal(t, CommandPing, cmd.Kind)
}

func TestUnmarshalClientCommand_UnknownTagIsErrUnknownCommand(t *testing.T) {
	_, err := UnmarshalClientCommand([]byte(`{"Frobnicate": null}`))
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}

func TestUnmarshalClientCommand_MultiKeyObjectIsErrUnknownCommand(t *testing.T) {
	_, err := UnmarshalClientCommand([]byte(`{"Ping": null, "Subscribe": {}}`))
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}

func TestUnmarshalClientCommand_MalformedJSONIsErrMalformedFrame(t *testing.T) {
	_, err := UnmarshalClientCommand([]byte(`not json`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedFrame))
	assert.False(t, errors.Is(err, ErrUnknownCommand))
}

func TestUnmarshalClientCommand_BadSubscribeBodyIsErrMalformedFrame(t *testing.T) {
	_, err := UnmarshalClientCommand([]byte(`{"Subscribe": "not an object"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedFrame))
}
