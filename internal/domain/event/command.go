package event

import (
	"encoding/json"
	"fmt"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/model"
)

// CommandKind tags the variant of a ClientCommand.
type CommandKind uint8

const (
	CommandSubscribe CommandKind = iota + 1
	CommandUnsubscribe
	CommandPing
)

// ClientCommand is the tagged union received on the socket (spec.md §6):
//
//	{"Subscribe":   {"pr_key": PrKey}}
//	{"Unsubscribe": {"pr_key": PrKey}}
//	{"Ping": null}
type ClientCommand struct {
	Kind  CommandKind
	PRKey model.PRKey
}

// ErrUnknownCommand is returned by UnmarshalClientCommand for a JSON object
// that does not have exactly one key, or whose single key does not match a
// known tag. Per spec.md §6, callers must
// treat this as "ignored" (no reply, no disconnect), not a protocol error.
var ErrUnknownCommand = fmt.Errorf("event: unknown client command")

// ErrMalformedFrame is returned by UnmarshalClientCommand when raw is not
// syntactically valid JSON, or is a known tag whose body doesn't match its
// schema. Unlike ErrUnknownCommand, spec.md §6 requires callers to close the
// connection with WebSocket code 1003 for this case.
var ErrMalformedFrame = fmt.Errorf("event: malformed client command frame")

type prKeyBody struct {
	PRKey model.PRKey `json:"pr_key"`
}

// UnmarshalClientCommand decodes a single JSON frame into a ClientCommand.
// Malformed JSON is reported via ErrMalformedFrame, distinct from an
// unrecognized-but-well-formed tag (ErrUnknownCommand), so the caller can
// apply spec.md §6's "malformed JSON closes the connection with code 1003"
// vs. "unknown tags are ignored" distinction.
func UnmarshalClientCommand(raw []byte) (ClientCommand, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ClientCommand{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if len(envelope) != 1 {
		return ClientCommand{}, ErrUnknownCommand
	}

	for tag, body := range envelope {
		switch tag {
		case "Subscribe":
			var b prKeyBody
			if err := json.Unmarshal(body, &b); err != nil {
				return ClientCommand{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
			}
			return ClientCommand{Kind: CommandSubscribe, PRKey: b.PRKey}, nil
		case "Unsubscribe":
			var b prKeyBody
			if err := json.Unmarshal(body, &b); err != nil {
				return ClientCommand{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
			}
			return ClientCommand{Kind: CommandUnsubscribe, PRKey: b.PRKey}, nil
		case "Ping":
			return ClientCommand{Kind: CommandPing}, nil
		default:
			return ClientCommand{}, ErrUnknownCommand
		}
	}

	return ClientCommand{}, ErrUnknownCommand
}
