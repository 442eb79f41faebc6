package registration

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Action is the answer carried by a confirmation button.
type Action string

const (
	ActionConfirm Action = "yes"
	ActionKeep    Action = "no"
)

const actionPrefix = "typo"

// EncodeAction builds the token for a confirmation button, e.g.
// "typo:yes:6f1c...". Only the pending id travels; the city values stay on
// the server, so user text never needs escaping.
func EncodeAction(a Action, pendingID string) string {
	return actionPrefix + ":" + string(a) + ":" + pendingID
}

// DecodeAction parses a token produced by EncodeAction.
func DecodeAction(token string) (Action, string, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != actionPrefix {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedAction, token)
	}
	a := Action(parts[1])
	if a != ActionConfirm && a != ActionKeep {
		return "", "", fmt.Errorf("%w: unknown answer %q", ErrMalformedAction, parts[1])
	}
	id, err := uuid.Parse(parts[2])
	if err != nil || len(parts[2]) != 36 {
		return "", "", fmt.Errorf("%w: bad id %q", ErrMalformedAction, parts[2])
	}
	return a, id.String(), nil
}
