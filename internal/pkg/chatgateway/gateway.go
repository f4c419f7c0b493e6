// Package chatgateway adapts the external real-time messaging provider.
// The provider is an unreliable collaborator: it may time out, reject, or
// silently degrade, and callers must treat every operation as best-effort.
package chatgateway

import (
	"context"
	"fmt"
	"strings"
)

// ChannelID derives the deterministic identifier for the two-party channel
// between userA and userB: the sorted, hyphen-joined pair of user ids.
//
// This is a cross-component contract, not an implementation detail. The
// relationship reconciler and the fan-out delivery engine both derive
// channel ids independently with this function instead of sharing a lookup
// table, so ChannelID(a, b) == ChannelID(b, a) must always hold.
func ChannelID(userA, userB int64) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%d-%d", userA, userB)
}

// CounterpartyFromChannelID extracts the other participant from a
// deterministic channel id. It returns false when the id is malformed or
// does not include self.
func CounterpartyFromChannelID(channelID string, self int64) (int64, bool) {
	parts := strings.SplitN(channelID, "-", 2)
	if len(parts) != 2 {
		return 0, false
	}

	var a, b int64
	if _, err := fmt.Sscanf(parts[0], "%d", &a); err != nil {
		return 0, false
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &b); err != nil {
		return 0, false
	}

	switch self {
	case a:
		return b, true
	case b:
		return a, true
	}
	return 0, false
}

// UserRef identifies a user to the external provider.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Gateway is the set of provider operations the core consumes. Channel ids
// passed in and returned are always the deterministic pair ids produced by
// ChannelID.
type Gateway interface {
	// EnsureUsers makes the given users known to the provider.
	EnsureUsers(ctx context.Context, users []UserRef) error

	// EnsureChannel provisions the two-party channel if missing and
	// returns its deterministic id.
	EnsureChannel(ctx context.Context, userA, userB int64) (string, error)

	// Send delivers text on a channel and returns the provider's message id.
	Send(ctx context.Context, channelID string, senderID int64, text string) (string, error)

	// ChannelsForMember returns the ids of every channel that includes
	// the given user. Implementations that cannot answer this bulk query
	// return an error so callers can degrade to per-channel probing.
	ChannelsForMember(ctx context.Context, userID int64) ([]string, error)

	// ChannelHasMessages is a cheap existence probe for one channel.
	ChannelHasMessages(ctx context.Context, channelID string) (bool, error)
}
