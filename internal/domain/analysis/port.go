package analysis

import "context"

// Store holds the latest published analysis per session key.
// The empty session key is the process-wide shared slot.
type Store interface {
	// Publish overwrites the slot for a.SessionID.
	Publish(ctx context.Context, a Analysis) error
	// Latest returns the slot for sessionID; ok is false when nothing was published.
	Latest(ctx context.Context, sessionID string) (a Analysis, ok bool, err error)
}
