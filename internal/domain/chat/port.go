package chat

import "context"

// Replier answers a conversation on behalf of a session.
type Replier interface {
	Reply(ctx context.Context, sessionID string, msgs []Message) (string, error)
	SimpleReply(ctx context.Context, sessionID, text string) (string, error)
}
