package scans

import "context"

// Analyzer runs one upload through the image-understanding provider and
// publishes the result for later chats.
type Analyzer interface {
	Analyze(ctx context.Context, sessionID string, up Upload) (Result, error)
}
