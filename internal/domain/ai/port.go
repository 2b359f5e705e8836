package ai

import (
	"context"

	"github.com/bryanwahyu/medscan-relay/internal/domain/chat"
)

// VisionClient describes an image-understanding provider.
type VisionClient interface {
	DescribeImage(ctx context.Context, data []byte, mediaType string) (string, error)
}

// ChatClient describes a chat-completion provider.
type ChatClient interface {
	Complete(ctx context.Context, conv chat.Conversation) (string, error)
}
