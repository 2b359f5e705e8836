package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	domai "github.com/bryanwahyu/medscan-relay/internal/domain/ai"
	"github.com/bryanwahyu/medscan-relay/internal/infra/ai/prompt"
)

const (
	DefaultURL   = "http://localhost:11434"
	DefaultModel = "llava"

	providerName = "ollama"
)

// Chatter is the subset of *api.Client used here.
type Chatter interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// Client runs scans through a local Ollama vision model.
type Client struct {
	chat  Chatter
	model string
}

// NewClient builds a client for the Ollama server at rawURL.
func NewClient(rawURL, model string, hc *http.Client) (*Client, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	base := &url.URL{Scheme: u.Scheme, Host: u.Host}
	return &Client{chat: api.NewClient(base, hc), model: model}, nil
}

// NewWithChatter is used by tests.
func NewWithChatter(c Chatter, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{chat: c, model: model}
}

// DescribeImage sends the scan prompt with the image attached. The media
// type is not needed; Ollama sniffs the bytes itself.
func (c *Client) DescribeImage(ctx context.Context, data []byte, _ string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt.GetScanPrompt(),
				Images:  []api.ImageData{api.ImageData(data)},
			},
		},
		Stream: &stream,
	}

	var text string
	err := c.chat.Chat(ctx, req, func(resp api.ChatResponse) error {
		text += resp.Message.Content
		return nil
	})
	if err != nil {
		var se api.StatusError
		if errors.As(err, &se) {
			return "", &domai.UpstreamError{Provider: providerName, StatusCode: se.StatusCode, Body: se.ErrorMessage}
		}
		return "", &domai.TransportError{Provider: providerName, Err: err}
	}
	if text == "" {
		return "", &domai.ResponseShapeError{Provider: providerName, Path: "message.content"}
	}
	return text, nil
}
