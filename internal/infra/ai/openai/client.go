package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/medscan-relay/internal/domain/chat"
	"github.com/bryanwahyu/medscan-relay/internal/infra/ai/extract"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible API.
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 800
)

// Poster is the transport the client sends through (upstream.Client).
type Poster interface {
	Name() string
	PostJSON(ctx context.Context, endpoint string, payload any, headers http.Header) (json.RawMessage, error)
}

type Client struct {
	apiKey      string
	baseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	poster      Poster
}

func NewClient(poster Poster, apiKey, model, baseURL string) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:      apiKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		Model:       model,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		poster:      poster,
	}
}

// Complete sends conv as-is and returns choices[0].message.content.
func (c *Client) Complete(ctx context.Context, conv chat.Conversation) (string, error) {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.apiKey)

	raw, err := c.poster.PostJSON(ctx, c.baseURL+"/chat/completions", c.buildRequest(conv), h)
	if err != nil {
		return "", err
	}
	return extract.ChatText(c.poster.Name(), raw)
}

func (c *Client) buildRequest(conv chat.Conversation) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(conv))
	for _, m := range conv {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return openai.ChatCompletionRequest{
		Model:       c.Model,
		Messages:    msgs,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}
