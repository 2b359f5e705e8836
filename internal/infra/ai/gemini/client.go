package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bryanwahyu/medscan-relay/internal/infra/ai/extract"
	"github.com/bryanwahyu/medscan-relay/internal/infra/ai/prompt"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
)

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

// Poster is the transport the client sends through (upstream.Client).
type Poster interface {
	Name() string
	PostJSON(ctx context.Context, endpoint string, payload any, headers http.Header) (json.RawMessage, error)
}

// Client talks to the Gemini generateContent endpoint.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	poster  Poster
}

func NewClient(poster Poster, apiKey, model, baseURL string) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		poster:  poster,
	}
}

// DescribeImage sends the scan prompt plus the image and returns the model's text.
func (c *Client) DescribeImage(ctx context.Context, data []byte, mediaType string) (string, error) {
	raw, err := c.poster.PostJSON(ctx, c.endpoint(), buildRequest(data, mediaType), c.headers())
	if err != nil {
		return "", err
	}
	return extract.ImageText(c.poster.Name(), raw)
}

func buildRequest(data []byte, mediaType string) generateRequest {
	return generateRequest{
		Contents: []content{
			{
				Parts: []part{
					{Text: prompt.GetScanPrompt()},
					{InlineData: &inlineData{
						MimeType: mediaType,
						Data:     base64.StdEncoding.EncodeToString(data),
					}},
				},
			},
		},
	}
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
}

// the key travels in a header so it never shows up in URLs or logs
func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("x-goog-api-key", c.apiKey)
	return h
}
