package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	domai "github.com/bryanwahyu/medscan-relay/internal/domain/ai"
)

// maxErrorBody caps how much of a failed provider body ends up in UpstreamError.
const maxErrorBody = 512

// Client performs one JSON POST per call against a provider. No retries.
type Client struct {
	name   string
	http   *http.Client
	logger zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-call timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a Client labelled name; the label shows up in errors and logs.
func New(name string, opts ...Option) *Client {
	c := &Client{
		name:   name,
		http:   &http.Client{Timeout: 60 * time.Second},
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Name is the provider label.
func (c *Client) Name() string { return c.name }

// PostJSON sends payload to endpoint and returns the raw JSON body.
func (c *Client) PostJSON(ctx context.Context, endpoint string, payload any, headers http.Header) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &domai.DecodeError{Provider: c.name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, &domai.TransportError{Provider: c.name, Err: err}
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("provider", c.name).Str("host", hostOf(endpoint)).Msg("upstream unreachable")
		return nil, &domai.TransportError{Provider: c.name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domai.TransportError{Provider: c.name, Err: err}
	}

	c.logger.Debug().
		Str("provider", c.name).
		Str("host", hostOf(endpoint)).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Int("bytes", len(body)).
		Msg("upstream call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domai.UpstreamError{
			Provider:   c.name,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrorBody),
		}
	}

	if !json.Valid(body) {
		return nil, &domai.DecodeError{Provider: c.name, Err: errInvalidJSON(body)}
	}
	return json.RawMessage(body), nil
}

// hostOf keeps query strings (and any key in them) out of logs.
func hostOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return u.Host
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func errInvalidJSON(body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}
