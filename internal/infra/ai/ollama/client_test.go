package ollama

import (
	"context"
	"errors"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/bryanwahyu/medscan-relay/internal/domain/ai"
	"github.com/bryanwahyu/medscan-relay/internal/infra/ai/prompt"
)

type fakeChatter struct {
	req     *api.ChatRequest
	replies []string
	err     error
}

func (f *fakeChatter) Chat(_ context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error {
	f.req = req
	if f.err != nil {
		return f.err
	}
	for _, r := range f.replies {
		if err := fn(api.ChatResponse{Message: api.Message{Role: "assistant", Content: r}}); err != nil {
			return err
		}
	}
	return nil
}

func TestDescribeImage(t *testing.T) {
	fc := &fakeChatter{replies: []string{"general ", "observations"}}
	c := NewWithChatter(fc, "llava:13b")

	text, err := c.DescribeImage(context.Background(), []byte("imgbytes"), "image/png")

	require.NoError(t, err)
	assert.Equal(t, "general observations", text)
	require.NotNil(t, fc.req)
	assert.Equal(t, "llava:13b", fc.req.Model)
	require.NotNil(t, fc.req.Stream)
	assert.False(t, *fc.req.Stream)
	require.Len(t, fc.req.Messages, 1)
	assert.Equal(t, prompt.GetScanPrompt(), fc.req.Messages[0].Content)
	require.Len(t, fc.req.Messages[0].Images, 1)
	assert.Equal(t, []byte("imgbytes"), []byte(fc.req.Messages[0].Images[0]))
}

func TestDescribeImage_ErrorMapping(t *testing.T) {
	cases := map[string]struct {
		chatter *fakeChatter
		kind    domai.Kind
	}{
		"status":    {&fakeChatter{err: api.StatusError{StatusCode: 404, ErrorMessage: "model not found"}}, domai.KindUpstream},
		"transport": {&fakeChatter{err: errors.New("dial tcp: connection refused")}, domai.KindTransport},
		"empty":     {&fakeChatter{}, domai.KindResponseShape},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewWithChatter(tc.chatter, "").DescribeImage(context.Background(), []byte("x"), "image/png")
			assert.Equal(t, tc.kind, domai.KindOf(err))
		})
	}
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("://bad", "", nil)
	assert.Error(t, err)

	c, err := NewClient("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.model)
}
