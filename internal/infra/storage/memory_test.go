package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/medscan-relay/internal/domain/analysis"
)

func TestMemoryStore_EmptyByDefault(t *testing.T) {
	s := NewMemoryStore()
	_, ok, err := s.Latest(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_OverwriteAndRead(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Publish(ctx, analysis.Analysis{Text: "first"}))
	require.NoError(t, s.Publish(ctx, analysis.Analysis{Text: "second"}))

	a, ok, err := s.Latest(ctx, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", a.Text)

	// reading does not consume
	a, ok, _ = s.Latest(ctx, "")
	assert.True(t, ok)
	assert.Equal(t, "second", a.Text)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Publish(ctx, analysis.Analysis{SessionID: "alice", Text: "knee"}))
	require.NoError(t, s.Publish(ctx, analysis.Analysis{SessionID: "bob", Text: "chest"}))

	a, _, _ := s.Latest(ctx, "alice")
	assert.Equal(t, "knee", a.Text)
	b, _, _ := s.Latest(ctx, "bob")
	assert.Equal(t, "chest", b.Text)
	_, ok, _ := s.Latest(ctx, "")
	assert.False(t, ok)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = s.Publish(ctx, analysis.Analysis{Text: fmt.Sprintf("scan-%d", i)})
		}(i)
		go func() {
			defer wg.Done()
			_, _, _ = s.Latest(ctx, "")
		}()
	}
	wg.Wait()

	a, ok, _ := s.Latest(ctx, "")
	require.True(t, ok)
	assert.Regexp(t, `^scan-\d+$`, a.Text)
}
