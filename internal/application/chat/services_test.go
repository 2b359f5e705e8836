package chat

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/bryanwahyu/medscan-relay/internal/domain/ai"
	"github.com/bryanwahyu/medscan-relay/internal/domain/analysis"
	domain "github.com/bryanwahyu/medscan-relay/internal/domain/chat"
	"github.com/bryanwahyu/medscan-relay/internal/infra/ai/prompt"
	"github.com/bryanwahyu/medscan-relay/internal/infra/storage"
)

type fakeChat struct {
	reply string
	err   error
	convs []domain.Conversation
}

func (f *fakeChat) Complete(_ context.Context, conv domain.Conversation) (string, error) {
	f.convs = append(f.convs, conv)
	return f.reply, f.err
}

func newService() (*Service, *fakeChat, *storage.MemoryStore) {
	fc := &fakeChat{reply: "general info"}
	store := storage.NewMemoryStore()
	return &Service{Chat: fc, Store: store, Logger: zerolog.Nop()}, fc, store
}

func TestAssemble_EmptyUsesDefaultGreeting(t *testing.T) {
	svc, _, _ := newService()

	conv, err := svc.Assemble(context.Background(), "", nil)

	require.NoError(t, err)
	assert.Equal(t, domain.Conversation{
		{Role: domain.RoleSystem, Content: prompt.GetGuardrailPrompt()},
		{Role: domain.RoleUser, Content: prompt.DefaultGreeting},
	}, conv)
}

func TestAssemble_PreservesCallerMessages(t *testing.T) {
	svc, _, _ := newService()
	msgs := []domain.Message{
		{Role: domain.RoleUser, Content: "what is an MRI?"},
		{Role: domain.RoleAssistant, Content: "a scan"},
		{Role: domain.RoleUser, Content: "  and CT?  "},
	}

	conv, err := svc.Assemble(context.Background(), "", msgs)

	require.NoError(t, err)
	require.Len(t, conv, 4)
	assert.Equal(t, domain.RoleSystem, conv[0].Role)
	assert.Equal(t, prompt.GetGuardrailPrompt(), conv[0].Content)
	assert.Equal(t, msgs, []domain.Message(conv[1:]))
}

func TestAssemble_InjectsPublishedAnalysis(t *testing.T) {
	svc, _, store := newService()
	require.NoError(t, store.Publish(context.Background(), analysis.Analysis{Text: "clear lung fields"}))

	conv, err := svc.Assemble(context.Background(), "", []domain.Message{{Role: domain.RoleUser, Content: "hi"}})

	require.NoError(t, err)
	require.Len(t, conv, 3)
	assert.Equal(t, domain.Message{
		Role:    domain.RoleSystem,
		Content: "The user previously uploaded a medical scan with the following analysis: clear lung fields",
	}, conv[1])
	assert.Len(t, conv.System(), 2)
}

func TestAssemble_EmptyAnalysisNotInjected(t *testing.T) {
	svc, _, store := newService()
	require.NoError(t, store.Publish(context.Background(), analysis.Analysis{Text: ""}))

	conv, err := svc.Assemble(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Len(t, conv.System(), 1)
}

func TestAssemble_OtherSessionNotVisible(t *testing.T) {
	svc, _, store := newService()
	require.NoError(t, store.Publish(context.Background(), analysis.Analysis{SessionID: "other", Text: "x"}))

	conv, err := svc.Assemble(context.Background(), "mine", nil)
	require.NoError(t, err)
	assert.Len(t, conv, 2)
}

func TestAssemble_RejectsUnknownRole(t *testing.T) {
	svc, _, _ := newService()
	_, err := svc.Assemble(context.Background(), "", []domain.Message{{Role: "tool", Content: "x"}})

	var ve *domai.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "messages[0].role", ve.Field)
}

func TestReply_DoesNotTouchStore(t *testing.T) {
	svc, fc, store := newService()
	require.NoError(t, store.Publish(context.Background(), analysis.Analysis{Text: "scan"}))

	reply, err := svc.Reply(context.Background(), "", nil)

	require.NoError(t, err)
	assert.Equal(t, "general info", reply)
	require.Len(t, fc.convs, 1)
	a, _, _ := store.Latest(context.Background(), "")
	assert.Equal(t, "scan", a.Text)
	assert.Equal(t, 1, store.Len())
}

func TestReply_IdenticalCallsIdenticalConversations(t *testing.T) {
	svc, fc, _ := newService()
	msgs := []domain.Message{{Role: domain.RoleUser, Content: "hello"}}

	_, err := svc.Reply(context.Background(), "", msgs)
	require.NoError(t, err)
	_, err = svc.Reply(context.Background(), "", msgs)
	require.NoError(t, err)

	require.Len(t, fc.convs, 2)
	assert.Equal(t, fc.convs[0], fc.convs[1])
}

func TestSimpleReply_MatchesChat(t *testing.T) {
	svc, fc, store := newService()
	require.NoError(t, store.Publish(context.Background(), analysis.Analysis{Text: "scan"}))

	_, err := svc.SimpleReply(context.Background(), "", "hello")
	require.NoError(t, err)
	_, err = svc.Reply(context.Background(), "", []domain.Message{{Role: domain.RoleUser, Content: "hello"}})
	require.NoError(t, err)

	require.Len(t, fc.convs, 2)
	assert.Equal(t, fc.convs[1], fc.convs[0])
}

func TestReply_PropagatesProviderError(t *testing.T) {
	svc, fc, _ := newService()
	fc.err = &domai.UpstreamError{Provider: "groq", StatusCode: 500}

	_, err := svc.Reply(context.Background(), "", nil)

	var ue *domai.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 500, ue.StatusCode)
}
