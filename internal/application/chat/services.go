package chat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	domai "github.com/bryanwahyu/medscan-relay/internal/domain/ai"
	"github.com/bryanwahyu/medscan-relay/internal/domain/analysis"
	domain "github.com/bryanwahyu/medscan-relay/internal/domain/chat"
	"github.com/bryanwahyu/medscan-relay/internal/infra/ai/prompt"
)

// Service implements the chat and simple-chat use cases.
// It only ever reads from Store.
type Service struct {
	Chat   domai.ChatClient
	Store  analysis.Store
	Logger zerolog.Logger
}

var _ domain.Replier = (*Service)(nil)

// Assemble builds the conversation sent to the chat provider:
// guardrail, then the session's latest analysis if any, then msgs
// verbatim (or the default greeting when msgs is empty).
func (s *Service) Assemble(ctx context.Context, sessionID string, msgs []domain.Message) (domain.Conversation, error) {
	for i, m := range msgs {
		if !m.Role.Valid() {
			return nil, domai.Invalid(fmt.Sprintf("messages[%d].role", i), "unknown role %q", m.Role)
		}
	}

	conv := make(domain.Conversation, 0, len(msgs)+2)
	conv = append(conv, domain.Message{Role: domain.RoleSystem, Content: prompt.GetGuardrailPrompt()})

	latest, ok, err := s.Store.Latest(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read analysis: %w", err)
	}
	if ok && latest.Text != "" {
		conv = append(conv, domain.Message{Role: domain.RoleSystem, Content: prompt.GetAnalysisContext(latest.Text)})
	}

	if len(msgs) == 0 {
		return append(conv, domain.Message{Role: domain.RoleUser, Content: prompt.DefaultGreeting}), nil
	}
	return append(conv, msgs...), nil
}

// Reply assembles the conversation and returns the provider's answer.
func (s *Service) Reply(ctx context.Context, sessionID string, msgs []domain.Message) (string, error) {
	conv, err := s.Assemble(ctx, sessionID, msgs)
	if err != nil {
		return "", err
	}

	reply, err := s.Chat.Complete(ctx, conv)
	if err != nil {
		s.Logger.Error().Err(err).
			Str("kind", string(domai.KindOf(err))).
			Int("messages", len(conv)).
			Msg("chat completion failed")
		return "", fmt.Errorf("chat: %w", err)
	}

	s.Logger.Debug().
		Str("session", sessionID).
		Int("messages", len(conv)).
		Int("system_messages", len(conv.System())).
		Msg("chat replied")
	return reply, nil
}

// SimpleReply treats text as a single user message.
func (s *Service) SimpleReply(ctx context.Context, sessionID, text string) (string, error) {
	return s.Reply(ctx, sessionID, []domain.Message{{Role: domain.RoleUser, Content: text}})
}
