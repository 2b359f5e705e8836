package scans

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/medscan-relay/internal/application"
	domai "github.com/bryanwahyu/medscan-relay/internal/domain/ai"
	"github.com/bryanwahyu/medscan-relay/internal/domain/analysis"
	domain "github.com/bryanwahyu/medscan-relay/internal/domain/scans"
)

// Service implements the scan analysis use case. Safe for concurrent use.
type Service struct {
	Vision domai.VisionClient
	Store  analysis.Store
	Clock  application.Clock
	Logger zerolog.Logger
}

var _ domain.Analyzer = (*Service)(nil)

// Analyze sends the upload to the vision provider and, only once text has
// been extracted, publishes it under sessionID.
func (s *Service) Analyze(ctx context.Context, sessionID string, up domain.Upload) (domain.Result, error) {
	if len(up.Data) == 0 {
		return domain.Result{}, domai.Invalid("file", "uploaded file is empty")
	}
	if !up.IsImage() {
		return domain.Result{}, domai.Invalid("file", "unsupported media type %q", up.MediaType)
	}

	text, err := s.Vision.DescribeImage(ctx, up.Data, up.MediaType)
	if err != nil {
		s.Logger.Error().Err(err).
			Str("kind", string(domai.KindOf(err))).
			Str("media_type", up.MediaType).
			Int("bytes", len(up.Data)).
			Msg("scan analysis failed")
		return domain.Result{}, fmt.Errorf("analyze scan: %w", err)
	}

	if err := s.Store.Publish(ctx, analysis.Analysis{
		SessionID:   sessionID,
		Text:        text,
		PublishedAt: s.now(),
	}); err != nil {
		return domain.Result{}, fmt.Errorf("publish analysis: %w", err)
	}

	s.Logger.Info().
		Str("session", sessionID).
		Str("media_type", up.MediaType).
		Int("bytes", len(up.Data)).
		Int("analysis_len", len(text)).
		Msg("scan analyzed")
	return domain.Result{Analysis: text}, nil
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return s.Clock.Now()
}
