package publish

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/livefir/onprty/internal/site"
	"github.com/livefir/onprty/internal/store"
)

// Service publishes stored sites and records the outcome on the record.
type Service struct {
	store     store.Store
	assembler *site.Assembler
	publisher Publisher
	logger    *zap.Logger
}

// NewService returns a Service. The assembler is switched to linked assets
// so published pages fetch styles.css and script.js separately.
func NewService(st store.Store, asm *site.Assembler, p Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     st,
		assembler: asm.With(site.WithAssetMode(site.Linked)),
		publisher: p,
		logger:    logger,
	}
}

// Publish renders the site and hands it to the publisher. On failure the
// site is marked as errored and the error is returned.
func (s *Service) Publish(ctx context.Context, id string) (string, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !s.assembler.HasTemplate(rec.Schema.Template) {
		return "", s.fail(ctx, id, fmt.Errorf("unknown template %q", rec.Schema.Template))
	}

	files := s.assembler.Render(&rec.Schema.GeneratedData, rec.Schema.Template)
	url, err := s.publisher.Publish(ctx, rec.Slug, files)
	if err != nil {
		return "", s.fail(ctx, id, err)
	}
	if err := s.store.SetStatus(ctx, id, store.StatusPublished, url); err != nil {
		return "", err
	}
	return url, nil
}

// Unpublish removes the public copy and returns the site to draft.
func (s *Service) Unpublish(ctx context.Context, id string) error {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.publisher.Unpublish(ctx, rec.Slug); err != nil {
		return err
	}
	return s.store.SetStatus(ctx, id, store.StatusDraft, "")
}

func (s *Service) fail(ctx context.Context, id string, cause error) error {
	s.logger.Error("publish failed", zap.String("site", id), zap.Error(cause))
	if err := s.store.SetStatus(ctx, id, store.StatusError, ""); err != nil {
		s.logger.Warn("failed to record publish error", zap.String("site", id), zap.Error(err))
	}
	return fmt.Errorf("publish %s: %w", id, cause)
}
