package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
	"github.com/dailybrief-hq/ai-news-brief/internal/logger"
	"github.com/dailybrief-hq/ai-news-brief/internal/storage"
	"github.com/dailybrief-hq/ai-news-brief/pkg/sources"
)

// Service runs the collection stage across all configured sources. A source
// that fails leaves a partial digest; the stage only errors when every source
// failed.
type Service struct {
	registry sources.FetcherRegistry
	enricher ItemEnricher
	store    storage.Store
	log      logger.Logger
}

// NewService wires a collector with the source fetcher registry. The store
// filters items delivered in earlier runs; pass nil to disable.
func NewService(reg sources.FetcherRegistry, enricher ItemEnricher, store storage.Store, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		registry: reg,
		enricher: enricher,
		store:    store,
		log:      log,
	}
}

// Run executes one collection pass and returns the resulting digest.
func (s *Service) Run(ctx context.Context, srcs []sources.Source) (domain.Digest, error) {
	if s == nil || s.registry == nil {
		return domain.Digest{}, fmt.Errorf("collector service is not initialized")
	}
	if len(srcs) == 0 {
		return domain.Digest{}, fmt.Errorf("no sources configured for collection")
	}

	d := domain.Digest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	var errs []error
	for _, src := range srcs {
		items, err := s.runSource(ctx, src)
		if err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("source collection failed", "source_error", map[string]any{
				"source_id": src.ID,
				"error":     err.Error(),
			})
			continue
		}
		d.Items = append(d.Items, items...)
	}

	// Collection fails the run only when nothing could be fetched at all.
	if len(errs) == len(srcs) {
		return domain.Digest{}, fmt.Errorf("all sources failed: %w", errors.Join(errs...))
	}

	s.log.InfoObj("collection completed", "collection_result", map[string]any{
		"run_id":         d.RunID,
		"sources_total":  len(srcs),
		"sources_failed": len(errs),
		"items":          len(d.Items),
	})
	return d, nil
}

func (s *Service) runSource(ctx context.Context, src sources.Source) ([]domain.NewsItem, error) {
	fetcher, err := s.registry.FetcherFor(src)
	if err != nil {
		return nil, fmt.Errorf("resolve fetcher for source %s: %w", src.ID, err)
	}

	items, err := fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetch source %s: %w", src.ID, err)
	}

	items, err = s.filterSeen(items)
	if err != nil {
		return nil, fmt.Errorf("dedupe source %s: %w", src.ID, err)
	}

	if s.enricher != nil {
		items = s.enricher.Enrich(ctx, src, items)
	}

	if err := s.markDelivered(items); err != nil {
		return nil, fmt.Errorf("mark source %s items: %w", src.ID, err)
	}

	s.log.InfoObj("source collection completed", "source_result", map[string]any{
		"source_id":       src.ID,
		"items_collected": len(items),
	})
	return items, nil
}

// filterSeen drops items that were already delivered in an earlier run.
func (s *Service) filterSeen(items []domain.NewsItem) ([]domain.NewsItem, error) {
	if s.store == nil || len(items) == 0 {
		return items, nil
	}

	out := make([]domain.NewsItem, 0, len(items))
	for _, item := range items {
		seen, err := s.store.SeenItem(item.ID)
		if err != nil {
			return nil, err
		}
		if seen {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Service) markDelivered(items []domain.NewsItem) error {
	if s.store == nil {
		return nil
	}
	for _, item := range items {
		if err := s.store.MarkItem(item.ID); err != nil {
			return err
		}
	}
	return nil
}
