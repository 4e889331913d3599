package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dailybrief-hq/ai-news-brief/internal/collector"
	"github.com/dailybrief-hq/ai-news-brief/internal/config"
	"github.com/dailybrief-hq/ai-news-brief/internal/digest"
	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
	"github.com/dailybrief-hq/ai-news-brief/internal/logger"
	"github.com/dailybrief-hq/ai-news-brief/internal/notify"
	"github.com/dailybrief-hq/ai-news-brief/internal/storage"
	"github.com/dailybrief-hq/ai-news-brief/internal/summary"
	"github.com/dailybrief-hq/ai-news-brief/pkg/sources"
)

// digestCollector is the collection stage contract the pipeline depends on.
type digestCollector interface {
	Run(ctx context.Context, srcs []sources.Source) (domain.Digest, error)
}

// Pipeline runs one collect -> notify pass and exits. Scheduling is external:
// the binary is invoked once per day by cron (or by hand), never loops.
type Pipeline struct {
	cfg       *config.Config
	sourceReg *sources.Registry
	collector digestCollector
	notifier  notify.Notifier
	store     storage.Store
	log       logger.Logger
}

// NewPipeline builds the production pipeline from config files.
func NewPipeline(cfg *config.Config, log logger.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	// Email config problems abort here, before any network or source I/O.
	notifier, err := notify.NewEmailNotifier(cfg.Email)
	if err != nil {
		return nil, err
	}

	sourceReg, err := sources.LoadRegistry(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources registry: %w", err)
	}
	sourceList := sourceReg.All()
	sourceIDs := make([]string, 0, len(sourceList))
	for _, s := range sourceList {
		sourceIDs = append(sourceIDs, s.ID)
	}
	log.InfoObj("sources registry loaded", "sources_meta", map[string]any{
		"count": len(sourceIDs),
		"ids":   sourceIDs,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ItemTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanup,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"item_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanup.Seconds()),
	})

	client := sources.DefaultHTTPClient(cfg.FetchTimeout)
	registry := sources.DefaultFetcherRegistry(client, sources.Options{
		MaxItems:        cfg.MaxItemsPerSource,
		FreshnessWindow: cfg.FreshnessWindow,
	})
	enricher := collector.NewEnricher(client, log)

	return &Pipeline{
		cfg:       cfg,
		sourceReg: sourceReg,
		collector: collector.NewService(registry, enricher, store, log),
		notifier:  notifier,
		store:     store,
		log:       log,
	}, nil
}

// Run executes the pipeline once: collect, persist the artifact, render, send.
func (p *Pipeline) Run(ctx context.Context) error {
	if p == nil || p.collector == nil || p.notifier == nil {
		return fmt.Errorf("pipeline is not initialized")
	}
	defer p.closeStore()

	srcs := p.sourceReg.All()
	if len(srcs) == 0 {
		return fmt.Errorf("no sources configured in %s", p.cfg.SourcesFile)
	}

	start := time.Now()
	p.log.InfoObj("run started", "run_meta", map[string]any{
		"sources_count": len(srcs),
		"started_at":    start.UTC(),
	})

	d, err := p.collector.Run(ctx, srcs)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	d = summary.Process(d)

	// The digest hands off between stages through the on-disk artifact so a
	// run's output stays inspectable after the process exits.
	path := digest.ArtifactPath(p.cfg.DigestDir, d.GeneratedAt)
	if err := digest.Write(path, d); err != nil {
		return err
	}
	loaded, err := digest.Read(path)
	if err != nil {
		return err
	}
	p.log.InfoObj("digest artifact written", "artifact_meta", map[string]any{
		"path":  path,
		"items": len(loaded.Items),
	})

	msg := notify.Render(loaded, p.cfg.Email.To)
	if err := p.notifier.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	p.log.InfoObj("run completed", "run_meta", map[string]any{
		"run_id":     loaded.RunID,
		"items":      len(loaded.Items),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (p *Pipeline) closeStore() {
	if p == nil || p.store == nil {
		return
	}
	if err := p.store.Close(); err != nil {
		p.log.ErrorObj("storage close failed", "error", err)
	}
}
