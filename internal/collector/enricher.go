package collector

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
	"github.com/dailybrief-hq/ai-news-brief/internal/logger"
	"github.com/dailybrief-hq/ai-news-brief/pkg/httpclient"
	"github.com/dailybrief-hq/ai-news-brief/pkg/sources"
)

const maxHTMLBodyBytes = 1 << 20 // 1 MiB

// Enricher fetches article pages for items that arrived without a summary and
// merges metadata from OG tags.
type Enricher struct {
	client httpclient.Client
	log    logger.Logger
}

// NewEnricher constructs an enricher with the provided HTTP client (or default).
func NewEnricher(client httpclient.Client, log logger.Logger) *Enricher {
	if client == nil {
		client = sources.DefaultHTTPClient(0)
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Enricher{client: client, log: log}
}

// Enrich iterates items missing a summary, fetching each page (with
// throttling) and merging OG metadata. Failures leave the item untouched.
func (e *Enricher) Enrich(ctx context.Context, src sources.Source, items []domain.NewsItem) []domain.NewsItem {
	delay := src.RequestDelay()
	// seed output with originals so we can return what we have on abort
	out := append([]domain.NewsItem(nil), items...)

	for i, item := range items {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		if strings.TrimSpace(item.Summary) != "" {
			continue
		}

		enriched, err := e.fetchAndParse(ctx, src, item)
		if err != nil {
			e.log.WarnObj("item metadata scrape failed", "metadata_error", map[string]any{
				"source_id": src.ID,
				"url":       item.URL,
				"error":     err.Error(),
			})
			continue
		}
		out[i] = enriched

		if delay > 0 && i < len(items)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
	}

	return out
}

func (e *Enricher) fetchAndParse(ctx context.Context, src sources.Source, item domain.NewsItem) (domain.NewsItem, error) {
	resp, err := e.client.Get(ctx, item.URL, sources.Headers(src))
	if err != nil {
		return item, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != 200 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return item, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return item, err
	}

	updated := item
	if updated.Title == "" && meta.Title != "" {
		updated.Title = meta.Title
	}
	if meta.Description != "" {
		updated.Summary = meta.Description
	}
	return updated, nil
}

type pageMeta struct {
	Title       string
	Description string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	pm := pageMeta{}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	pm.Title = firstNonEmpty(
		extract(`meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)
	pm.Description = firstNonEmpty(
		extract(`meta[property="og:description"]`),
		extract(`meta[name="description"]`),
	)

	return pm, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
