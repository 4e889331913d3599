package collector

import (
	"context"

	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
	"github.com/dailybrief-hq/ai-news-brief/pkg/sources"
)

// ItemEnricher fills in missing item metadata (e.g., OG tags from the article page).
type ItemEnricher interface {
	Enrich(ctx context.Context, src sources.Source, items []domain.NewsItem) []domain.NewsItem
}
