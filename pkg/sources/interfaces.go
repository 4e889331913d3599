package sources

import (
	"context"

	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
	"github.com/dailybrief-hq/ai-news-brief/pkg/httpclient"
)

// Fetcher retrieves and extracts news items for a source. Concrete
// implementations live in type-specific files (arxiv.go, rss.go).
type Fetcher interface {
	Type() string
	Fetch(ctx context.Context, src Source) ([]domain.NewsItem, error)
}

// FetcherRegistry resolves the fetcher implementation for a given source config.
type FetcherRegistry interface {
	FetcherFor(src Source) (Fetcher, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within sources.
type HTTPClient = httpclient.Client
