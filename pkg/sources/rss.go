package sources

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
)

const (
	TypeRSS = "rss"

	rssMaxSummaryRunes = 200
	rssMaxItemsKey     = "max_items"
)

// rssFetcher parses RSS/Atom feeds through gofeed, newest first.
type rssFetcher struct {
	client    HTTPClient
	maxItems  int
	freshness time.Duration
	now       func() time.Time
}

// NewRSSFetcher builds a fetcher for RSS/Atom feed sources.
func NewRSSFetcher(client HTTPClient, opts Options) Fetcher {
	if client == nil {
		client = DefaultHTTPClient(0)
	}
	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = 5
	}
	freshness := opts.FreshnessWindow
	if freshness <= 0 {
		freshness = 72 * time.Hour
	}
	return &rssFetcher{
		client:    client,
		maxItems:  maxItems,
		freshness: freshness,
		now:       time.Now,
	}
}

func (f *rssFetcher) Type() string {
	return TypeRSS
}

func (f *rssFetcher) Fetch(ctx context.Context, src Source) ([]domain.NewsItem, error) {
	if !strings.EqualFold(src.Type, TypeRSS) {
		return nil, fmt.Errorf("rss fetcher received incompatible source type %q", src.Type)
	}
	if strings.TrimSpace(src.FeedURL) == "" {
		return nil, fmt.Errorf("source %q feed_url is empty", src.ID)
	}

	raw, err := fetchBody(ctx, f.client, src.FeedURL, src.ID, Headers(src))
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().ParseString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse feed for source %q: %w", src.ID, err)
	}

	// Newest first so the item cap keeps the freshest entries.
	sort.SliceStable(feed.Items, func(i, j int) bool {
		iTime := feed.Items[i].PublishedParsed
		jTime := feed.Items[j].PublishedParsed
		if iTime == nil || jTime == nil {
			return i < j
		}
		return iTime.After(*jTime)
	})

	maxItems := ConfigInt(src, rssMaxItemsKey, f.maxItems)
	cutoff := f.now().Add(-f.freshness)

	items := make([]domain.NewsItem, 0, maxItems)
	for _, entry := range feed.Items {
		if len(items) >= maxItems {
			break
		}

		link := strings.TrimSpace(entry.Link)
		title := strings.TrimSpace(entry.Title)
		if link == "" || title == "" {
			continue
		}

		var published time.Time
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
			if published.Before(cutoff) {
				continue
			}
		}

		items = append(items, domain.NewsItem{
			ID:          hashURL(link),
			Title:       title,
			URL:         link,
			Summary:     truncateRunes(strings.TrimSpace(stripHTML(entry.Description)), rssMaxSummaryRunes),
			Source:      src.Name,
			PublishedAt: published,
		})
	}

	return items, nil
}

var htmlTagRegex = regexp.MustCompile("<[^>]*>")

func stripHTML(s string) string {
	return htmlTagRegex.ReplaceAllString(s, "")
}
