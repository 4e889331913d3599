package sources

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
)

const (
	TypeArxivAtom = "arxiv_atom"

	arxivMaxSummaryRunes = 500
	arxivCategoriesKey   = "categories"
	arxivMaxResultsKey   = "max_results"
)

var arxivDefaultCategories = []string{"cs.AI", "cs.LG", "cs.CL"}

// arxivFetcher pulls recent papers from the arXiv Atom API, one query per
// configured category.
type arxivFetcher struct {
	client   HTTPClient
	maxItems int
}

// NewArxivFetcher builds a fetcher for arXiv Atom query endpoints.
func NewArxivFetcher(client HTTPClient, opts Options) Fetcher {
	if client == nil {
		client = DefaultHTTPClient(0)
	}
	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = 5
	}
	return &arxivFetcher{client: client, maxItems: maxItems}
}

func (f *arxivFetcher) Type() string {
	return TypeArxivAtom
}

func (f *arxivFetcher) Fetch(ctx context.Context, src Source) ([]domain.NewsItem, error) {
	if !strings.EqualFold(src.Type, TypeArxivAtom) {
		return nil, fmt.Errorf("arxiv fetcher received incompatible source type %q", src.Type)
	}
	if strings.TrimSpace(src.FeedURL) == "" {
		return nil, fmt.Errorf("source %q feed_url is empty", src.ID)
	}

	categories := ConfigStrings(src, arxivCategoriesKey)
	if len(categories) == 0 {
		categories = arxivDefaultCategories
	}
	maxResults := ConfigInt(src, arxivMaxResultsKey, f.maxItems)
	headers := Headers(src)
	delay := src.RequestDelay()

	var items []domain.NewsItem
	var errs []error
	for i, cat := range categories {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		queryURL := arxivQueryURL(src.FeedURL, cat, maxResults)
		raw, err := fetchBody(ctx, f.client, queryURL, src.ID, headers)
		if err != nil {
			errs = append(errs, fmt.Errorf("category %s: %w", cat, err))
			continue
		}

		entries, err := parseArxivFeed(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("category %s: decode atom feed: %w", cat, err))
			continue
		}
		items = append(items, buildArxivItems(src, cat, entries)...)

		if delay > 0 && i < len(categories)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return items, ctx.Err()
			case <-timer.C:
			}
		}
	}

	// Partial category failures are tolerated as long as something succeeded.
	if len(items) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return items, nil
}

func arxivQueryURL(base, category string, maxResults int) string {
	q := url.Values{}
	q.Set("search_query", "cat:"+category)
	q.Set("start", "0")
	q.Set("max_results", fmt.Sprintf("%d", maxResults))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")
	return base + "?" + q.Encode()
}

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
}

func parseArxivFeed(data []byte) ([]arxivEntry, error) {
	var feed arxivFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, err
	}
	return feed.Entries, nil
}

func buildArxivItems(src Source, category string, entries []arxivEntry) []domain.NewsItem {
	items := make([]domain.NewsItem, 0, len(entries))
	for _, entry := range entries {
		id := strings.TrimSpace(entry.ID)
		title := strings.TrimSpace(entry.Title)
		if id == "" || title == "" {
			continue
		}

		var published time.Time
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(entry.Published)); err == nil {
			published = ts.UTC()
		}

		items = append(items, domain.NewsItem{
			ID:          hashURL(id),
			Title:       title,
			URL:         id,
			Summary:     truncateRunes(strings.TrimSpace(entry.Summary), arxivMaxSummaryRunes),
			Source:      src.Name,
			Category:    category,
			PublishedAt: published,
		})
	}
	return items
}
