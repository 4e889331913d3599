package collector

import (
	"context"
	"testing"

	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
	"github.com/dailybrief-hq/ai-news-brief/pkg/httpclient"
	"github.com/dailybrief-hq/ai-news-brief/pkg/sources"
)

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }

// stubHTTPClient returns a single response and counts calls.
type stubHTTPClient struct {
	resp  httpclient.Response
	calls int
}

func (s *stubHTTPClient) Get(_ context.Context, _ string, _ map[string]string) (httpclient.Response, error) {
	s.calls++
	return s.resp, nil
}

const articleHTML = `
<html>
  <head>
    <title>Fallback Title</title>
    <meta property="og:title" content="OG Title">
    <meta property="og:description" content="OG description of the article.">
  </head>
</html>`

func TestEnrichFillsMissingSummary(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte(articleHTML), statusCode: 200}}
	enricher := NewEnricher(client, nil)

	src := sources.Source{ID: "s1", RequestDelayMs: 1}
	items := []domain.NewsItem{{ID: "a1", Title: "Existing title", URL: "https://example.com/a"}}

	out := enricher.Enrich(context.Background(), src, items)
	if len(out) != 1 {
		t.Fatalf("expected 1 item")
	}
	if out[0].Summary != "OG description of the article." {
		t.Fatalf("expected OG description merged, got %q", out[0].Summary)
	}
	if out[0].Title != "Existing title" {
		t.Fatalf("existing title must not be overwritten, got %q", out[0].Title)
	}
}

func TestEnrichSkipsItemsWithSummary(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte(articleHTML), statusCode: 200}}
	enricher := NewEnricher(client, nil)

	src := sources.Source{ID: "s1", RequestDelayMs: 1}
	items := []domain.NewsItem{{ID: "a1", URL: "https://example.com/a", Summary: "already there"}}

	out := enricher.Enrich(context.Background(), src, items)
	if client.calls != 0 {
		t.Fatalf("expected no fetch for items with a summary, got %d calls", client.calls)
	}
	if out[0].Summary != "already there" {
		t.Fatalf("summary changed: %q", out[0].Summary)
	}
}

func TestEnrichLeavesItemOnFetchFailure(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte("gone"), statusCode: 404}}
	enricher := NewEnricher(client, nil)

	src := sources.Source{ID: "s1", RequestDelayMs: 1}
	items := []domain.NewsItem{{ID: "a1", Title: "T", URL: "https://example.com/a"}}

	out := enricher.Enrich(context.Background(), src, items)
	if out[0].Summary != "" {
		t.Fatalf("expected item untouched on failure, got summary %q", out[0].Summary)
	}
}

func TestParseMetaPrefersOGTags(t *testing.T) {
	meta, err := parseMeta([]byte(articleHTML))
	if err != nil {
		t.Fatalf("parseMeta: %v", err)
	}
	if meta.Title != "OG Title" || meta.Description != "OG description of the article." {
		t.Fatalf("unexpected meta %#v", meta)
	}
}

func TestParseMetaFallsBackToTitleTag(t *testing.T) {
	meta, err := parseMeta([]byte(`<html><head><title>Plain Title</title></head></html>`))
	if err != nil {
		t.Fatalf("parseMeta: %v", err)
	}
	if meta.Title != "Plain Title" {
		t.Fatalf("expected title tag fallback, got %q", meta.Title)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", " ", "foo", "bar"); got != "foo" {
		t.Fatalf("firstNonEmpty returned %q", got)
	}
}
