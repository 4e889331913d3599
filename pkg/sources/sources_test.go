package sources

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSourcesFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sources file: %v", err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeSourcesFile(t, "sources.yaml", `
sources:
  - id: arxiv
    name: arXiv Research
    type: arxiv_atom
    feed_url: http://export.arxiv.org/api/query
    request_delay_ms: 750
    config:
      categories: [cs.AI, cs.LG]
      max_results: 3
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	all := reg.All()
	if len(all) != 1 {
		t.Fatalf("expected 1 source, got %d", len(all))
	}

	src, ok := reg.ByID("arxiv")
	if !ok {
		t.Fatalf("expected source id arxiv to be loaded")
	}
	if src.Type != TypeArxivAtom {
		t.Fatalf("unexpected type: %s", src.Type)
	}
	if src.RequestDelay() != 750*time.Millisecond {
		t.Fatalf("unexpected request delay: %v", src.RequestDelay())
	}
	if got := ConfigStrings(src, arxivCategoriesKey); len(got) != 2 || got[0] != "cs.AI" {
		t.Fatalf("unexpected categories: %v", got)
	}
	if got := ConfigInt(src, arxivMaxResultsKey, 5); got != 3 {
		t.Fatalf("unexpected max_results: %d", got)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeSourcesFile(t, "sources.json", `{
  "sources": [
    {"id": "hn", "name": "Hacker News AI", "type": "rss", "feed_url": "https://hnrss.org/newest?q=AI"}
  ]
}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID("hn"); !ok {
		t.Fatalf("expected source id hn to be loaded")
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	path := writeSourcesFile(t, "sources.yaml", `
sources:
  - id: dup
    name: One
    type: rss
    feed_url: https://one.example/feed
  - id: dup
    name: Two
    type: rss
    feed_url: https://two.example/feed
`)

	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoadRegistryRejectsMissingFields(t *testing.T) {
	path := writeSourcesFile(t, "sources.yaml", `
sources:
  - id: broken
    name: Broken
    type: rss
`)

	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected validation error for missing feed_url")
	}
}

func TestHeadersSkipsEmptyValues(t *testing.T) {
	src := Source{Config: map[string]any{
		ConfigUserAgentKey: "brief-bot/1.0",
		ConfigAcceptKey:    "  ",
	}}
	headers := Headers(src)
	if headers["User-Agent"] != "brief-bot/1.0" {
		t.Fatalf("unexpected User-Agent: %q", headers["User-Agent"])
	}
	if _, ok := headers["Accept"]; ok {
		t.Fatalf("blank accept header should be skipped")
	}
}
