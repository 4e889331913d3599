package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
	"github.com/dailybrief-hq/ai-news-brief/pkg/sources"
)

// fakeFetcher returns preset items or an error.
type fakeFetcher struct {
	typ   string
	items map[string][]domain.NewsItem
	errs  map[string]error
}

func (f *fakeFetcher) Type() string { return f.typ }
func (f *fakeFetcher) Fetch(_ context.Context, src sources.Source) ([]domain.NewsItem, error) {
	if err := f.errs[src.ID]; err != nil {
		return nil, err
	}
	return f.items[src.ID], nil
}

// fakeRegistry resolves every source to a single fetcher.
type fakeRegistry struct {
	fetcher sources.Fetcher
	err     error
}

func (f *fakeRegistry) FetcherFor(_ sources.Source) (sources.Fetcher, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.fetcher, nil
}

// fakeStore tracks seen IDs in memory.
type fakeStore struct {
	seen   map[string]bool
	marked []string
}

func newFakeStore() *fakeStore { return &fakeStore{seen: map[string]bool{}} }

func (f *fakeStore) Close() error { return nil }
func (f *fakeStore) SeenItem(id string) (bool, error) {
	return f.seen[id], nil
}
func (f *fakeStore) MarkItem(id string) error {
	f.seen[id] = true
	f.marked = append(f.marked, id)
	return nil
}

func itemsFor(ids ...string) []domain.NewsItem {
	out := make([]domain.NewsItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.NewsItem{ID: id, Title: "t-" + id, URL: "https://e.com/" + id, Summary: "s"})
	}
	return out
}

func TestRunToleratesPartialSourceFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		typ:   "fake",
		items: map[string][]domain.NewsItem{"a": itemsFor("1", "2", "3")},
		errs:  map[string]error{"b": errors.New("unreachable")},
	}
	svc := NewService(&fakeRegistry{fetcher: fetcher}, nil, newFakeStore(), nil)

	srcs := []sources.Source{{ID: "a", Type: "fake"}, {ID: "b", Type: "fake"}}
	d, err := svc.Run(context.Background(), srcs)
	if err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}
	if len(d.Items) != 3 {
		t.Fatalf("expected 3 items from healthy source, got %d", len(d.Items))
	}
	if d.RunID == "" || d.GeneratedAt.IsZero() {
		t.Fatalf("expected run metadata to be stamped")
	}
}

func TestRunFailsWhenAllSourcesFail(t *testing.T) {
	fetcher := &fakeFetcher{
		typ:  "fake",
		errs: map[string]error{"a": errors.New("down"), "b": errors.New("down")},
	}
	svc := NewService(&fakeRegistry{fetcher: fetcher}, nil, nil, nil)

	srcs := []sources.Source{{ID: "a", Type: "fake"}, {ID: "b", Type: "fake"}}
	if _, err := svc.Run(context.Background(), srcs); err == nil {
		t.Fatalf("expected error when every source fails")
	}
}

func TestRunPreservesDiscoveryOrder(t *testing.T) {
	fetcher := &fakeFetcher{
		typ: "fake",
		items: map[string][]domain.NewsItem{
			"a": itemsFor("1", "2"),
			"b": itemsFor("3"),
		},
	}
	svc := NewService(&fakeRegistry{fetcher: fetcher}, nil, nil, nil)

	srcs := []sources.Source{{ID: "a", Type: "fake"}, {ID: "b", Type: "fake"}}
	d, err := svc.Run(context.Background(), srcs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"1", "2", "3"}
	for i, item := range d.Items {
		if item.ID != want[i] {
			t.Fatalf("order mismatch at %d: got %s want %s", i, item.ID, want[i])
		}
	}
}

func TestRunFiltersPreviouslyDeliveredItems(t *testing.T) {
	fetcher := &fakeFetcher{
		typ:   "fake",
		items: map[string][]domain.NewsItem{"a": itemsFor("1", "2", "3")},
	}
	store := newFakeStore()
	store.seen["2"] = true

	svc := NewService(&fakeRegistry{fetcher: fetcher}, nil, store, nil)
	d, err := svc.Run(context.Background(), []sources.Source{{ID: "a", Type: "fake"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(d.Items) != 2 {
		t.Fatalf("expected seen item filtered, got %d items", len(d.Items))
	}
	for _, item := range d.Items {
		if item.ID == "2" {
			t.Fatalf("item 2 should have been filtered")
		}
	}
}

func TestRunIsIdempotentAcrossRuns(t *testing.T) {
	fetcher := &fakeFetcher{
		typ:   "fake",
		items: map[string][]domain.NewsItem{"a": itemsFor("1", "2")},
	}
	store := newFakeStore()
	svc := NewService(&fakeRegistry{fetcher: fetcher}, nil, store, nil)
	srcs := []sources.Source{{ID: "a", Type: "fake"}}

	first, err := svc.Run(context.Background(), srcs)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(first.Items) != 2 {
		t.Fatalf("expected 2 items on first run, got %d", len(first.Items))
	}

	// Unchanged sources on the next run yield nothing new.
	second, err := svc.Run(context.Background(), srcs)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.Items) != 0 {
		t.Fatalf("expected 0 items on second run, got %d", len(second.Items))
	}
}

func TestRunRejectsEmptySourceList(t *testing.T) {
	svc := NewService(&fakeRegistry{fetcher: &fakeFetcher{typ: "fake"}}, nil, nil, nil)
	if _, err := svc.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty source list")
	}
}
