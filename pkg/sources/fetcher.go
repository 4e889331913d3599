package sources

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dailybrief-hq/ai-news-brief/pkg/httpclient"
)

// fetcherRegistry implements FetcherRegistry with type-keyed fetchers.
type fetcherRegistry struct {
	fetchersByType map[string]Fetcher
	mu             sync.RWMutex
}

// NewFetcherRegistry builds a registry for the provided fetcher implementations
// keyed by source type.
func NewFetcherRegistry(fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		fetchersByType: make(map[string]Fetcher),
	}
	for _, f := range fetchers {
		reg.register(f)
	}
	return reg
}

func (r *fetcherRegistry) register(f Fetcher) {
	if f == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(f.Type()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.fetchersByType[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the given source based on its type.
func (r *fetcherRegistry) FetcherFor(src Source) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}

	typeKey := strings.ToLower(strings.TrimSpace(src.Type))
	if typeKey == "" {
		return nil, fmt.Errorf("source %q has no type configured", src.ID)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchersByType[typeKey]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for source %q (type %q)", src.ID, src.Type)
}

// Options tunes the default fetchers.
type Options struct {
	MaxItems        int
	FreshnessWindow time.Duration
}

// DefaultHTTPClient returns a tuned HTTP client for source fetchers.
func DefaultHTTPClient(timeout time.Duration) HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return httpclient.NewRestyClient(timeout)
}

// DefaultFetcherRegistry wires up the known source fetchers.
func DefaultFetcherRegistry(client HTTPClient, opts Options) FetcherRegistry {
	if client == nil {
		client = DefaultHTTPClient(0)
	}

	return NewFetcherRegistry(
		NewArxivFetcher(client, opts),
		NewRSSFetcher(client, opts),
	)
}
