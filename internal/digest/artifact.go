package digest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
)

// Package digest persists the intermediate artifact handed from the collector
// stage to the notifier stage. The artifact is a JSON file; every NewsItem
// field round-trips losslessly.

// ArtifactPath returns the artifact location for the given day inside dir.
func ArtifactPath(dir string, day time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("digest-%s.json", day.UTC().Format("2006-01-02")))
}

// Write serializes the digest to path, creating parent directories as needed.
func Write(path string, d domain.Digest) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create digest directory: %w", err)
		}
	}

	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode digest: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write digest artifact: %w", err)
	}
	return nil
}

// Read loads a digest artifact from path.
func Read(path string) (domain.Digest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Digest{}, fmt.Errorf("read digest artifact: %w", err)
	}

	var d domain.Digest
	if err := json.Unmarshal(raw, &d); err != nil {
		return domain.Digest{}, fmt.Errorf("decode digest artifact: %w", err)
	}
	return d, nil
}
