package domain

import "time"

// Domain contains core models shared by the collector and notifier stages.

// NewsItem is a single collected news entry. Insertion order in a Digest is
// discovery order; no uniqueness is enforced at this level.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary,omitempty"`
	Source      string    `json:"source"`
	Category    string    `json:"category,omitempty"`
	PublishedAt time.Time `json:"published_at,omitzero"`
}

// Digest is the ordered sequence of items produced by one run.
type Digest struct {
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Items       []NewsItem `json:"items"`
}

// Categories a digest item can be filed under.
const (
	CategoryBreakthrough = "breakthrough"
	CategoryResearch     = "research"
	CategoryBusiness     = "business"
	CategoryTools        = "tools"
	CategoryNews         = "news"
)

// CategoryOrder lists categories in the order sections appear in the email.
var CategoryOrder = []string{
	CategoryBreakthrough,
	CategoryResearch,
	CategoryBusiness,
	CategoryTools,
	CategoryNews,
}
