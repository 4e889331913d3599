package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
)

// Per-section item caps for the rendered email.
var sectionCaps = map[string]int{
	domain.CategoryBreakthrough: 2,
	domain.CategoryResearch:     3,
	domain.CategoryBusiness:     3,
	domain.CategoryTools:        0, // unlimited
	domain.CategoryNews:         3,
}

var sectionTitles = map[string]string{
	domain.CategoryBreakthrough: "Breakthrough Discoveries",
	domain.CategoryResearch:     "Research Papers",
	domain.CategoryBusiness:     "Industry & Business",
	domain.CategoryTools:        "New Tools & Resources",
	domain.CategoryNews:         "General AI News",
}

// Render builds the notification message for a digest. The body is never
// empty: an empty digest renders a short "nothing today" note.
func Render(d domain.Digest, to string) Message {
	date := d.GeneratedAt
	if date.IsZero() {
		date = time.Now().UTC()
	}

	return Message{
		To:       to,
		Subject:  fmt.Sprintf("Daily AI News & Research - %s", date.Format("January 2, 2006")),
		TextBody: renderText(d, date),
		HTMLBody: renderHTML(d, date),
	}
}

// groupByCategory partitions items into category buckets, preserving
// discovery order inside each bucket. Unknown categories file under news.
func groupByCategory(items []domain.NewsItem) map[string][]domain.NewsItem {
	buckets := make(map[string][]domain.NewsItem, len(domain.CategoryOrder))
	for _, item := range items {
		cat := item.Category
		if _, known := sectionTitles[cat]; !known {
			cat = domain.CategoryNews
		}
		buckets[cat] = append(buckets[cat], item)
	}
	return buckets
}

func capped(items []domain.NewsItem, cat string) []domain.NewsItem {
	limit := sectionCaps[cat]
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func renderText(d domain.Digest, date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily AI News & Research - %s\n\n", date.Format("January 2, 2006"))

	if len(d.Items) == 0 {
		b.WriteString("No new AI news or research found today.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Collected %d items today:\n\n", len(d.Items))

	buckets := groupByCategory(d.Items)
	for _, cat := range domain.CategoryOrder {
		items := buckets[cat]
		if len(items) == 0 {
			continue
		}

		fmt.Fprintf(&b, "%s (%d)\n", strings.ToUpper(sectionTitles[cat]), len(items))
		b.WriteString(strings.Repeat("=", 55))
		b.WriteString("\n")
		for _, item := range capped(items, cat) {
			fmt.Fprintf(&b, "* %s\n", item.Title)
			if item.Summary != "" {
				fmt.Fprintf(&b, "  %s\n", item.Summary)
			}
			fmt.Fprintf(&b, "  Source: %s | %s\n\n", item.Source, item.URL)
		}
	}

	fmt.Fprintf(&b, "Generated on %s\n", date.Format("2006-01-02 at 15:04 MST"))
	return b.String()
}

func renderHTML(d domain.Digest, date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Daily AI News &amp; Research - %s</h2>\n", html.EscapeString(date.Format("January 2, 2006")))

	if len(d.Items) == 0 {
		b.WriteString("<p>No new AI news or research found today.</p>\n")
		return b.String()
	}

	buckets := groupByCategory(d.Items)
	for _, cat := range domain.CategoryOrder {
		items := buckets[cat]
		if len(items) == 0 {
			continue
		}

		fmt.Fprintf(&b, "<h3>%s (%d)</h3>\n", html.EscapeString(sectionTitles[cat]), len(items))
		for _, item := range capped(items, cat) {
			b.WriteString(`<div style="margin-bottom: 20px; padding: 15px; border-left: 3px solid #007acc;">` + "\n")
			fmt.Fprintf(&b, `<h4 style="color: #007acc; margin: 0 0 10px 0;">%s</h4>`+"\n", html.EscapeString(item.Title))
			if item.Summary != "" {
				fmt.Fprintf(&b, `<p style="margin: 0 0 10px 0; color: #333;">%s</p>`+"\n", html.EscapeString(item.Summary))
			}
			fmt.Fprintf(&b, `<p style="margin: 0; font-size: 12px; color: #666;"><strong>Source:</strong> %s | <a href="%s">Read more</a></p>`+"\n",
				html.EscapeString(item.Source), html.EscapeString(item.URL))
			b.WriteString("</div>\n")
		}
	}

	fmt.Fprintf(&b, `<p style="font-size: 12px; color: #999;">Generated on %s</p>`+"\n",
		html.EscapeString(date.Format("2006-01-02 at 15:04 MST")))
	return b.String()
}
