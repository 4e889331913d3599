package summary

import (
	"html"
	"regexp"
	"strings"

	"github.com/dailybrief-hq/ai-news-brief/internal/domain"
)

// Package summary post-processes a collected digest: it normalizes item text,
// files each item under a category, and fills in a bounded extractive summary
// for items that arrived without one.

const (
	maxFallbackSentences = 2
	maxFallbackRunes     = 250
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	sentenceSplit   = regexp.MustCompile(`[.!?]+`)
)

// unicodeReplacer maps typographic punctuation to plain ASCII so the rendered
// email survives strict SMTP relays.
var unicodeReplacer = strings.NewReplacer(
	" ", " ",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "--",
)

// Process returns a copy of the digest with cleaned text, categories assigned,
// and missing summaries backfilled.
func Process(d domain.Digest) domain.Digest {
	out := d
	out.Items = make([]domain.NewsItem, len(d.Items))
	for i, item := range d.Items {
		item.Title = CleanText(item.Title)
		item.Summary = CleanText(item.Summary)
		if item.Summary == "" {
			item.Summary = Fallback(item.Title)
		}
		item.Category = Categorize(item.Title, item.Summary, item.Category)
		out.Items[i] = item
	}
	return out
}

// CleanText unescapes HTML entities, normalizes typographic punctuation, and
// squeezes whitespace.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = unicodeReplacer.Replace(decoded)
	decoded = whitespaceRegex.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// Fallback produces a short extractive summary: the first sentences of the
// text, capped in length.
func Fallback(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "No summary available."
	}

	parts := sentenceSplit.Split(text, -1)
	sentences := make([]string, 0, maxFallbackSentences)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) <= 10 {
			continue
		}
		sentences = append(sentences, p)
		if len(sentences) == maxFallbackSentences {
			break
		}
	}

	out := strings.Join(sentences, ". ")
	if out == "" {
		out = text
	}
	runes := []rune(out)
	if len(runes) > maxFallbackRunes {
		out = string(runes[:maxFallbackRunes]) + "..."
	}
	if last := out[len(out)-1]; last != '.' && last != '!' && last != '?' {
		out += "."
	}
	return out
}

var researchWords = []string{
	"paper", "research", "study", "arxiv", "algorithm", "model",
	"method", "approach", "framework", "evaluation", "experiment",
	"analysis", "dataset", "benchmark", "neural", "learning",
}

var businessWords = []string{
	"funding", "startup", "company", "investment", "acquisition",
	"partnership", "product", "launch", "market", "revenue",
	"ceo", "announcement", "enterprise", "commercial",
}

var toolWords = []string{
	"tool", "open source", "github", "release", "library",
	"framework", "api", "platform", "software", "code",
	"implementation", "available", "download",
}

var breakthroughWords = []string{
	"breakthrough", "milestone", "achievement", "record",
	"first", "new", "revolutionary", "significant", "major",
	"advance", "innovation", "discovery",
}

// Categorize scores the item text against keyword lists and picks the highest
// scoring category. An arXiv-style category hint (cs.*) forces research.
// Two or more breakthrough hits dominate every other category.
func Categorize(title, text, hint string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(hint)), "cs.") {
		return domain.CategoryResearch
	}

	corpus := strings.ToLower(title + " " + text)

	research := scoreWords(corpus, researchWords)
	business := scoreWords(corpus, businessWords)
	tools := scoreWords(corpus, toolWords)
	breakthrough := scoreWords(corpus, breakthroughWords)

	if breakthrough >= 2 {
		return domain.CategoryBreakthrough
	}

	scores := map[string]float64{
		domain.CategoryResearch:     float64(research) + float64(breakthrough)*0.5,
		domain.CategoryBusiness:     float64(business),
		domain.CategoryTools:        float64(tools),
		domain.CategoryBreakthrough: float64(breakthrough),
	}

	best := domain.CategoryNews
	bestScore := 0.0
	// Iterate in a fixed order so ties resolve deterministically.
	for _, cat := range []string{
		domain.CategoryResearch,
		domain.CategoryBusiness,
		domain.CategoryTools,
		domain.CategoryBreakthrough,
	} {
		if scores[cat] > bestScore {
			best = cat
			bestScore = scores[cat]
		}
	}
	return best
}

func scoreWords(corpus string, words []string) int {
	score := 0
	for _, w := range words {
		if strings.Contains(corpus, w) {
			score++
		}
	}
	return score
}
