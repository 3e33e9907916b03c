// Package comparative implements cross-article analysis: sentiment
// distribution, coverage-difference detection, topic overlap, and the
// synthesized final verdict for a company's news coverage.
//
// All functions here are pure and total over their inputs: a degenerate
// article list (empty, missing topics, unknown sentiment labels) yields
// the default-shaped result, never an error.
package comparative

import (
	"fmt"
	"strings"

	"github.com/newsbriefhq/newsbrief/pkg/models"
)

// MaxArticles bounds the article list a single analysis accepts. The
// pairwise coverage scan is quadratic, so the input is capped rather
// than trusted.
const MaxArticles = 20

// maxCoverageDifferences caps the emitted coverage-difference list.
const maxCoverageDifferences = 5

// Fixed output strings.
const (
	// NoDataVerdict is returned when no article carried a known
	// sentiment label.
	NoDataVerdict = "No sentiment data available for this company."

	// FallbackVerdict mirrors the defensive contract of the verdict
	// synthesis: it is the value callers may rely on if synthesis could
	// ever fail. The implementation is total, so it is never produced
	// by FinalSentiment itself.
	FallbackVerdict = "Unable to generate a final sentiment analysis."

	groupContrastImpact = "These differences in focus may significantly affect the overall perception of the company."
	contradictionImpact = "This contradiction may cause confusion among readers and investors about the company's actual performance or situation."
)

// Analyze runs the full comparative pipeline over the article list and
// returns the combined score. Inputs beyond MaxArticles are truncated.
func Analyze(articles []models.Article) models.ComparativeScore {
	if len(articles) > MaxArticles {
		articles = articles[:MaxArticles]
	}
	return models.ComparativeScore{
		SentimentDistribution: Distribution(articles),
		CoverageDifferences:   CoverageDifferences(articles),
		TopicOverlap:          Overlap(articles),
	}
}

// Distribution counts articles per known sentiment label. Articles with
// an unknown label are dropped from the count, not reported.
func Distribution(articles []models.Article) models.SentimentDistribution {
	var d models.SentimentDistribution
	for _, a := range articles {
		switch a.Sentiment {
		case models.SentimentPositive:
			d.Positive++
		case models.SentimentNegative:
			d.Negative++
		case models.SentimentNeutral:
			d.Neutral++
		}
	}
	return d
}

// CoverageDifferences finds up to five coverage contrasts: one
// group-level positive-vs-negative focus contrast (when both groups are
// non-empty and their topic sets differ), followed by pairwise
// contradictions between articles that share topics but disagree on
// sentiment. Pair order follows list order (outer index ascending,
// inner ascending).
func CoverageDifferences(articles []models.Article) []models.CoverageDifference {
	diffs := []models.CoverageDifference{}
	if len(articles) < 2 {
		return diffs
	}

	var positive, negative []models.Article
	for _, a := range articles {
		switch a.Sentiment {
		case models.SentimentPositive:
			positive = append(positive, a)
		case models.SentimentNegative:
			negative = append(negative, a)
		}
	}

	if len(positive) > 0 && len(negative) > 0 {
		posTopics := groupTopics(positive)
		negTopics := groupTopics(negative)

		posOnly := posTopics.diff(negTopics)
		negOnly := negTopics.diff(posTopics)

		if len(posOnly) > 0 || len(negOnly) > 0 {
			diffs = append(diffs, models.CoverageDifference{
				Comparison: fmt.Sprintf("Positive articles focus on %s while negative articles focus on %s.",
					strings.Join(firstN(posOnly, 3), ", "),
					strings.Join(firstN(negOnly, 3), ", ")),
				Impact: groupContrastImpact,
			})
		}
	}

	for i := 0; i < len(articles); i++ {
		for j := i + 1; j < len(articles); j++ {
			a, b := articles[i], articles[j]
			if a.Sentiment == b.Sentiment {
				continue
			}
			shared := newOrderedSet(a.Topics).intersect(newOrderedSet(b.Topics))
			if len(shared) == 0 {
				continue
			}
			diffs = append(diffs, models.CoverageDifference{
				Comparison: fmt.Sprintf("Article '%s' (%s) and article '%s' (%s) cover the same topics (%s) but have different sentiments.",
					a.Title, a.Sentiment, b.Title, b.Sentiment, strings.Join(shared, ", ")),
				Impact: contradictionImpact,
			})
		}
	}

	if len(diffs) > maxCoverageDifferences {
		diffs = diffs[:maxCoverageDifferences]
	}
	return diffs
}

// Overlap reports topics shared across the article set and topics
// unique to a single article. A topic is common when it occurs more
// than once across all topic lists combined; a topic listed twice by
// the same article therefore counts as common, but does not disqualify
// it from being unique to that article.
func Overlap(articles []models.Article) models.TopicOverlap {
	overlap := models.TopicOverlap{
		CommonTopics:          []string{},
		UniqueTopicsByArticle: map[string][]string{},
	}
	if len(articles) == 0 {
		return overlap
	}

	counts := map[string]int{}
	var order []string
	for _, a := range articles {
		for _, t := range a.Topics {
			if counts[t] == 0 {
				order = append(order, t)
			}
			counts[t]++
		}
	}
	for _, t := range order {
		if counts[t] > 1 {
			overlap.CommonTopics = append(overlap.CommonTopics, t)
		}
	}

	for i, a := range articles {
		var unique []string
		for _, t := range newOrderedSet(a.Topics).values() {
			if !topicInOtherArticle(articles, i, t) {
				unique = append(unique, t)
			}
		}
		if len(unique) == 0 {
			continue
		}
		key := a.Title
		if key == "" {
			key = fmt.Sprintf("Article %d", i+1)
		}
		overlap.UniqueTopicsByArticle[key] = unique
	}

	return overlap
}

// topicInOtherArticle reports whether any article other than the one at
// position self lists the topic.
func topicInOtherArticle(articles []models.Article, self int, topic string) bool {
	for j, other := range articles {
		if j == self {
			continue
		}
		for _, t := range other.Topics {
			if t == topic {
				return true
			}
		}
	}
	return false
}

// FinalSentiment synthesizes the one-line verdict from a comparative
// score. With no counted sentiment it returns NoDataVerdict. The
// positive branches are checked before the negative ones. Callers
// depend on the exact verdict strings; do not reword them.
func FinalSentiment(score models.ComparativeScore) string {
	dist := score.SentimentDistribution
	if dist.Total() == 0 {
		return NoDataVerdict
	}

	posPct := dist.PositivePct()
	negPct := dist.NegativePct()

	var sentiment string
	switch {
	case posPct > 60:
		sentiment = "overwhelmingly positive"
	case posPct > 50:
		sentiment = "generally positive"
	case negPct > 60:
		sentiment = "overwhelmingly negative"
	case negPct > 50:
		sentiment = "generally negative"
	default:
		sentiment = "mixed"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The news coverage for this company is %s.", sentiment)

	if common := score.TopicOverlap.CommonTopics; len(common) > 0 {
		fmt.Fprintf(&b, " The most discussed topics are %s.", strings.Join(firstN(common, 3), ", "))
	}

	if dist.Positive > 0 && dist.Negative > 0 && len(score.CoverageDifferences) > 0 {
		fmt.Fprintf(&b, " %s", score.CoverageDifferences[0].Comparison)
	}

	return b.String()
}

// groupTopics returns the union of topics across a group of articles in
// first-seen order.
func groupTopics(articles []models.Article) orderedSet {
	set := newOrderedSet(nil)
	for _, a := range articles {
		for _, t := range a.Topics {
			set.add(t)
		}
	}
	return set
}

// firstN returns at most the first n elements of s.
func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// --- ordered set ---

// orderedSet is a string set that preserves first-insertion order, so
// set operations stay deterministic and slices like "first 3 topics"
// are stable across runs.
type orderedSet struct {
	keys []string
	seen map[string]struct{}
}

func newOrderedSet(items []string) orderedSet {
	s := orderedSet{seen: make(map[string]struct{}, len(items))}
	for _, it := range items {
		s.add(it)
	}
	return s
}

func (s *orderedSet) add(item string) {
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.keys = append(s.keys, item)
}

func (s orderedSet) has(item string) bool {
	_, ok := s.seen[item]
	return ok
}

func (s orderedSet) values() []string {
	return s.keys
}

// diff returns the members of s not present in other, in s's order.
func (s orderedSet) diff(other orderedSet) []string {
	var out []string
	for _, k := range s.keys {
		if !other.has(k) {
			out = append(out, k)
		}
	}
	return out
}

// intersect returns the members of s also present in other, in s's order.
func (s orderedSet) intersect(other orderedSet) []string {
	var out []string
	for _, k := range s.keys {
		if other.has(k) {
			out = append(out, k)
		}
	}
	return out
}
