package sentiment

import (
	"regexp"
	"sort"
	"strings"
)

const maxTopics = 5

// stopwords excluded from topic extraction. Not exhaustive, just the
// usual high-frequency English function words plus a few news fillers.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "again": {}, "all": {}, "also": {},
	"an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"between": {}, "both": {}, "but": {}, "by": {}, "can": {},
	"could": {}, "did": {}, "do": {}, "does": {}, "doing": {},
	"down": {}, "during": {}, "each": {}, "few": {}, "for": {},
	"from": {}, "further": {}, "had": {}, "has": {}, "have": {},
	"having": {}, "he": {}, "her": {}, "here": {}, "hers": {},
	"him": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "just": {}, "more": {},
	"most": {}, "my": {}, "new": {}, "no": {}, "nor": {}, "not": {},
	"now": {}, "of": {}, "off": {}, "on": {}, "once": {}, "only": {},
	"or": {}, "other": {}, "our": {}, "out": {}, "over": {}, "own": {},
	"said": {}, "same": {}, "she": {}, "should": {}, "so": {},
	"some": {}, "such": {}, "says": {}, "than": {}, "that": {},
	"the": {}, "their": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {},
	"to": {}, "too": {}, "under": {}, "until": {}, "up": {}, "very": {},
	"was": {}, "we": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "who": {}, "whom": {},
	"why": {}, "will": {}, "with": {}, "would": {}, "you": {},
	"your": {}, "year": {}, "years": {}, "today": {}, "week": {},
	"month": {}, "amid": {}, "report": {}, "reports": {}, "news": {},
}

var wordRe = regexp.MustCompile(`[a-zA-Z]{3,}`)

// ExtractTopics pulls the most frequent keywords and keyword pairs out
// of a piece of text. Results are title-cased, de-duplicated by
// containment and capped at five, ordered by frequency with ties
// broken by first appearance.
func ExtractTopics(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)

	var tokens []string
	for _, w := range words {
		if _, skip := stopwords[w]; !skip {
			tokens = append(tokens, w)
		}
	}
	if len(tokens) == 0 {
		return []string{}
	}

	counts := make(map[string]int)
	var order []string

	bump := func(term string) {
		if counts[term] == 0 {
			order = append(order, term)
		}
		counts[term]++
	}

	for _, t := range tokens {
		bump(t)
	}
	// Bigrams of adjacent kept tokens capture multi-word topics like
	// "electric vehicles" or "quarterly earnings".
	for i := 0; i+1 < len(tokens); i++ {
		bump(tokens[i] + " " + tokens[i+1])
	}

	firstSeen := make(map[string]int, len(order))
	for i, term := range order {
		firstSeen[term] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return firstSeen[a] < firstSeen[b]
	})

	var topics []string
	for _, term := range order {
		candidate := titleCase(term)
		if containsOrContained(topics, candidate) {
			continue
		}
		topics = append(topics, candidate)
		if len(topics) == maxTopics {
			break
		}
	}
	return topics
}

// containsOrContained reports whether candidate overlaps an already
// chosen topic in either direction ("Tesla" vs "Tesla Stock").
func containsOrContained(chosen []string, candidate string) bool {
	lc := strings.ToLower(candidate)
	for _, c := range chosen {
		existing := strings.ToLower(c)
		if strings.Contains(existing, lc) || strings.Contains(lc, existing) {
			return true
		}
	}
	return false
}

func titleCase(term string) string {
	parts := strings.Fields(term)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
