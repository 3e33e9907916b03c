package sentiment

import (
	"math"
	"strings"

	"github.com/newsbriefhq/newsbrief/pkg/models"
	"github.com/newsbriefhq/newsbrief/pkg/utils"
)

// ------------------------------------------------------------------
// Keyword-based sentiment scorer (offline, no external NLP service).
// Deterministic by construction: the same text always yields the
// same label.
// ------------------------------------------------------------------

// positive / negative keyword dictionaries (lowercase).
var positiveWords = map[string]float64{
	"surge": 0.7, "rally": 0.6, "record high": 0.7, "all-time high": 0.7,
	"growth": 0.4, "profit": 0.4, "gain": 0.4, "upbeat": 0.5,
	"strong": 0.4, "beat": 0.5, "exceeds": 0.5, "upgrade": 0.6,
	"outperform": 0.6, "expansion": 0.4, "breakthrough": 0.6,
	"success": 0.5, "innovative": 0.4, "partnership": 0.3,
	"launch": 0.3, "award": 0.4, "dividend": 0.4, "recovery": 0.5,
	"boost": 0.5, "soar": 0.7, "optimistic": 0.5, "milestone": 0.4,
}

var negativeWords = map[string]float64{
	"crash": 0.8, "plunge": 0.7, "slump": 0.6, "selloff": 0.7,
	"decline": 0.5, "loss": 0.4, "weak": 0.4, "downgrade": 0.6,
	"underperform": 0.6, "lawsuit": 0.6, "fraud": 0.8, "scam": 0.8,
	"investigation": 0.5, "recall": 0.6, "layoff": 0.6, "cut": 0.3,
	"miss": 0.5, "warning": 0.5, "concern": 0.3, "fine": 0.4,
	"penalty": 0.5, "default": 0.7, "bankruptcy": 0.8, "scandal": 0.7,
	"drop": 0.4, "fall": 0.4, "fear": 0.4, "risk": 0.3,
}

// thresholds for mapping the normalized score onto a label.
const (
	positiveThreshold = 0.15
	negativeThreshold = -0.15
)

// ScoreText returns a sentiment score for a piece of text.
// Score ranges from -1.0 (very negative) to +1.0 (very positive).
func ScoreText(text string) (score float64, confidence float64) {
	lower := strings.ToLower(text)

	posScore := 0.0
	negScore := 0.0
	matches := 0

	for word, weight := range positiveWords {
		if strings.Contains(lower, word) {
			posScore += weight
			matches++
		}
	}

	for word, weight := range negativeWords {
		if strings.Contains(lower, word) {
			negScore += weight
			matches++
		}
	}

	if matches == 0 {
		return 0, 0.1 // no signal
	}

	total := posScore + negScore
	if total == 0 {
		return 0, 0.1
	}

	// Net score normalized to -1..+1.
	score = (posScore - negScore) / total

	// Confidence based on number of keyword matches.
	confidence = math.Min(float64(matches)*0.15+0.2, 0.85)

	return score, confidence
}

// Label maps a score onto one of the three sentiment labels.
func Label(score float64) string {
	switch {
	case score > positiveThreshold:
		return models.SentimentPositive
	case score < negativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// ScoreArticle classifies a single raw article and extracts its topics.
func ScoreArticle(raw models.RawArticle) models.Article {
	title := utils.CleanText(raw.Title)
	summary := utils.CleanText(raw.Summary)

	text := title
	if summary != "" {
		text += " " + summary
	}

	score, _ := ScoreText(text)

	return models.Article{
		Title:     title,
		Summary:   summary,
		Sentiment: Label(score),
		Topics:    ExtractTopics(text),
		URL:       raw.URL,
	}
}

// ScoreArticles classifies a batch of raw articles, preserving order.
func ScoreArticles(raws []models.RawArticle) []models.Article {
	articles := make([]models.Article, 0, len(raws))
	for _, raw := range raws {
		articles = append(articles, ScoreArticle(raw))
	}
	return articles
}
