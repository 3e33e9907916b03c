// Package models defines the shared data structures for NewsBrief:
// fetched articles, scored articles, comparative analysis results, and
// the company report returned by the API.
package models

// Sentiment labels. Every scored article carries exactly one of these;
// anything else is treated as unknown and excluded from distributions.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// KnownSentiment reports whether label is one of the three known labels.
func KnownSentiment(label string) bool {
	switch label {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// RawArticle is an article as fetched from a news source, before any
// sentiment or topic analysis has been applied.
type RawArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// Article is a scored article: the input shape of the comparative
// analysis engine. Topics may be empty; Sentiment should be one of the
// three known labels but the engine tolerates anything.
type Article struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Sentiment string   `json:"sentiment"`
	Topics    []string `json:"topics"`
	URL       string   `json:"url"`
}

// SentimentDistribution counts articles per known sentiment label.
type SentimentDistribution struct {
	Positive int `json:"Positive"`
	Negative int `json:"Negative"`
	Neutral  int `json:"Neutral"`
}

// Total returns the number of articles counted in the distribution.
func (d SentimentDistribution) Total() int {
	return d.Positive + d.Negative + d.Neutral
}

// PositivePct returns the positive share in percent, or 0 for an empty
// distribution.
func (d SentimentDistribution) PositivePct() float64 {
	if t := d.Total(); t > 0 {
		return float64(d.Positive) / float64(t) * 100
	}
	return 0
}

// NegativePct returns the negative share in percent, or 0 for an empty
// distribution.
func (d SentimentDistribution) NegativePct() float64 {
	if t := d.Total(); t > 0 {
		return float64(d.Negative) / float64(t) * 100
	}
	return 0
}

// CoverageDifference is a human-readable statement contrasting how two
// articles, or two sentiment groups of articles, cover a company.
type CoverageDifference struct {
	Comparison string `json:"Comparison"`
	Impact     string `json:"Impact"`
}

// TopicOverlap describes which topics are shared across articles and
// which are unique to a single article.
type TopicOverlap struct {
	CommonTopics          []string            `json:"common_topics"`
	UniqueTopicsByArticle map[string][]string `json:"unique_topics_by_article"`
}

// ComparativeScore is the full output of the comparative analysis
// engine for one article set.
type ComparativeScore struct {
	SentimentDistribution SentimentDistribution `json:"sentiment_distribution"`
	CoverageDifferences   []CoverageDifference  `json:"coverage_differences"`
	TopicOverlap          TopicOverlap          `json:"topic_overlap"`
}

// CompanyReport is the response body for a company news request:
// the scored articles plus the comparative analysis and final verdict.
type CompanyReport struct {
	Company                string           `json:"company"`
	Articles               []Article        `json:"articles"`
	ComparativeScore       ComparativeScore `json:"comparative_sentiment_score"`
	FinalSentimentAnalysis string           `json:"final_sentiment_analysis"`
	AudioPath              string           `json:"audio_path,omitempty"`
}
