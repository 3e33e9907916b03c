package sentiment

import (
	"testing"

	"github.com/newsbriefhq/newsbrief/pkg/models"
)

func TestScoreTextPositive(t *testing.T) {
	score, conf := ScoreText("Shares rally on strong growth and record high profit")
	if score <= 0 {
		t.Errorf("expected positive score for upbeat text, got %.4f", score)
	}
	if conf <= 0 {
		t.Errorf("expected positive confidence, got %.4f", conf)
	}
}

func TestScoreTextNegative(t *testing.T) {
	score, conf := ScoreText("Stock plunges amid fraud investigation and layoff concerns")
	if score >= 0 {
		t.Errorf("expected negative score for downbeat text, got %.4f", score)
	}
	if conf <= 0 {
		t.Errorf("expected positive confidence, got %.4f", conf)
	}
}

func TestScoreTextNoSignal(t *testing.T) {
	score, conf := ScoreText("Company announces office location in Bengaluru")
	if score != 0 {
		t.Errorf("expected zero score without keywords, got %.4f", score)
	}
	if conf > 0.2 {
		t.Errorf("expected low confidence without keywords, got %.4f", conf)
	}
}

func TestLabelThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.8, models.SentimentPositive},
		{0.16, models.SentimentPositive},
		{0.15, models.SentimentNeutral},
		{0.0, models.SentimentNeutral},
		{-0.15, models.SentimentNeutral},
		{-0.16, models.SentimentNegative},
		{-0.9, models.SentimentNegative},
	}
	for _, tt := range tests {
		if got := Label(tt.score); got != tt.want {
			t.Errorf("Label(%.2f) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScoreArticle(t *testing.T) {
	raw := models.RawArticle{
		Title:   "Tesla surges to record high on strong delivery growth",
		Summary: "<p>Deliveries beat estimates as expansion continues.</p>",
		URL:     "https://example.com/article1",
	}

	a := ScoreArticle(raw)
	if a.Sentiment != models.SentimentPositive {
		t.Errorf("expected positive sentiment, got %s", a.Sentiment)
	}
	if a.Summary == raw.Summary {
		t.Error("expected HTML stripped from summary")
	}
	if a.URL != raw.URL {
		t.Errorf("expected URL preserved, got %s", a.URL)
	}
	if len(a.Topics) == 0 {
		t.Error("expected topics extracted")
	}
}

func TestScoreArticlesPreservesOrder(t *testing.T) {
	raws := []models.RawArticle{
		{Title: "first story"},
		{Title: "second story"},
		{Title: "third story"},
	}

	articles := ScoreArticles(raws)
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}
	for i, want := range []string{"first story", "second story", "third story"} {
		if articles[i].Title != want {
			t.Errorf("article %d: got %q, want %q", i, articles[i].Title, want)
		}
	}
}

func TestScoreArticlesEmpty(t *testing.T) {
	articles := ScoreArticles(nil)
	if articles == nil {
		t.Fatal("expected empty, non-nil slice")
	}
	if len(articles) != 0 {
		t.Errorf("expected no articles, got %d", len(articles))
	}
}

func TestExtractTopicsFrequency(t *testing.T) {
	text := "earnings earnings earnings revenue revenue margin"
	topics := ExtractTopics(text)
	if len(topics) == 0 {
		t.Fatal("expected topics")
	}
	if topics[0] != "Earnings" {
		t.Errorf("expected most frequent term first, got %v", topics)
	}
}

func TestExtractTopicsSkipsStopwords(t *testing.T) {
	topics := ExtractTopics("the and of with from because should")
	if len(topics) != 0 {
		t.Errorf("expected nothing from stopwords only, got %v", topics)
	}
}

func TestExtractTopicsCap(t *testing.T) {
	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet"
	topics := ExtractTopics(text)
	if len(topics) > maxTopics {
		t.Errorf("expected at most %d topics, got %d", maxTopics, len(topics))
	}
}

func TestExtractTopicsContainmentDedup(t *testing.T) {
	topics := ExtractTopics("tesla tesla stock tesla stock price")
	for i, a := range topics {
		for j, b := range topics {
			if i == j {
				continue
			}
			if containsOrContained([]string{a}, b) {
				t.Errorf("topics %q and %q overlap: %v", a, b, topics)
			}
		}
	}
}

func TestExtractTopicsDeterministic(t *testing.T) {
	text := "quarterly earnings beat revenue expectations as delivery growth accelerates"
	first := ExtractTopics(text)
	for i := 0; i < 5; i++ {
		again := ExtractTopics(text)
		if len(again) != len(first) {
			t.Fatalf("non-deterministic topic count: %v vs %v", first, again)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("non-deterministic topic order: %v vs %v", first, again)
			}
		}
	}
}
