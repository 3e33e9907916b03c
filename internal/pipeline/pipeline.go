// Package pipeline wires the fetch, scoring, comparative-analysis and
// text-to-speech stages into the two operations the API and CLI expose:
// a company news report and its spoken Hindi summary.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsbriefhq/newsbrief/internal/analysis/comparative"
	"github.com/newsbriefhq/newsbrief/internal/analysis/sentiment"
	"github.com/newsbriefhq/newsbrief/internal/datasource"
	"github.com/newsbriefhq/newsbrief/internal/tts"
	"github.com/newsbriefhq/newsbrief/pkg/models"
)

// ErrNoArticles is returned when no articles could be found for a
// company.
var ErrNoArticles = fmt.Errorf("no articles found")

// Pipeline runs the end-to-end analysis for a company.
type Pipeline struct {
	fetcher *datasource.Fetcher
	engine  *tts.Engine
}

// New creates a Pipeline. The TTS engine may be nil, in which case
// audio generation is unavailable.
func New(fetcher *datasource.Fetcher, engine *tts.Engine) *Pipeline {
	return &Pipeline{fetcher: fetcher, engine: engine}
}

// CompanyNews fetches and analyzes up to maxArticles articles about the
// company and returns the full report. maxArticles is clamped to
// [1, comparative.MaxArticles] so the comparative score always covers
// every returned article.
func (p *Pipeline) CompanyNews(ctx context.Context, company string, maxArticles int) (*models.CompanyReport, error) {
	if maxArticles < 1 {
		maxArticles = 1
	} else if maxArticles > comparative.MaxArticles {
		maxArticles = comparative.MaxArticles
	}

	raws, err := p.fetcher.FetchCompanyNews(ctx, company, maxArticles)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoArticles, company)
	}
	// Sources are asked for maxArticles but a cached or misbehaving one
	// may return more; truncate so the comparative score matches the
	// article list.
	if len(raws) > maxArticles {
		raws = raws[:maxArticles]
	}

	articles := sentiment.ScoreArticles(raws)
	score := comparative.Analyze(articles)

	return &models.CompanyReport{
		Company:                company,
		Articles:               articles,
		ComparativeScore:       score,
		FinalSentimentAnalysis: comparative.FinalSentiment(score),
	}, nil
}

// CompanyAudio runs CompanyNews and then synthesizes a Hindi audio
// summary, returning the report with AudioPath set.
func (p *Pipeline) CompanyAudio(ctx context.Context, company string, maxArticles int) (*models.CompanyReport, error) {
	if p.engine == nil {
		return nil, fmt.Errorf("audio generation not configured")
	}

	report, err := p.CompanyNews(ctx, company, maxArticles)
	if err != nil {
		return nil, err
	}

	path, err := p.engine.Generate(ctx, Narration(report), company)
	if err != nil {
		return nil, fmt.Errorf("generate audio for %s: %w", company, err)
	}
	report.AudioPath = path

	return report, nil
}

// narrationArticles is how many articles the spoken summary covers.
const narrationArticles = 3

// Narration builds the spoken summary for a report: the headline
// counts, the verdict, and the top articles with their summaries.
func Narration(report *models.CompanyReport) string {
	var b strings.Builder

	dist := report.ComparativeScore.SentimentDistribution
	fmt.Fprintf(&b, "News analysis for %s. ", report.Company)
	fmt.Fprintf(&b, "Out of %d articles, %d are positive, %d are negative, and %d are neutral. ",
		dist.Total(), dist.Positive, dist.Negative, dist.Neutral)
	b.WriteString(report.FinalSentimentAnalysis)

	for i, a := range report.Articles {
		if i == narrationArticles {
			break
		}
		fmt.Fprintf(&b, " Article %d: %s.", i+1, a.Title)
		if a.Summary != "" {
			b.WriteString(" " + a.Summary)
		}
	}

	return b.String()
}
