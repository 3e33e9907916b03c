package datasource

import (
	"context"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/sync/errgroup"

	"github.com/newsbriefhq/newsbrief/pkg/models"
	"github.com/newsbriefhq/newsbrief/pkg/utils"
)

// extractConcurrency bounds parallel page scrapes per Enrich call.
const extractConcurrency = 4

// minContentChars is the body length below which an article is
// considered thin and worth scraping.
const minContentChars = 120

// Extractor scrapes article pages for body text to enrich thin RSS
// entries. Scraping is strictly best-effort.
type Extractor struct {
	timeout time.Duration
}

// NewExtractor creates an Extractor with the given per-page timeout.
func NewExtractor(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Extractor{timeout: timeout}
}

// Enrich fills in Content (and an empty Summary) for articles whose
// fetched body is thin, scraping up to extractConcurrency pages at
// once. Articles that cannot be scraped are returned unchanged.
func (e *Extractor) Enrich(ctx context.Context, articles []models.RawArticle) []models.RawArticle {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(extractConcurrency)

	enriched := make([]models.RawArticle, len(articles))
	copy(enriched, articles)

	for i := range enriched {
		if enriched[i].URL == "" || len(enriched[i].Content) >= minContentChars {
			continue
		}
		i := i
		g.Go(func() error {
			text, err := e.scrape(ctx, enriched[i].URL)
			if err != nil || text == "" {
				return nil // keep the RSS summary
			}
			enriched[i].Content = text
			if enriched[i].Summary == "" {
				enriched[i].Summary = utils.Truncate(text, summaryMaxChars)
			}
			return nil
		})
	}

	_ = g.Wait() // workers never return errors
	return enriched
}

// scrape collects paragraph text from a single article page.
func (e *Extractor) scrape(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := colly.NewCollector(
		colly.UserAgent(DefaultUserAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(e.timeout)

	var paragraphs []string
	c.OnHTML("article p, main p, div.article-body p", func(el *colly.HTMLElement) {
		text := strings.TrimSpace(el.Text)
		// Skip boilerplate fragments: captions, bylines, share prompts.
		if len(text) < 40 {
			return
		}
		paragraphs = append(paragraphs, text)
	})

	if err := c.Visit(pageURL); err != nil {
		return "", err
	}
	c.Wait()

	return utils.CleanText(strings.Join(paragraphs, " ")), nil
}
