package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/newsbriefhq/newsbrief/pkg/models"
	"github.com/newsbriefhq/newsbrief/pkg/utils"
)

// googleNewsRSS is the Google News search feed endpoint.
const googleNewsRSS = "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en"

// summaryMaxChars caps RSS summaries; Google News descriptions are
// HTML link soup and only the leading text is useful.
const summaryMaxChars = 300

// GoogleNews fetches company news from the Google News RSS search feed.
// It needs no API key, which makes it the fallback source.
type GoogleNews struct {
	feedURL string
	limiter *RateLimiter
	parser  *gofeed.Parser
}

// NewGoogleNews creates a Google News RSS source.
func NewGoogleNews() *GoogleNews {
	return &GoogleNews{
		feedURL: googleNewsRSS,
		limiter: NewRateLimiter(2, time.Second), // conservative: 2 req/s
		parser:  gofeed.NewParser(),
	}
}

// Name returns the data source name.
func (g *GoogleNews) Name() string { return "Google News RSS" }

// Search returns up to limit articles mentioning the company.
func (g *GoogleNews) Search(ctx context.Context, company string, limit int) ([]models.RawArticle, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.QueryEscape(company + " news")
	feed, err := g.parser.ParseURLWithContext(fmt.Sprintf(g.feedURL, query), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse Google News feed: %w", err)
	}

	articles := make([]models.RawArticle, 0, limit)
	for _, item := range feed.Items {
		if limit > 0 && len(articles) >= limit {
			break
		}
		title, publisher := splitFeedTitle(item.Title)
		if title == "" {
			continue
		}
		a := models.RawArticle{
			Title:   title,
			URL:     item.Link,
			Summary: utils.Truncate(cleanHTML(item.Description), summaryMaxChars),
			Source:  publisher,
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = item.PublishedParsed.Format(time.RFC3339)
		}
		articles = append(articles, a)
	}

	return articles, nil
}

// splitFeedTitle splits the " - Publisher" suffix Google News appends
// to headlines into headline and publisher.
func splitFeedTitle(title string) (headline, publisher string) {
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
	}
	return strings.TrimSpace(title), ""
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
