package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/newsbriefhq/newsbrief/pkg/models"
)

// newsSource is anything that can search articles for a company.
type newsSource interface {
	Name() string
	Search(ctx context.Context, company string, limit int) ([]models.RawArticle, error)
}

// Fetcher is the news-fetching facade: an in-memory hot cache in front
// of an optional disk cache, a primary source (NewsAPI when a key is
// configured), and a Google News RSS fallback. An optional extractor
// enriches thin articles with scraped body text.
type Fetcher struct {
	primary   newsSource
	fallback  newsSource
	cache     *Cache
	disk      *DiskCache
	extractor *Extractor
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithDiskCache adds a persistent cache layer.
func WithDiskCache(d *DiskCache) FetcherOption {
	return func(f *Fetcher) { f.disk = d }
}

// WithExtractor enables full-text enrichment of fetched articles.
func WithExtractor(e *Extractor) FetcherOption {
	return func(f *Fetcher) { f.extractor = e }
}

// WithPrimary overrides the primary source. Used in tests.
func WithPrimary(s newsSource) FetcherOption {
	return func(f *Fetcher) { f.primary = s }
}

// WithFallback overrides the fallback source. Used in tests.
func WithFallback(s newsSource) FetcherOption {
	return func(f *Fetcher) { f.fallback = s }
}

// NewFetcher creates a Fetcher. An empty apiKey disables the NewsAPI
// primary, so every fetch goes straight to the RSS fallback.
func NewFetcher(apiKey string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		primary:  NewNewsAPI(apiKey),
		fallback: NewGoogleNews(),
		cache:    NewCache(10 * time.Minute),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchCompanyNews returns up to limit raw articles about the company.
// Cached results are served first; otherwise the primary source is
// tried and the fallback covers primary failures. A fetch fails only
// when every source fails.
func (f *Fetcher) FetchCompanyNews(ctx context.Context, company string, limit int) ([]models.RawArticle, error) {
	cacheKey := fmt.Sprintf("news:company:%s:%d", company, limit)

	if cached, ok := f.cache.Get(cacheKey); ok {
		return cached.([]models.RawArticle), nil
	}
	if f.disk != nil {
		if articles, ok := f.disk.Get(cacheKey); ok {
			f.cache.Set(cacheKey, articles)
			return articles, nil
		}
	}

	articles, err := f.primary.Search(ctx, company, limit)
	if err != nil {
		articles, err = f.fallback.Search(ctx, company, limit)
		if err != nil {
			return nil, fmt.Errorf("fetch news for %s: %w", company, err)
		}
	}

	if f.extractor != nil {
		// Enrichment is best-effort: articles keep their RSS summary
		// when scraping fails.
		articles = f.extractor.Enrich(ctx, articles)
	}

	f.cache.Set(cacheKey, articles)
	if f.disk != nil {
		// Disk persistence is an optimization, not a contract.
		_ = f.disk.Set(cacheKey, articles)
	}

	return articles, nil
}
