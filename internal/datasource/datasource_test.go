package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/newsbriefhq/newsbrief/pkg/models"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(1 * time.Second)

	// Set a value.
	c.Set("key1", "value1")
	v, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if v != "value1" {
		t.Fatalf("got %v, want value1", v)
	}
}

func TestCacheMiss(t *testing.T) {
	c := NewCache(1 * time.Second)
	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(1 * time.Millisecond)
	c.Set("key", "val")

	// Wait for expiry.
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("key")
	if ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c := NewCache(1 * time.Hour) // default long TTL.
	c.SetWithTTL("quick", "val", 1*time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("quick")
	if ok {
		t.Fatal("expected cache miss after custom TTL expiry")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(1 * time.Hour)
	c.Set("key", "val")
	c.Invalidate("key")
	_, ok := c.Get("key")
	if ok {
		t.Fatal("expected cache miss after invalidation")
	}
}

func TestCacheCleanup(t *testing.T) {
	c := NewCache(1 * time.Millisecond)
	c.Set("expired", "val")
	time.Sleep(5 * time.Millisecond)

	c.Set("fresh", "val2")
	c.Cleanup()

	_, okExpired := c.Get("expired")
	_, okFresh := c.Get("fresh")
	if okExpired {
		t.Fatal("expected expired entry to be cleaned up")
	}
	if !okFresh {
		t.Fatal("expected fresh entry to survive cleanup")
	}
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Second)
	ctx := context.Background()

	// Should allow 3 immediate calls.
	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait() #%d failed: %v", i, err)
		}
	}
}

func TestRateLimiterCancelledContext(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour) // 1 token, very slow refill.
	ctx := context.Background()

	// Use the single token.
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("first Wait() failed: %v", err)
	}

	// Next call with cancelled context should fail.
	ctx2, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := rl.Wait(ctx2)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestErrHTTPError(t *testing.T) {
	e := &ErrHTTP{StatusCode: 404, Status: "404 Not Found", Body: "page not found"}
	msg := e.Error()
	if msg != "HTTP 404 404 Not Found: page not found" {
		t.Fatalf("unexpected error message: %s", msg)
	}
}

// --- NewsAPI ---

func TestNewsAPISearchRequiresKey(t *testing.T) {
	n := NewNewsAPI("")
	_, err := n.Search(context.Background(), "Tesla", 5)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNewsAPISearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("expected API key header, got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "Tesla" {
			t.Errorf("expected q=Tesla, got %q", got)
		}
		fmt.Fprint(w, `{
			"status": "ok",
			"totalResults": 3,
			"articles": [
				{"source": {"name": "Reuters"}, "title": "Tesla beats estimates", "description": "desc one", "url": "https://example.com/1"},
				{"source": {"name": "AP"}, "title": "[Removed]", "url": "https://example.com/2"},
				{"source": {"name": "BBC"}, "title": "Tesla recalls vehicles", "description": "desc two", "url": "https://example.com/3"}
			]
		}`)
	}))
	defer srv.Close()

	n := NewNewsAPI("test-key")
	n.baseURL = srv.URL

	articles, err := n.Search(context.Background(), "Tesla", 10)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles (removed one skipped), got %d", len(articles))
	}
	if articles[0].Title != "Tesla beats estimates" {
		t.Errorf("unexpected first title: %q", articles[0].Title)
	}
	if articles[0].Source != "Reuters" {
		t.Errorf("unexpected source: %q", articles[0].Source)
	}
}

func TestNewsAPISearchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status": "error", "articles": []}`)
	}))
	defer srv.Close()

	n := NewNewsAPI("test-key")
	n.baseURL = srv.URL

	if _, err := n.Search(context.Background(), "Tesla", 5); err == nil {
		t.Fatal("expected error for non-ok status")
	}
}

// --- Google News feed title handling ---

func TestSplitFeedTitle(t *testing.T) {
	tests := []struct {
		input     string
		headline  string
		publisher string
	}{
		{"Tesla surges on earnings - Reuters", "Tesla surges on earnings", "Reuters"},
		{"No publisher suffix", "No publisher suffix", ""},
		{"- no suffix here", "- no suffix here", ""},
	}
	for _, tt := range tests {
		headline, publisher := splitFeedTitle(tt.input)
		if headline != tt.headline || publisher != tt.publisher {
			t.Errorf("splitFeedTitle(%q) = (%q, %q), want (%q, %q)",
				tt.input, headline, publisher, tt.headline, tt.publisher)
		}
	}
}

func TestGoogleNewsSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
	<title>Search results</title>
	<item>
		<title>Tesla hits record high - Reuters</title>
		<link>https://example.com/a</link>
		<description>&lt;a href="x"&gt;Tesla hits record high&lt;/a&gt;</description>
		<pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
	</item>
	<item>
		<title>Tesla faces recall - BBC</title>
		<link>https://example.com/b</link>
		<description>Tesla faces recall</description>
	</item>
</channel></rss>`)
	}))
	defer srv.Close()

	g := NewGoogleNews()
	g.feedURL = srv.URL + "/?q=%s"

	articles, err := g.Search(context.Background(), "Tesla", 1)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected limit respected, got %d articles", len(articles))
	}
	if articles[0].Title != "Tesla hits record high" {
		t.Errorf("expected publisher suffix trimmed, got %q", articles[0].Title)
	}
	if articles[0].Source != "Reuters" {
		t.Errorf("expected publisher captured, got %q", articles[0].Source)
	}
	if articles[0].PublishedAt == "" {
		t.Error("expected published date set")
	}
}

// --- Disk cache ---

func TestDiskCacheRoundTrip(t *testing.T) {
	d, err := NewDiskCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewDiskCache() failed: %v", err)
	}

	want := []models.RawArticle{{Title: "cached", URL: "https://example.com"}}
	if err := d.Set("news:company:Tesla:5", want); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, ok := d.Get("news:company:Tesla:5")
	if !ok {
		t.Fatal("expected disk cache hit")
	}
	if len(got) != 1 || got[0].Title != "cached" {
		t.Fatalf("unexpected cached value: %+v", got)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	d, err := NewDiskCache(t.TempDir(), 1*time.Millisecond)
	if err != nil {
		t.Fatalf("NewDiskCache() failed: %v", err)
	}

	if err := d.Set("key", []models.RawArticle{{Title: "old"}}); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok := d.Get("key"); ok {
		t.Fatal("expected miss after expiry")
	}
	if _, err := os.Stat(d.path("key")); !os.IsNotExist(err) {
		t.Errorf("expired entry should be removed from disk, stat err: %v", err)
	}
}

func TestDiskCacheMiss(t *testing.T) {
	d, err := NewDiskCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewDiskCache() failed: %v", err)
	}
	if _, ok := d.Get("never-written"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

// --- Fetcher ---

type fakeSource struct {
	name     string
	articles []models.RawArticle
	err      error
	calls    int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(_ context.Context, _ string, _ int) ([]models.RawArticle, error) {
	f.calls++
	return f.articles, f.err
}

func TestFetcherUsesPrimary(t *testing.T) {
	primary := &fakeSource{name: "primary", articles: []models.RawArticle{{Title: "from primary"}}}
	fallback := &fakeSource{name: "fallback", articles: []models.RawArticle{{Title: "from fallback"}}}

	f := NewFetcher("", WithPrimary(primary), WithFallback(fallback))
	articles, err := f.FetchCompanyNews(context.Background(), "Tesla", 5)
	if err != nil {
		t.Fatalf("FetchCompanyNews() failed: %v", err)
	}
	if articles[0].Title != "from primary" {
		t.Errorf("expected primary result, got %q", articles[0].Title)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback should not be called when primary succeeds, got %d calls", fallback.calls)
	}
}

func TestFetcherFallsBack(t *testing.T) {
	primary := &fakeSource{name: "primary", err: ErrMissingAPIKey}
	fallback := &fakeSource{name: "fallback", articles: []models.RawArticle{{Title: "from fallback"}}}

	f := NewFetcher("", WithPrimary(primary), WithFallback(fallback))
	articles, err := f.FetchCompanyNews(context.Background(), "Tesla", 5)
	if err != nil {
		t.Fatalf("FetchCompanyNews() failed: %v", err)
	}
	if articles[0].Title != "from fallback" {
		t.Errorf("expected fallback result, got %q", articles[0].Title)
	}
}

func TestFetcherBothSourcesFail(t *testing.T) {
	primary := &fakeSource{name: "primary", err: ErrMissingAPIKey}
	fallback := &fakeSource{name: "fallback", err: errors.New("feed down")}

	f := NewFetcher("", WithPrimary(primary), WithFallback(fallback))
	if _, err := f.FetchCompanyNews(context.Background(), "Tesla", 5); err == nil {
		t.Fatal("expected error when both sources fail")
	}
}

func TestFetcherCachesResults(t *testing.T) {
	primary := &fakeSource{name: "primary", articles: []models.RawArticle{{Title: "once"}}}

	f := NewFetcher("", WithPrimary(primary))
	for i := 0; i < 3; i++ {
		if _, err := f.FetchCompanyNews(context.Background(), "Tesla", 5); err != nil {
			t.Fatalf("fetch #%d failed: %v", i, err)
		}
	}
	if primary.calls != 1 {
		t.Errorf("expected a single upstream call, got %d", primary.calls)
	}
}

func TestFetcherDiskCacheSurvivesNewFetcher(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDiskCache(dir, time.Hour)
	if err != nil {
		t.Fatalf("NewDiskCache() failed: %v", err)
	}

	primary := &fakeSource{name: "primary", articles: []models.RawArticle{{Title: "persisted"}}}
	f1 := NewFetcher("", WithPrimary(primary), WithDiskCache(d))
	if _, err := f1.FetchCompanyNews(context.Background(), "Tesla", 5); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	// New process simulation: fresh fetcher, same disk cache, dead sources.
	d2, err := NewDiskCache(dir, time.Hour)
	if err != nil {
		t.Fatalf("NewDiskCache() failed: %v", err)
	}
	dead := &fakeSource{name: "dead", err: errors.New("down")}
	f2 := NewFetcher("", WithPrimary(dead), WithFallback(dead), WithDiskCache(d2))

	articles, err := f2.FetchCompanyNews(context.Background(), "Tesla", 5)
	if err != nil {
		t.Fatalf("disk-cached fetch failed: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "persisted" {
		t.Fatalf("unexpected disk cache contents: %+v", articles)
	}
}
