package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/newsbriefhq/newsbrief/pkg/models"
	"github.com/newsbriefhq/newsbrief/pkg/utils"
)

// newsAPIBaseURL is the NewsAPI.org endpoint prefix.
const newsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPI fetches company news from NewsAPI.org. Requires an API key;
// without one, Search fails fast with ErrMissingAPIKey so the caller
// can fall back to another source.
type NewsAPI struct {
	apiKey  string
	baseURL string
	limiter *RateLimiter
}

// NewNewsAPI creates a NewsAPI client with the given key.
func NewNewsAPI(apiKey string) *NewsAPI {
	return &NewsAPI{
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		limiter: NewRateLimiter(5, time.Second),
	}
}

// Name returns the data source name.
func (n *NewsAPI) Name() string { return "NewsAPI" }

// newsAPIResponse mirrors the /v2/everything response shape.
type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// Search returns up to limit recent English articles about the company.
func (n *NewsAPI) Search(ctx context.Context, company string, limit int) ([]models.RawArticle, error) {
	if n.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", company)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	if limit > 0 {
		q.Set("pageSize", fmt.Sprintf("%d", limit))
	}

	endpoint := fmt.Sprintf("%s/everything?%s", n.baseURL, q.Encode())
	body, status, err := doGet(ctx, endpoint, map[string]string{
		"X-Api-Key": n.apiKey,
	})
	if err != nil {
		if status == 429 {
			return nil, ErrRateLimited
		}
		return nil, err
	}
	defer body.Close()

	var resp newsAPIResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode NewsAPI response: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("NewsAPI status %q", resp.Status)
	}

	articles := make([]models.RawArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.Title == "" || a.Title == "[Removed]" {
			continue
		}
		articles = append(articles, models.RawArticle{
			Title:       a.Title,
			URL:         a.URL,
			Summary:     utils.Truncate(a.Description, summaryMaxChars),
			Content:     a.Content,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
		if limit > 0 && len(articles) >= limit {
			break
		}
	}

	return articles, nil
}
