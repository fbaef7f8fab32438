// Package ingest pulls stories from the Hacker News Firebase API and turns
// them into normalized articles ready for embedding and clustering.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pmarkov/newsmind/internal/cache"
	"github.com/pmarkov/newsmind/internal/model"
)

// DefaultBaseURL is the public Hacker News Firebase endpoint.
const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

const (
	listCacheTTL = 5 * time.Minute
	itemCacheTTL = 24 * time.Hour
	maxRetries   = 3
)

// retryBackoff is a variable so tests can run without sleeping.
var retryBackoff = func(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Second
}

// Item is a Hacker News item as returned by the Firebase API.
type Item struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Text    string `json:"text"`
	Score   int    `json:"score"`
	By      string `json:"by"`
	Time    int64  `json:"time"`
	Deleted bool   `json:"deleted"`
	Dead    bool   `json:"dead"`
}

// Client fetches story lists and items from Hacker News. All requests share
// one rate limiter; item payloads are cached so re-running a batch does not
// re-hit the API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	cache      cache.Cache
	userAgent  string
	logger     *slog.Logger

	maxStories int
	lists      []string
}

// NewClient creates a Hacker News client from the ingest configuration.
// The cache may be nil, in which case every request goes to the network.
func NewClient(cfg model.IngestConfig, c cache.Cache, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    DefaultBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cache:      c,
		userAgent:  cfg.UserAgent,
		logger:     logger,
		maxStories: cfg.MaxStoriesPerList,
		lists:      cfg.StoryLists,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// FetchBatch pulls the configured story lists, deduplicates IDs across
// lists, fetches each item, and converts live stories to articles. Items
// that fail to fetch are logged and skipped so one bad item never sinks
// the batch.
func (c *Client) FetchBatch(ctx context.Context) ([]*model.Article, error) {
	seen := make(map[int]bool)
	var ids []int
	for _, list := range c.lists {
		listIDs, err := c.fetchList(ctx, list)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", list, err)
		}
		if len(listIDs) > c.maxStories {
			listIDs = listIDs[:c.maxStories]
		}
		for _, id := range listIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	now := time.Now().UTC()
	articles := make([]*model.Article, 0, len(ids))
	for _, id := range ids {
		item, err := c.fetchItem(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("skipping item", "id", id, "error", err)
			continue
		}
		article, ok := ItemToArticle(item, now)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}

	c.logger.Info("fetched batch", "lists", len(c.lists), "ids", len(ids), "articles", len(articles))
	return articles, nil
}

// fetchList returns the story IDs for one list (topstories, newstories...).
func (c *Client) fetchList(ctx context.Context, list string) ([]int, error) {
	data, err := c.get(ctx, fmt.Sprintf("%s/%s.json", c.baseURL, list), listCacheTTL)
	if err != nil {
		return nil, err
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return ids, nil
}

// fetchItem returns one item by ID.
func (c *Client) fetchItem(ctx context.Context, id int) (*Item, error) {
	data, err := c.get(ctx, fmt.Sprintf("%s/item/%d.json", c.baseURL, id), itemCacheTTL)
	if err != nil {
		return nil, err
	}
	var item Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decode item %d: %w", id, err)
	}
	return &item, nil
}

// get performs a cached, rate-limited GET with retries on 5xx and network
// errors.
func (c *Client) get(ctx context.Context, url string, ttl time.Duration) ([]byte, error) {
	key := cache.ArticleKey(url)
	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			return data, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryBackoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		data, retryable, err := c.doGet(ctx, url)
		if err == nil {
			if c.cache != nil {
				if err := c.cache.Set(key, data, ttl); err != nil {
					c.logger.Warn("cache write failed", "error", err)
				}
			}
			return data, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) doGet(ctx context.Context, url string) (data []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	return body, false, nil
}

// ItemToArticle converts a live story item to a normalized article. It
// returns false for deleted, dead, or non-story items and for titles that
// do not look like English text. Ask HN posts have no URL; the item page
// on news.ycombinator.com stands in so every article has one.
func ItemToArticle(item *Item, ingestedAt time.Time) (*model.Article, bool) {
	if item == nil || item.Deleted || item.Dead || item.Type != "story" {
		return nil, false
	}
	title := NormalizeWhitespace(item.Title)
	if title == "" || !IsEnglish(title) {
		return nil, false
	}

	url := item.URL
	if url == "" {
		url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", item.ID)
	}

	text := NormalizeWhitespace(item.Text)
	return &model.Article{
		ID:          ArticleID(url),
		Title:       title,
		URL:         url,
		Source:      "hackernews",
		Text:        text,
		PublishedAt: time.Unix(item.Time, 0).UTC(),
		IngestedAt:  ingestedAt,
		Keywords:    ExtractKeywords(title + " " + text),
	}, true
}
