package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/pmarkov/newsmind/internal/cache"
	"github.com/pmarkov/newsmind/internal/model"
	"github.com/pmarkov/newsmind/internal/worker"
)

// FullTextEnricher fetches the article page and replaces the stub text
// with the visible page text. It respects robots.txt and caches fetched
// bodies; enrichment failures are reported to the caller but never block
// the article from being clustered on its headline alone.
type FullTextEnricher struct {
	httpClient *http.Client
	robots     *RobotsChecker
	limiter    *worker.Limiter
	cache      cache.Cache
	userAgent  string
	maxBytes   int64
	logger     *slog.Logger
}

// NewFullTextEnricher creates an enricher from the ingest configuration.
func NewFullTextEnricher(cfg model.IngestConfig, c cache.Cache, logger *slog.Logger) *FullTextEnricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &FullTextEnricher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter:   worker.NewLimiter(cfg.RequestsPerSecond, 2),
		cache:     c,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		logger:    logger,
	}
}

// Enrich fetches the article page and rebuilds the keyword set from the
// full text. Articles whose page is disallowed, unreachable, or not
// recognizably English keep their headline-derived text and keywords.
func (e *FullTextEnricher) Enrich(ctx context.Context, article *model.Article) error {
	if !strings.HasPrefix(article.URL, "http") {
		return fmt.Errorf("unsupported scheme: %s", article.URL)
	}

	allowed, crawlDelay, err := e.robots.CanFetch(ctx, article.URL)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("disallowed by robots.txt: %s", article.URL)
	}

	// Per-domain limit plus whatever crawl delay the host asks for.
	if err := e.limiter.WaitWithDelay(ctx, article.URL, crawlDelay); err != nil {
		return err
	}

	body, err := e.fetch(ctx, article.URL)
	if err != nil {
		return err
	}

	text, err := ExtractText(string(body))
	if err != nil {
		return fmt.Errorf("parse page: %w", err)
	}
	if text == "" || !IsEnglish(text) {
		return fmt.Errorf("no usable english text at %s", article.URL)
	}

	article.Text = text
	article.Keywords = ExtractKeywords(article.Title + " " + text)
	return nil
}

func (e *FullTextEnricher) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	key := cache.ArticleKey("body:" + rawURL)
	if e.cache != nil {
		if data, ok := e.cache.Get(key); ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if e.cache != nil {
		if err := e.cache.Set(key, body, itemCacheTTL); err != nil {
			e.logger.Warn("cache write failed", "error", err)
		}
	}
	return body, nil
}

// ExtractText returns the visible text of an HTML document with scripts,
// styles, and embedded frames stripped, whitespace-normalized.
func ExtractText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return NormalizeWhitespace(buf.String()), nil
}
