// Package pipeline orchestrates one ingestion batch end to end: fetch,
// enrich, embed, assign, update topics, persist, and snapshot trends.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pmarkov/newsmind/internal/cache"
	"github.com/pmarkov/newsmind/internal/cluster"
	"github.com/pmarkov/newsmind/internal/embed"
	"github.com/pmarkov/newsmind/internal/ingest"
	"github.com/pmarkov/newsmind/internal/llm"
	"github.com/pmarkov/newsmind/internal/model"
	"github.com/pmarkov/newsmind/internal/store"
	"github.com/pmarkov/newsmind/internal/topics"
	"github.com/pmarkov/newsmind/internal/trend"
	"github.com/pmarkov/newsmind/internal/worker"
)

// Source supplies the next batch of articles. The Hacker News client is
// the production implementation.
type Source interface {
	FetchBatch(ctx context.Context) ([]*model.Article, error)
}

// Pipeline orchestrates the complete batch process
type Pipeline struct {
	config     *model.Config
	store      store.Store
	source     Source
	enricher   *worker.BatchEnricher // nil when enrichment is disabled
	embedder   embed.Provider
	summarizer llm.Summarizer // nil when summarization is disabled
	logger     *slog.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, st store.Store, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := cache.NewLayeredCache(30*time.Minute, cfg.Ingest.CacheDir, 24*time.Hour)

	var enricher *worker.BatchEnricher
	if cfg.Ingest.Enrich {
		enricher = worker.NewBatchEnricher(
			ingest.NewFullTextEnricher(cfg.Ingest, c, logger),
			cfg.Ingest.Concurrency,
		)
	}

	embedder, err := embed.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("create embedding provider: %w", err)
	}

	summarizer, err := llm.NewSummarizer(cfg.LLM)
	if err != nil {
		// Summaries are presentation only; a broken summarizer never
		// blocks ingestion.
		logger.Warn("summarizer unavailable", "error", err)
		summarizer = nil
	}

	return &Pipeline{
		config:     cfg,
		store:      st,
		source:     ingest.NewClient(cfg.Ingest, c, logger),
		enricher:   enricher,
		embedder:   embedder,
		summarizer: summarizer,
		logger:     logger,
	}, nil
}

// SetSource overrides the article source. Used by tests.
func (p *Pipeline) SetSource(s Source) {
	p.source = s
}

// RunResult summarizes one batch run.
type RunResult struct {
	Articles    int
	Assigned    int
	NewClusters int
	Report      *model.TrendReport
	Summaries   map[string]string
}

// Run fetches one batch and processes it.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	articles, err := p.source.FetchBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch batch: %w", err)
	}
	return p.Process(ctx, articles)
}

// Process pushes the articles through enrichment, embedding, cluster
// assignment, topic updates, and trend snapshotting. Assignment is
// idempotent per article ID, so re-running a partially processed batch
// never double-counts.
func (p *Pipeline) Process(ctx context.Context, articles []*model.Article) (*RunResult, error) {
	if p.enricher != nil {
		for _, res := range p.enricher.EnrichAll(ctx, articles) {
			if res.Error != nil {
				p.logger.Warn("enrichment failed, keeping headline text",
					"article_id", res.Article.ID, "error", res.Error)
			}
		}
	}

	texts := make([]string, len(articles))
	for i, a := range articles {
		texts[i] = a.Title + " " + a.Text
	}
	embeddings, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(embeddings) != len(articles) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d articles", len(embeddings), len(articles))
	}
	for i, a := range articles {
		a.Embedding = embeddings[i]
	}

	clusterStore, err := p.store.LoadClusters()
	if err != nil {
		return nil, fmt.Errorf("load clusters: %w", err)
	}
	stats, err := p.store.LoadTopicStats()
	if err != nil {
		return nil, fmt.Errorf("load topic stats: %w", err)
	}

	engine := cluster.NewEngine(clusterStore, p.config.Engine.AssignmentThreshold, p.logger)
	topicEngine := topics.NewEngine(stats, clusterStore, p.config.Topics)

	now := time.Now().UTC()
	clustersBefore := len(clusterStore.Clusters)
	assigned := 0
	for _, a := range articles {
		// An article seen in an earlier run is already counted in both the
		// cluster and its keyword stats; touching it again would decay and
		// re-increment the topics.
		if existing := clusterStore.FindMember(a.ID); existing != "" {
			p.logger.Debug("article already processed", "article_id", a.ID, "cluster_id", existing)
			continue
		}
		clusterID, err := engine.Assign(a.ID, a.Embedding, now)
		if err != nil {
			p.logger.Warn("skipping unassignable article", "article_id", a.ID, "error", err)
			continue
		}
		if err := topicEngine.Update(clusterID, a.Keywords, now); err != nil {
			return nil, fmt.Errorf("update topics for %s: %w", clusterID, err)
		}
		if err := p.store.SaveArticle(a); err != nil {
			return nil, fmt.Errorf("save article %s: %w", a.ID, err)
		}
		assigned++
	}

	if err := p.store.SaveClusters(clusterStore); err != nil {
		return nil, fmt.Errorf("save clusters: %w", err)
	}
	if err := p.store.SaveTopicStats(topicEngine.Stats()); err != nil {
		return nil, fmt.Errorf("save topic stats: %w", err)
	}

	result := &RunResult{
		Articles:    len(articles),
		Assigned:    assigned,
		NewClusters: len(clusterStore.Clusters) - clustersBefore,
	}

	snapshot := trend.Snapshot(clusterStore, now)
	previous, err := p.store.LoadLatestTrendSnapshot()
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}
	if previous != nil {
		report, err := trend.NewDetector(p.config.Trends).Detect(previous, snapshot)
		if err != nil {
			return nil, fmt.Errorf("detect trends: %w", err)
		}
		result.Report = report
	}
	if err := p.store.AppendTrendSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("append snapshot: %w", err)
	}

	if p.summarizer != nil && result.Report != nil {
		result.Summaries = p.summarizeTrending(ctx, result.Report, topicEngine, clusterStore)
	}

	p.logger.Info("batch processed",
		"articles", result.Articles,
		"assigned", result.Assigned,
		"new_clusters", result.NewClusters,
		"total_clusters", len(clusterStore.Clusters))
	return result, nil
}

// summarizeTrending labels growing and new clusters. Failures are logged
// and skipped; summaries never affect persisted state.
func (p *Pipeline) summarizeTrending(ctx context.Context, report *model.TrendReport, topicEngine *topics.Engine, clusterStore *model.ClusterStore) map[string]string {
	ids := make([]string, 0, len(report.Growing)+len(report.New))
	for _, e := range report.Growing {
		ids = append(ids, e.ClusterID)
	}
	for _, e := range report.New {
		ids = append(ids, e.ClusterID)
	}

	summaries := make(map[string]string)
	for _, id := range ids {
		keywords, err := topicEngine.TopKeywords(id, p.config.Topics.TopKeywords)
		if err != nil {
			continue
		}
		resp, err := p.summarizer.Summarize(ctx, llm.SummarizeRequest{
			ClusterID:     id,
			DocumentCount: clusterStore.Clusters[id].DocumentCount,
			Keywords:      keywords,
			Headlines:     p.headlines(id, clusterStore),
		})
		if err != nil {
			p.logger.Warn("cluster summary failed", "cluster_id", id, "error", err)
			continue
		}
		summaries[id] = resp.Summary
	}
	return summaries
}

// headlines samples up to ten member article titles for the prompt.
func (p *Pipeline) headlines(clusterID string, clusterStore *model.ClusterStore) []string {
	c, ok := clusterStore.Clusters[clusterID]
	if !ok {
		return nil
	}
	var titles []string
	for _, id := range c.MemberIDs {
		if len(titles) >= 10 {
			break
		}
		article, err := p.store.LoadArticle(id)
		if err != nil {
			continue
		}
		titles = append(titles, article.Title)
	}
	return titles
}
