package worker

import (
	"context"

	"github.com/pmarkov/newsmind/internal/model"
)

// Enricher fills in an article's full text and keywords. The ingest
// package provides the real implementation; it is network-bound, which is
// why enrichment fans out across the pool while cluster assignment stays
// strictly single-writer.
type Enricher interface {
	Enrich(ctx context.Context, article *model.Article) error
}

// EnrichJob enriches a single article
type EnrichJob struct {
	Article  *model.Article
	Enricher Enricher
}

// Execute executes the enrichment job
func (j *EnrichJob) Execute(ctx context.Context) Result {
	if err := j.Enricher.Enrich(ctx, j.Article); err != nil {
		return &EnrichResult{Article: j.Article, Error: err}
	}
	return &EnrichResult{Article: j.Article}
}

// EnrichResult represents the result of an enrichment job
type EnrichResult struct {
	Article *model.Article
	Error   error
}

// GetError returns the error from the enrichment result
func (r *EnrichResult) GetError() error {
	return r.Error
}

// BatchEnricher enriches multiple articles concurrently
type BatchEnricher struct {
	enricher    Enricher
	concurrency int
}

// NewBatchEnricher creates a new batch enricher
func NewBatchEnricher(enricher Enricher, concurrency int) *BatchEnricher {
	return &BatchEnricher{
		enricher:    enricher,
		concurrency: concurrency,
	}
}

// EnrichAll enriches the articles concurrently and returns one result per
// article. Failed enrichments carry their error; the articles themselves
// still proceed through the pipeline with whatever text they already have.
func (b *BatchEnricher) EnrichAll(ctx context.Context, articles []*model.Article) []*EnrichResult {
	if len(articles) == 0 {
		return []*EnrichResult{}
	}

	pool := NewPoolSized(b.concurrency, len(articles))
	pool.Start()

	for _, article := range articles {
		pool.Submit(&EnrichJob{Article: article, Enricher: b.enricher})
	}

	results := pool.Wait()

	enrichResults := make([]*EnrichResult, len(results))
	for i, result := range results {
		enrichResults[i] = result.(*EnrichResult)
	}

	return enrichResults
}
