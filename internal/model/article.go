package model

import "time"

// Article is the normalized record handed to the engine by upstream
// processing. It is immutable once created: the engine references articles
// by ID but never rewrites their content.
type Article struct {
	ID          string    `json:"article_id"` // deterministic, derived from the canonical URL
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source,omitempty"` // e.g. "hackernews"
	Text        string    `json:"text,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	IngestedAt  time.Time `json:"ingested_at"`

	// Keywords extracted during normalization; may be empty.
	Keywords []string `json:"keywords,omitempty"`

	// Embedding is the fixed-length vector produced by the embedding
	// provider. Empty until the embedding stage has run.
	Embedding []float64 `json:"embedding,omitempty"`
}

// HasEmbedding reports whether the embedding stage has produced a vector.
func (a *Article) HasEmbedding() bool {
	return len(a.Embedding) > 0
}
