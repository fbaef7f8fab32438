// Package llm generates human-readable labels for clusters. Summaries are
// presentation only; nothing the model says ever feeds back into cluster
// or topic state.
package llm

import (
	"context"
	"fmt"

	"github.com/pmarkov/newsmind/internal/model"
)

// Summarizer labels one cluster from its keywords and headlines.
type Summarizer interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a short topic label and summary for a cluster
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)
}

// SummarizeRequest contains the cluster evidence the model may describe.
type SummarizeRequest struct {
	ClusterID     string
	DocumentCount int

	// Keywords are the cluster's decayed top keywords, strongest first.
	Keywords []model.KeywordFrequency

	// Headlines are sample article titles from the cluster.
	Headlines []string

	// MaxTokens limits the response length (0 uses the configured default).
	MaxTokens int
}

// SummarizeResponse contains the generated summary.
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// NewSummarizer builds the configured summarizer. An empty provider name
// disables summarization and returns nil.
func NewSummarizer(cfg model.LLMConfig) (Summarizer, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		p, err := NewOpenAIProvider(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// BuildPrompt constructs the default summarization prompt. The model is
// told to describe only the supplied keywords and headlines.
func BuildPrompt(req SummarizeRequest) string {
	prompt := fmt.Sprintf(`You are labeling a cluster of related news stories.

RULES:
1. Describe ONLY the keywords and headlines below. Do not speculate about
   stories not listed.
2. Answer in two lines: a topic label of at most 6 words, then a 1-2
   sentence summary of what the cluster covers.

Cluster: %s (%d stories)

Top keywords:
`, req.ClusterID, req.DocumentCount)

	for _, kw := range req.Keywords {
		prompt += fmt.Sprintf("- %s (%.2f)\n", kw.Keyword, kw.Frequency)
	}

	prompt += "\nSample headlines:\n"
	for i, headline := range req.Headlines {
		if i >= 10 { // Limit to avoid token bloat
			prompt += fmt.Sprintf("... and %d more\n", len(req.Headlines)-10)
			break
		}
		prompt += fmt.Sprintf("- %s\n", headline)
	}

	return prompt
}
