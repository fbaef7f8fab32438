// Package embed turns article text into embedding vectors. Two providers
// exist: an OpenAI-backed one and a deterministic local one for offline
// runs and tests.
package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/pmarkov/newsmind/internal/model"
)

// Provider produces one embedding per input text, in input order.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}

// NewProvider builds the configured provider.
func NewProvider(cfg model.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "local", "":
		return NewLocalProvider(cfg.Dimension)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

// LocalProvider hashes tokens into a fixed number of buckets and
// L2-normalizes the result. The same text always yields the same vector,
// which keeps repeated runs reproducible without any network dependency.
type LocalProvider struct {
	dimension int
}

// NewLocalProvider creates a local provider with the given dimensionality.
func NewLocalProvider(dimension int) (*LocalProvider, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", dimension)
	}
	return &LocalProvider{dimension: dimension}, nil
}

// Dimension returns the vector length this provider produces.
func (p *LocalProvider) Dimension() int {
	return p.dimension
}

// Embed hashes each token of each text into a bucket and returns the
// normalized bucket counts. A text with no tokens yields the zero vector,
// which has similarity 0 to every centroid and so starts its own cluster.
func (p *LocalProvider) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = p.embedOne(text)
	}
	return vectors, nil
}

func (p *LocalProvider) embedOne(text string) []float64 {
	vec := make([]float64, p.dimension)
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, token := range tokens {
		hash := sha256.Sum256([]byte(token))
		bucket := binary.BigEndian.Uint64(hash[:8]) % uint64(p.dimension)
		// The second hash word signs the contribution, which spreads
		// colliding tokens apart instead of always stacking them.
		if binary.BigEndian.Uint64(hash[8:16])%2 == 0 {
			vec[bucket]++
		} else {
			vec[bucket]--
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
