// Package cache provides a layered (memory + disk) byte cache used by the
// ingestion layer for fetched story payloads and article bodies, so
// re-running a batch does not re-hit upstream sources.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ArticleKey generates a cache key from a URL
func ArticleKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "newsmind:v1:" + hex.EncodeToString(hash[:])
}
