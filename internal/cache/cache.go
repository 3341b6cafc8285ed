// Package cache memoizes embedding vectors within a run. Keys are content
// addressed over the embedding model and the input text.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache stores embedding vectors. Implementations own their expiry policy.
type Cache interface {
	Get(key string) ([]float32, bool)
	Set(key string, vec []float32)
}

// Key generates a cache key for an embedding input. The model name is part
// of the key so switching embedding models never serves stale vectors.
func Key(embeddingModel, text string) string {
	hash := sha256.Sum256([]byte(embeddingModel + "\x00" + text))
	return "callsift:v1:" + hex.EncodeToString(hash[:])
}
