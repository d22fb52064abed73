package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for oracle response caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key for one oracle request. The task, model
// and full prompt all participate so a changed prompt or model never
// serves a stale completion.
func Key(task, model, prompt string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", task, model, prompt)))
	return "lexgraph:v1:" + hex.EncodeToString(hash[:])
}
