package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// EmbeddingCache is a write-through text-to-vector store with no eviction.
// Keys are SHA-256 hashes of the normalized source text, so "  Foo " and
// "foo" share an entry. Concurrent misses for one key are collapsed into a
// single provider call; the call runs under its own timeout, detached from
// the caller, so a vector that completes after the caller gave up still
// lands in the cache.
type EmbeddingCache struct {
	provider     EmbeddingProvider
	dim          int
	embedTimeout time.Duration

	mu      sync.RWMutex
	entries map[string][]float64
	flight  singleflight.Group
}

// NewEmbeddingCache builds a cache around provider. dim is the expected
// vector length (DefaultEmbeddingDim when zero); vectors of any other length
// are rejected and not cached.
func NewEmbeddingCache(provider EmbeddingProvider, dim int, embedTimeout time.Duration) *EmbeddingCache {
	if dim <= 0 {
		dim = DefaultEmbeddingDim
	}
	if embedTimeout <= 0 {
		embedTimeout = defaultEmbedTO
	}
	return &EmbeddingCache{
		provider:     provider,
		dim:          dim,
		embedTimeout: embedTimeout,
		entries:      make(map[string][]float64),
	}
}

// NormalizeText is the canonical form used for cache keying.
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}

// Get returns the embedding for text, fetching and storing it on first use.
// The returned slice is shared; callers must not mutate it.
func (c *EmbeddingCache) Get(ctx context.Context, text string) ([]float64, error) {
	key := cacheKey(text)

	c.mu.RLock()
	vec, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return vec, nil
	}

	ch := c.flight.DoChan(key, func() (interface{}, error) {
		// Detached context: a caller cancelling mid-flight abandons the
		// wait, not the call, so the write-through below can still happen.
		fctx, cancel := context.WithTimeout(context.Background(), c.embedTimeout)
		defer cancel()

		fetched, err := c.provider.Embed(fctx, text)
		if err != nil {
			return nil, err
		}
		if len(fetched) != c.dim {
			return nil, fmt.Errorf("provider returned %d dimensions, want %d", len(fetched), c.dim)
		}

		c.mu.Lock()
		c.entries[key] = fetched
		c.mu.Unlock()
		return fetched, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]float64), nil
	}
}

// Len reports how many vectors are stored.
func (c *EmbeddingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
