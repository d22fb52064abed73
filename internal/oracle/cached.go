package oracle

import (
	"context"
	"encoding/json"

	"github.com/lexgraph/lexgraph/internal/cache"
)

// CachedProvider wraps a Provider with a response cache. Completions
// are deterministic enough at low temperature that replaying them is
// safe, and documents get re-processed often while tuning thresholds.
type CachedProvider struct {
	inner Provider
	cache cache.Cache
}

// NewCachedProvider wraps a provider. A nil cache disables caching.
func NewCachedProvider(inner Provider, c cache.Cache) Provider {
	if c == nil {
		return inner
	}
	return &CachedProvider{inner: inner, cache: c}
}

// Name returns the wrapped provider's name
func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (p *CachedProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}

// Complete serves from cache when possible, otherwise calls through
// and stores the response. Cache failures are ignored: a broken cache
// must never fail an extraction.
func (p *CachedProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	key := cache.Key(string(req.Task), req.Model, req.Prompt)

	if data, found := p.cache.Get(key); found {
		var resp Response
		if err := json.Unmarshal(data, &resp); err == nil {
			return &resp, nil
		}
	}

	resp, err := p.inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		_ = p.cache.Set(key, data, 0)
	}
	return resp, nil
}
