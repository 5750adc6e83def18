package quotes

import (
	"context"
	"time"

	"finance/src/utils"
)

// CachedClient serves repeated lookups of a symbol from memory for ttl.
// Failures are not cached.
type CachedClient struct {
	next  QuoteServiceClientI
	cache *utils.Cache[string, Quote]
	ttl   time.Duration
}

func NewCachedClient(next QuoteServiceClientI, ttl time.Duration) *CachedClient {
	return &CachedClient{
		next:  next,
		cache: utils.NewCache[string, Quote](),
		ttl:   ttl,
	}
}

func (c *CachedClient) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	if c.ttl <= 0 {
		return c.next.Lookup(ctx, symbol)
	}
	if quote, ok := c.cache.Get(symbol); ok {
		return &quote, nil
	}

	quote, err := c.next.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.cache.Set(symbol, *quote, c.ttl)
	return quote, nil
}
