package quotes_test

import (
	"context"
	"testing"
	"time"

	"finance/src/clients/quotes"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	calls int
	fail  bool
}

func (c *countingClient) Lookup(_ context.Context, symbol string) (*quotes.Quote, error) {
	c.calls++
	if c.fail {
		return nil, quotes.ErrQuoteUnavailable
	}
	return &quotes.Quote{Name: symbol + " Inc.", Price: decimal.NewFromInt(int64(c.calls)), Symbol: symbol}, nil
}

func TestCachedClient(t *testing.T) {
	ctx := context.Background()

	t.Run("serves repeated lookups from cache", func(t *testing.T) {
		next := &countingClient{}
		client := quotes.NewCachedClient(next, time.Minute)

		first, err := client.Lookup(ctx, "AAPL")
		require.NoError(t, err)
		second, err := client.Lookup(ctx, "AAPL")
		require.NoError(t, err)

		assert.Equal(t, 1, next.calls)
		assert.True(t, first.Price.Equal(second.Price))

		_, err = client.Lookup(ctx, "MSFT")
		require.NoError(t, err)
		assert.Equal(t, 2, next.calls)
	})

	t.Run("does not cache failures", func(t *testing.T) {
		next := &countingClient{fail: true}
		client := quotes.NewCachedClient(next, time.Minute)

		_, err := client.Lookup(ctx, "AAPL")
		assert.ErrorIs(t, err, quotes.ErrQuoteUnavailable)
		_, err = client.Lookup(ctx, "AAPL")
		assert.ErrorIs(t, err, quotes.ErrQuoteUnavailable)
		assert.Equal(t, 2, next.calls)
	})

	t.Run("zero ttl disables caching", func(t *testing.T) {
		next := &countingClient{}
		client := quotes.NewCachedClient(next, 0)

		_, _ = client.Lookup(ctx, "AAPL")
		_, _ = client.Lookup(ctx, "AAPL")
		assert.Equal(t, 2, next.calls)
	})
}
