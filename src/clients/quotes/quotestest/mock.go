// Package quotestest provides an in-memory quote client for tests.
package quotestest

import (
	"context"
	"fmt"
	"sync"

	"finance/src/clients/quotes"

	"github.com/shopspring/decimal"
)

// QuoteServiceClientMock serves quotes from a map. Symbols without a price
// fail with quotes.ErrQuoteUnavailable, like the real client.
type QuoteServiceClientMock struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	calls  map[string]int
}

func NewMockClient() *QuoteServiceClientMock {
	return &QuoteServiceClientMock{
		prices: make(map[string]decimal.Decimal),
		calls:  make(map[string]int),
	}
}

// SetPrice sets the price returned for symbol. price is parsed as a decimal.
func (c *QuoteServiceClientMock) SetPrice(symbol, price string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[symbol] = decimal.RequireFromString(price)
}

// Remove makes lookups for symbol fail.
func (c *QuoteServiceClientMock) Remove(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.prices, symbol)
}

// Calls returns how many lookups were made for symbol.
func (c *QuoteServiceClientMock) Calls(symbol string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[symbol]
}

func (c *QuoteServiceClientMock) Lookup(_ context.Context, symbol string) (*quotes.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[symbol]++

	price, ok := c.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", quotes.ErrQuoteUnavailable, symbol)
	}
	return &quotes.Quote{
		Name:   symbol + " Inc.",
		Price:  price,
		Symbol: symbol,
	}, nil
}

var _ quotes.QuoteServiceClientI = (*QuoteServiceClientMock)(nil)
