package services_test

import (
	"context"
	"testing"

	"finance/src/clients/quotes/quotestest"
	"finance/src/models"
	"finance/src/repositories"
	"finance/src/repositories/memory"
	"finance/src/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tradingFixture struct {
	store   *memory.Store
	quotes  *quotestest.QuoteServiceClientMock
	service *services.TradingService
	account *models.Account
}

func newTradingFixture(t *testing.T) *tradingFixture {
	t.Helper()
	store := memory.NewStore()
	quoteClient := quotestest.NewMockClient()

	account := &models.Account{Username: "alice", Hash: "h"}
	require.NoError(t, store.Accounts().Create(context.Background(), account, nil))

	return &tradingFixture{
		store:   store,
		quotes:  quoteClient,
		service: services.NewTradingService(store, store.Accounts(), store.Positions(), store.History(), quoteClient, nil),
		account: account,
	}
}

func (f *tradingFixture) cash(t *testing.T) decimal.Decimal {
	t.Helper()
	a, err := f.store.Accounts().GetByID(context.Background(), f.account.ID, nil)
	require.NoError(t, err)
	return a.Cash
}

func (f *tradingFixture) history(t *testing.T) []models.LedgerEntry {
	t.Helper()
	entries, err := f.store.History().GetByUserID(context.Background(), f.account.ID)
	require.NoError(t, err)
	return entries
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestTradingService_Buy(t *testing.T) {
	ctx := context.Background()

	t.Run("debits cash and records the purchase", func(t *testing.T) {
		f := newTradingFixture(t)
		f.quotes.SetPrice("AAPL", "150.00")

		entry, err := f.service.Buy(ctx, f.account.ID, "aapl", 10)
		require.NoError(t, err)
		assert.Equal(t, "AAPL", entry.Symbol)
		assert.Equal(t, models.MethodBuy, entry.Method)
		assertDecimal(t, "150", entry.Price)

		assertDecimal(t, "8500", f.cash(t))
		position, err := f.store.Positions().Get(ctx, f.account.ID, "AAPL", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(10), position.Shares)

		history := f.history(t)
		require.Len(t, history, 1)
		assert.Equal(t, int64(10), history[0].Shares)
	})

	t.Run("adds to an existing position", func(t *testing.T) {
		f := newTradingFixture(t)
		f.quotes.SetPrice("AAPL", "100")

		_, err := f.service.Buy(ctx, f.account.ID, "AAPL", 2)
		require.NoError(t, err)
		_, err = f.service.Buy(ctx, f.account.ID, "AAPL", 3)
		require.NoError(t, err)

		position, err := f.store.Positions().Get(ctx, f.account.ID, "AAPL", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(5), position.Shares)
		assertDecimal(t, "9500", f.cash(t))
		assert.Len(t, f.history(t), 2)
	})

	t.Run("spending the exact balance is allowed", func(t *testing.T) {
		f := newTradingFixture(t)
		f.quotes.SetPrice("BRK", "5000")

		_, err := f.service.Buy(ctx, f.account.ID, "BRK", 2)
		require.NoError(t, err)
		assertDecimal(t, "0", f.cash(t))
	})

	t.Run("insufficient funds leaves everything unchanged", func(t *testing.T) {
		f := newTradingFixture(t)
		f.quotes.SetPrice("BRK", "5000.01")

		_, err := f.service.Buy(ctx, f.account.ID, "BRK", 2)
		assert.ErrorIs(t, err, services.ErrInsufficientFunds)

		assertDecimal(t, "10000", f.cash(t))
		_, err = f.store.Positions().Get(ctx, f.account.ID, "BRK", nil)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.Empty(t, f.history(t))
	})

	t.Run("unknown symbol", func(t *testing.T) {
		f := newTradingFixture(t)

		_, err := f.service.Buy(ctx, f.account.ID, "NOPE", 1)
		assert.ErrorIs(t, err, services.ErrInvalidSymbol)
		assert.Empty(t, f.history(t))
	})

	t.Run("validates input before looking up a quote", func(t *testing.T) {
		f := newTradingFixture(t)
		f.quotes.SetPrice("AAPL", "1")

		_, err := f.service.Buy(ctx, f.account.ID, "  ", 1)
		assert.ErrorIs(t, err, services.ErrMissingField)

		_, err = f.service.Buy(ctx, f.account.ID, "AAPL", 0)
		assert.ErrorIs(t, err, services.ErrInvalidShareCount)

		_, err = f.service.Buy(ctx, f.account.ID, "AAPL", -3)
		assert.ErrorIs(t, err, services.ErrInvalidShareCount)

		assert.Zero(t, f.quotes.Calls("AAPL"))
	})
}

func TestTradingService_Sell(t *testing.T) {
	ctx := context.Background()

	t.Run("selling everything credits cash and removes the position", func(t *testing.T) {
		f := newTradingFixture(t)
		f.quotes.SetPrice("AAPL", "150")
		_, err := f.service.Buy(ctx, f.account.ID, "AAPL", 10)
		require.NoError(t, err)

		f.quotes.SetPrice("AAPL", "160")
		entry, err := f.service.Sell(ctx, f.account.ID, "AAPL", 10)
		require.NoError(t, err)
		assert.Equal(t, models.MethodSell, entry.Method)

		assertDecimal(t, "10100", f.cash(t))
		_, err = f.store.Positions().Get(ctx, f.account.ID, "AAPL", nil)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		history := f.history(t)
		require.Len(t, history, 2)
		assert.Equal(t, models.MethodSell, history[0].Method)
		assertDecimal(t, "160", history[0].Price)
		assert.Equal(t, models.MethodBuy, history[1].Method)
		assertDecimal(t, "150", history[1].Price)
	})

	t.Run("partial sale keeps the remaining shares", func(t *testing.T) {
		f := newTradingFixture(t)
		f.quotes.SetPrice("MSFT", "10")
		_, err := f.service.Buy(ctx, f.account.ID, "MSFT", 5)
		require.NoError(t, err)

		_, err = f.service.Sell(ctx, f.account.ID, "msft", 2)
		require.NoError(t, err)

		position, err := f.store.Positions().Get(ctx, f.account.ID, "MSFT", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), position.Shares)
		assertDecimal(t, "9970", f.cash(t))
	})

	t.Run("selling more than held leaves everything unchanged", func(t *testing.T) {
		f := newTradingFixture(t)
		f.quotes.SetPrice("AAPL", "150")
		_, err := f.service.Buy(ctx, f.account.ID, "AAPL", 5)
		require.NoError(t, err)
		calls := f.quotes.Calls("AAPL")

		_, err = f.service.Sell(ctx, f.account.ID, "AAPL", 6)
		assert.ErrorIs(t, err, services.ErrExceedsHoldings)

		assertDecimal(t, "9250", f.cash(t))
		position, err := f.store.Positions().Get(ctx, f.account.ID, "AAPL", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(5), position.Shares)
		assert.Len(t, f.history(t), 1)
		assert.Equal(t, calls, f.quotes.Calls("AAPL"))
	})

	t.Run("symbol not held", func(t *testing.T) {
		f := newTradingFixture(t)
		f.quotes.SetPrice("AAPL", "150")

		_, err := f.service.Sell(ctx, f.account.ID, "AAPL", 1)
		assert.ErrorIs(t, err, services.ErrInvalidSymbol)
	})

	t.Run("quote failure aborts the sale", func(t *testing.T) {
		f := newTradingFixture(t)
		f.quotes.SetPrice("AAPL", "150")
		_, err := f.service.Buy(ctx, f.account.ID, "AAPL", 5)
		require.NoError(t, err)
		f.quotes.Remove("AAPL")

		_, err = f.service.Sell(ctx, f.account.ID, "AAPL", 5)
		assert.ErrorIs(t, err, services.ErrQuoteProviderFailure)

		position, err := f.store.Positions().Get(ctx, f.account.ID, "AAPL", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(5), position.Shares)
		assertDecimal(t, "9250", f.cash(t))
	})

	t.Run("invalid share count", func(t *testing.T) {
		f := newTradingFixture(t)

		_, err := f.service.Sell(ctx, f.account.ID, "AAPL", 0)
		assert.ErrorIs(t, err, services.ErrInvalidShareCount)
	})
}

func TestTradingService_ConcurrentBuys(t *testing.T) {
	ctx := context.Background()
	f := newTradingFixture(t)
	f.quotes.SetPrice("AAPL", "1000")

	// Ten buys of 2000 each against 10000 cash: exactly five can succeed.
	errs := make(chan error, 10)
	for range 10 {
		go func() {
			_, err := f.service.Buy(ctx, f.account.ID, "AAPL", 2)
			errs <- err
		}()
	}

	succeeded := 0
	for range 10 {
		err := <-errs
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, services.ErrInsufficientFunds)
	}

	assert.Equal(t, 5, succeeded)
	assertDecimal(t, "0", f.cash(t))
	position, err := f.store.Positions().Get(ctx, f.account.ID, "AAPL", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), position.Shares)
}
