package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"finance/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService(t *testing.T) {
	ctx := context.Background()
	f := newTradingFixture(t)
	svc := services.NewHistoryService(f.store.History())

	f.quotes.SetPrice("AAPL", "150")
	_, err := f.service.Buy(ctx, f.account.ID, "AAPL", 10)
	require.NoError(t, err)
	f.quotes.SetPrice("AAPL", "160.5")
	_, err = f.service.Sell(ctx, f.account.ID, "AAPL", 4)
	require.NoError(t, err)

	t.Run("List is newest first", func(t *testing.T) {
		entries, err := svc.List(ctx, f.account.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(4), entries[0].Shares)
		assert.Equal(t, int64(10), entries[1].Shares)
	})

	t.Run("List of another user is empty", func(t *testing.T) {
		entries, err := svc.List(ctx, f.account.ID+1)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("ExportCSV", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, svc.ExportCSV(ctx, f.account.ID, &buf))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"Symbol", "Shares", "Method", "Price", "Total", "Transacted"}, records[0])
		assert.Equal(t, []string{"AAPL", "4", "Sell", "160.50", "642.00"}, records[1][:5])
		assert.Equal(t, []string{"AAPL", "10", "Buy", "150.00", "1500.00"}, records[2][:5])
	})

	t.Run("ExportXLSX", func(t *testing.T) {
		file, err := svc.ExportXLSX(ctx, f.account.ID)
		require.NoError(t, err)
		defer file.Close()

		rows, err := file.GetRows("History")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Symbol", rows[0][0])
		assert.Equal(t, "AAPL", rows[1][0])
		assert.Equal(t, "Sell", rows[1][2])
		assert.Equal(t, "Buy", rows[2][2])
	})
}
