package render_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"finance/src/schemas"
	"finance/src/utils/render"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer(t *testing.T) {
	renderer, err := render.New()
	require.NoError(t, err)

	t.Run("apology with status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := renderer.Render(rec, http.StatusBadRequest, "apology", render.View{
			Data: render.Apology{Code: 400, Message: "insufficient funds"},
		})
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "insufficient funds")
		assert.Contains(t, rec.Body.String(), `href="/login"`)
	})

	t.Run("portfolio formats money and unavailable rows", func(t *testing.T) {
		rec := httptest.NewRecorder()
		portfolio := &schemas.Portfolio{
			Rows: []schemas.PortfolioRow{
				{Symbol: "AAPL", Name: "Apple Inc.", Shares: 10, Price: decimal.NewFromInt(150), Total: decimal.NewFromInt(1500), Available: true},
				{Symbol: "GONE", Name: "GONE", Shares: 1},
			},
			Cash:            decimal.NewFromInt(8500),
			TotalStockValue: decimal.NewFromInt(1500),
			Total:           decimal.NewFromInt(10000),
			Unavailable:     1,
		}
		err := renderer.Render(rec, http.StatusOK, "index", render.View{LoggedIn: true, Data: portfolio})
		require.NoError(t, err)

		body := rec.Body.String()
		assert.Contains(t, body, "$1,500.00")
		assert.Contains(t, body, "$8,500.00")
		assert.Contains(t, body, "$10,000.00")
		assert.Contains(t, body, "unavailable")
		assert.Contains(t, body, `href="/logout"`)
	})

	t.Run("escapes user input", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := renderer.Render(rec, http.StatusBadRequest, "apology", render.View{
			Data: render.Apology{Code: 400, Message: "<script>alert(1)</script>"},
		})
		require.NoError(t, err)
		assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	})

	t.Run("unknown page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		assert.Error(t, renderer.Render(rec, http.StatusOK, "missing", render.View{}))
	})
}
