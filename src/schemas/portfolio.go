package schemas

import "github.com/shopspring/decimal"

// PortfolioRow is a position priced at the current quote. When the quote
// could not be fetched Available is false and Price and Total are zero.
type PortfolioRow struct {
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Shares    int64           `json:"shares"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
	Available bool            `json:"available"`
}

// Portfolio is the valuation of an account. TotalStockValue only includes
// rows whose quote was available.
type Portfolio struct {
	Rows            []PortfolioRow  `json:"rows"`
	Cash            decimal.Decimal `json:"cash"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	Total           decimal.Decimal `json:"total"`
	Unavailable     int             `json:"unavailable"`
}
