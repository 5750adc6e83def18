package quotes

import "github.com/shopspring/decimal"

// Quote is a point-in-time price for a ticker symbol.
type Quote struct {
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Symbol string          `json:"symbol"`
}

// quoteResponse is the subset of the provider payload we read. Pointers let
// us tell missing fields from zero values.
type quoteResponse struct {
	CompanyName *string          `json:"companyName"`
	LatestPrice *decimal.Decimal `json:"latestPrice"`
	Symbol      *string          `json:"symbol"`
}
