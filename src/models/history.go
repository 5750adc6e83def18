package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeMethod string

const (
	MethodBuy  TradeMethod = "Buy"
	MethodSell TradeMethod = "Sell"
)

// LedgerEntry is one executed trade. Entries are append-only.
type LedgerEntry struct {
	ID         int64           `db:"id"`
	UserID     int64           `db:"userid"`
	Symbol     string          `db:"symbol"`
	Shares     int64           `db:"shares"`
	Method     TradeMethod     `db:"method"`
	Price      decimal.Decimal `db:"price"`
	Transacted time.Time       `db:"transacted"`
}

// Total is the cash value moved by the trade.
func (e LedgerEntry) Total() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(e.Shares))
}
