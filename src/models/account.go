package models

import "github.com/shopspring/decimal"

// StartingCash is the balance every new account receives.
var StartingCash = decimal.NewFromInt(10000)

type Account struct {
	ID       int64           `db:"id"`
	Username string          `db:"username"`
	Hash     string          `db:"hash"`
	Cash     decimal.Decimal `db:"cash"`
}
