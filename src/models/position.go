package models

// Position is a holding of one symbol. Rows with zero shares are deleted,
// never stored.
type Position struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"userid"`
	Symbol string `db:"symbol"`
	Shares int64  `db:"shares"`
}
