package repositories

import (
	"context"

	"finance/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HistoryRepository interface {
	// Create appends the entry and fills in its id and timestamp.
	Create(ctx context.Context, e *models.LedgerEntry, tx pgx.Tx) error
	// GetByUserID returns every entry of the user, newest first.
	GetByUserID(ctx context.Context, userID int64) ([]models.LedgerEntry, error)
}

type historyRepo struct {
	db *pgxpool.Pool
}

func NewHistoryRepository(db *pgxpool.Pool) HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) Create(ctx context.Context, e *models.LedgerEntry, tx pgx.Tx) error {
	query := `
		INSERT INTO history (userid, symbol, shares, method, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, transacted`

	return queryer(r.db, tx).QueryRow(ctx, query,
		e.UserID, e.Symbol, e.Shares, string(e.Method), e.Price,
	).Scan(&e.ID, &e.Transacted)
}

func (r *historyRepo) GetByUserID(ctx context.Context, userID int64) ([]models.LedgerEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, userid, symbol, shares, method, price, transacted
		FROM history
		WHERE userid = $1
		ORDER BY transacted DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var method string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Symbol, &e.Shares, &method, &e.Price, &e.Transacted); err != nil {
			return nil, err
		}
		e.Method = models.TradeMethod(method)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
