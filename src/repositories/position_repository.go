package repositories

import (
	"context"

	"finance/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PositionRepository interface {
	GetByUserID(ctx context.Context, userID int64) ([]models.Position, error)
	// Get locks the row for update when tx is not nil.
	Get(ctx context.Context, userID int64, symbol string, tx pgx.Tx) (*models.Position, error)
	// AddShares creates the position or adds to the shares already held.
	AddShares(ctx context.Context, userID int64, symbol string, shares int64, tx pgx.Tx) error
	SetShares(ctx context.Context, userID int64, symbol string, shares int64, tx pgx.Tx) error
	Delete(ctx context.Context, userID int64, symbol string, tx pgx.Tx) error
}

type positionRepo struct {
	db *pgxpool.Pool
}

func NewPositionRepository(db *pgxpool.Pool) PositionRepository {
	return &positionRepo{db: db}
}

func (r *positionRepo) GetByUserID(ctx context.Context, userID int64) ([]models.Position, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, userid, symbol, shares FROM portfolio WHERE userid = $1 ORDER BY symbol`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.UserID, &p.Symbol, &p.Shares); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (r *positionRepo) Get(ctx context.Context, userID int64, symbol string, tx pgx.Tx) (*models.Position, error) {
	query := `SELECT id, userid, symbol, shares FROM portfolio WHERE userid = $1 AND symbol = $2`
	if tx != nil {
		query += " FOR UPDATE"
	}

	var p models.Position
	err := queryer(r.db, tx).QueryRow(ctx, query, userID, symbol).Scan(&p.ID, &p.UserID, &p.Symbol, &p.Shares)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *positionRepo) AddShares(ctx context.Context, userID int64, symbol string, shares int64, tx pgx.Tx) error {
	query := `
		INSERT INTO portfolio (userid, symbol, shares)
		VALUES ($1, $2, $3)
		ON CONFLICT (userid, symbol) DO UPDATE SET
			shares = portfolio.shares + EXCLUDED.shares`

	_, err := queryer(r.db, tx).Exec(ctx, query, userID, symbol, shares)
	return err
}

func (r *positionRepo) SetShares(ctx context.Context, userID int64, symbol string, shares int64, tx pgx.Tx) error {
	tag, err := queryer(r.db, tx).Exec(ctx,
		`UPDATE portfolio SET shares = $1 WHERE userid = $2 AND symbol = $3`,
		shares, userID, symbol,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *positionRepo) Delete(ctx context.Context, userID int64, symbol string, tx pgx.Tx) error {
	tag, err := queryer(r.db, tx).Exec(ctx,
		`DELETE FROM portfolio WHERE userid = $1 AND symbol = $2`,
		userID, symbol,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
