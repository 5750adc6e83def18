package repositories

import (
	"context"
	"errors"

	"finance/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	// Create inserts the account and fills in its id and starting cash.
	// It returns ErrUsernameTaken instead of a constraint error on conflict.
	Create(ctx context.Context, a *models.Account, tx pgx.Tx) error
	// GetByID locks the row for update when tx is not nil.
	GetByID(ctx context.Context, id int64, tx pgx.Tx) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	UpdateCash(ctx context.Context, id int64, cash decimal.Decimal, tx pgx.Tx) error
}

type accountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, a *models.Account, tx pgx.Tx) error {
	query := `
		INSERT INTO users (username, hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
		RETURNING id, cash`

	err := queryer(r.db, tx).QueryRow(ctx, query, a.Username, a.Hash).Scan(&a.ID, &a.Cash)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUsernameTaken
	}
	return err
}

func (r *accountRepo) GetByID(ctx context.Context, id int64, tx pgx.Tx) (*models.Account, error) {
	query := `SELECT id, username, hash, cash FROM users WHERE id = $1`
	if tx != nil {
		query += " FOR UPDATE"
	}

	var a models.Account
	err := queryer(r.db, tx).QueryRow(ctx, query, id).Scan(&a.ID, &a.Username, &a.Hash, &a.Cash)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *accountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var a models.Account
	err := r.db.QueryRow(ctx,
		`SELECT id, username, hash, cash FROM users WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.Hash, &a.Cash)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *accountRepo) UpdateCash(ctx context.Context, id int64, cash decimal.Decimal, tx pgx.Tx) error {
	tag, err := queryer(r.db, tx).Exec(ctx, `UPDATE users SET cash = $1 WHERE id = $2`, cash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
