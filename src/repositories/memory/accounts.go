package memory

import (
	"context"

	"finance/src/models"
	"finance/src/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type accountRepo struct {
	store *Store
}

func (r *accountRepo) Create(_ context.Context, a *models.Account, tx pgx.Tx) error {
	defer r.store.lock(tx)()

	if _, taken := r.store.usernames[a.Username]; taken {
		return repositories.ErrUsernameTaken
	}
	r.store.nextAccountID++
	a.ID = r.store.nextAccountID
	a.Cash = models.StartingCash

	r.store.accounts[a.ID] = *a
	r.store.usernames[a.Username] = a.ID
	return nil
}

func (r *accountRepo) GetByID(_ context.Context, id int64, tx pgx.Tx) (*models.Account, error) {
	defer r.store.lock(tx)()

	a, ok := r.store.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (r *accountRepo) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	defer r.store.lock(nil)()

	id, ok := r.store.usernames[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	a := r.store.accounts[id]
	return &a, nil
}

func (r *accountRepo) UpdateCash(_ context.Context, id int64, cash decimal.Decimal, tx pgx.Tx) error {
	defer r.store.lock(tx)()

	a, ok := r.store.accounts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Cash = cash
	r.store.accounts[id] = a
	return nil
}
