package memory

import (
	"context"
	"sort"

	"finance/src/models"
	"finance/src/repositories"

	"github.com/jackc/pgx/v5"
)

type positionRepo struct {
	store *Store
}

func (r *positionRepo) GetByUserID(_ context.Context, userID int64) ([]models.Position, error) {
	defer r.store.lock(nil)()

	var positions []models.Position
	for key, p := range r.store.positions {
		if key.userID == userID {
			positions = append(positions, p)
		}
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Symbol < positions[j].Symbol
	})
	return positions, nil
}

func (r *positionRepo) Get(_ context.Context, userID int64, symbol string, tx pgx.Tx) (*models.Position, error) {
	defer r.store.lock(tx)()

	p, ok := r.store.positions[positionKey{userID, symbol}]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r *positionRepo) AddShares(_ context.Context, userID int64, symbol string, shares int64, tx pgx.Tx) error {
	defer r.store.lock(tx)()

	key := positionKey{userID, symbol}
	p, ok := r.store.positions[key]
	if !ok {
		r.store.nextPositionID++
		p = models.Position{ID: r.store.nextPositionID, UserID: userID, Symbol: symbol}
	}
	p.Shares += shares
	r.store.positions[key] = p
	return nil
}

func (r *positionRepo) SetShares(_ context.Context, userID int64, symbol string, shares int64, tx pgx.Tx) error {
	defer r.store.lock(tx)()

	key := positionKey{userID, symbol}
	p, ok := r.store.positions[key]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Shares = shares
	r.store.positions[key] = p
	return nil
}

func (r *positionRepo) Delete(_ context.Context, userID int64, symbol string, tx pgx.Tx) error {
	defer r.store.lock(tx)()

	key := positionKey{userID, symbol}
	if _, ok := r.store.positions[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.store.positions, key)
	return nil
}
