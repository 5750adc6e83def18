package memory

import (
	"context"
	"sort"
	"time"

	"finance/src/models"

	"github.com/jackc/pgx/v5"
)

type historyRepo struct {
	store *Store
}

func (r *historyRepo) Create(_ context.Context, e *models.LedgerEntry, tx pgx.Tx) error {
	defer r.store.lock(tx)()

	r.store.nextHistoryID++
	e.ID = r.store.nextHistoryID
	e.Transacted = time.Now().UTC()
	r.store.history = append(r.store.history, *e)
	return nil
}

func (r *historyRepo) GetByUserID(_ context.Context, userID int64) ([]models.LedgerEntry, error) {
	defer r.store.lock(nil)()

	var entries []models.LedgerEntry
	for _, e := range r.store.history {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Transacted.Equal(entries[j].Transacted) {
			return entries[i].Transacted.After(entries[j].Transacted)
		}
		return entries[i].ID > entries[j].ID
	})
	return entries, nil
}
