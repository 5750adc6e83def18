// Package memory keeps accounts, positions and history in process memory.
// It backs the memory sql driver and the test suites.
package memory

import (
	"context"
	"maps"
	"sync"

	"finance/src/database"
	"finance/src/models"
	"finance/src/repositories"

	"github.com/jackc/pgx/v5"
)

type positionKey struct {
	userID int64
	symbol string
}

// Store is safe for concurrent use. WithTx holds the store lock for the whole
// callback, so transactions are serialized and see no concurrent writes.
type Store struct {
	mu sync.Mutex

	accounts  map[int64]models.Account
	usernames map[string]int64
	positions map[positionKey]models.Position
	history   []models.LedgerEntry

	nextAccountID  int64
	nextPositionID int64
	nextHistoryID  int64
}

func NewStore() *Store {
	return &Store{
		accounts:  make(map[int64]models.Account),
		usernames: make(map[string]int64),
		positions: make(map[positionKey]models.Position),
	}
}

// memTx marks calls made from inside WithTx. Its pgx.Tx methods are never
// called by this package.
type memTx struct {
	pgx.Tx
}

type snapshot struct {
	accounts       map[int64]models.Account
	usernames      map[string]int64
	positions      map[positionKey]models.Position
	historyLen     int
	nextAccountID  int64
	nextPositionID int64
	nextHistoryID  int64
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		accounts:       maps.Clone(s.accounts),
		usernames:      maps.Clone(s.usernames),
		positions:      maps.Clone(s.positions),
		historyLen:     len(s.history),
		nextAccountID:  s.nextAccountID,
		nextPositionID: s.nextPositionID,
		nextHistoryID:  s.nextHistoryID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.accounts = snap.accounts
	s.usernames = snap.usernames
	s.positions = snap.positions
	s.history = s.history[:snap.historyLen]
	s.nextAccountID = snap.nextAccountID
	s.nextPositionID = snap.nextPositionID
	s.nextHistoryID = snap.nextHistoryID
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.snapshot()
	if err := fn(memTx{}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// lock takes the store lock unless the caller already runs inside WithTx.
func (s *Store) lock(tx pgx.Tx) func() {
	if _, ok := tx.(memTx); ok {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Accounts() repositories.AccountRepository {
	return &accountRepo{store: s}
}

func (s *Store) Positions() repositories.PositionRepository {
	return &positionRepo{store: s}
}

func (s *Store) History() repositories.HistoryRepository {
	return &historyRepo{store: s}
}

var _ database.Transactor = (*Store)(nil)
