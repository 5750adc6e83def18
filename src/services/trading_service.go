package services

import (
	"context"
	"errors"

	"finance/src/clients/quotes"
	"finance/src/database"
	"finance/src/metrics"
	"finance/src/models"
	"finance/src/repositories"
	"finance/src/utils"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type TradingServiceI interface {
	Buy(ctx context.Context, userID int64, symbol string, shares int64) (*models.LedgerEntry, error)
	Sell(ctx context.Context, userID int64, symbol string, shares int64) (*models.LedgerEntry, error)
}

// TradingService applies trades against accounts, positions and history.
// Each trade runs in one transaction: either every write lands or none.
type TradingService struct {
	transactor   database.Transactor
	accountRepo  repositories.AccountRepository
	positionRepo repositories.PositionRepository
	historyRepo  repositories.HistoryRepository
	quoteClient  quotes.QuoteServiceClientI
	metrics      *metrics.Metrics
}

func NewTradingService(
	transactor database.Transactor,
	accountRepo repositories.AccountRepository,
	positionRepo repositories.PositionRepository,
	historyRepo repositories.HistoryRepository,
	quoteClient quotes.QuoteServiceClientI,
	m *metrics.Metrics,
) *TradingService {
	return &TradingService{
		transactor:   transactor,
		accountRepo:  accountRepo,
		positionRepo: positionRepo,
		historyRepo:  historyRepo,
		quoteClient:  quoteClient,
		metrics:      m,
	}
}

// Buy purchases shares at the current quote.
func (s *TradingService) Buy(ctx context.Context, userID int64, symbol string, shares int64) (*models.LedgerEntry, error) {
	symbol = NormalizeSymbol(symbol)
	entry, err := s.buy(ctx, userID, symbol, shares)
	s.observe(ctx, models.MethodBuy, symbol, shares, err)
	return entry, err
}

func (s *TradingService) buy(ctx context.Context, userID int64, symbol string, shares int64) (*models.LedgerEntry, error) {
	if symbol == "" {
		return nil, missingField("symbol")
	}
	if shares <= 0 {
		return nil, newError(ErrInvalidShareCount, "must provide a positive integer for shares")
	}

	quote, err := s.quoteClient.Lookup(ctx, symbol)
	if err != nil {
		return nil, newError(ErrInvalidSymbol, "must provide valid stock symbol")
	}
	cost := quote.Price.Mul(decimal.NewFromInt(shares))

	entry := &models.LedgerEntry{
		UserID: userID,
		Symbol: symbol,
		Shares: shares,
		Method: models.MethodBuy,
		Price:  quote.Price,
	}

	err = s.transactor.WithTx(ctx, func(tx pgx.Tx) error {
		account, err := s.accountRepo.GetByID(ctx, userID, tx)
		if err != nil {
			return err
		}
		if account.Cash.LessThan(cost) {
			return newError(ErrInsufficientFunds, "insufficient funds")
		}

		if err := s.accountRepo.UpdateCash(ctx, userID, account.Cash.Sub(cost), tx); err != nil {
			return err
		}
		if err := s.positionRepo.AddShares(ctx, userID, symbol, shares, tx); err != nil {
			return err
		}
		return s.historyRepo.Create(ctx, entry, tx)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Sell sells held shares at a freshly fetched quote. The position is removed
// when no shares remain.
func (s *TradingService) Sell(ctx context.Context, userID int64, symbol string, shares int64) (*models.LedgerEntry, error) {
	symbol = NormalizeSymbol(symbol)
	entry, err := s.sell(ctx, userID, symbol, shares)
	s.observe(ctx, models.MethodSell, symbol, shares, err)
	return entry, err
}

func (s *TradingService) sell(ctx context.Context, userID int64, symbol string, shares int64) (*models.LedgerEntry, error) {
	if symbol == "" {
		return nil, missingField("symbol")
	}
	if shares <= 0 {
		return nil, newError(ErrInvalidShareCount, "must provide a positive integer for shares")
	}

	// Checked before the quote call so holding errors win over provider
	// errors, and again under lock below.
	position, err := s.positionRepo.Get(ctx, userID, symbol, nil)
	if err != nil {
		return nil, holdingError(err)
	}
	if shares > position.Shares {
		return nil, exceedsHoldings()
	}

	quote, err := s.quoteClient.Lookup(ctx, symbol)
	if err != nil {
		return nil, newError(ErrQuoteProviderFailure, "could not fetch a quote for "+symbol)
	}
	proceeds := quote.Price.Mul(decimal.NewFromInt(shares))

	entry := &models.LedgerEntry{
		UserID: userID,
		Symbol: symbol,
		Shares: shares,
		Method: models.MethodSell,
		Price:  quote.Price,
	}

	// Lock order matches buy: account row, then position row.
	err = s.transactor.WithTx(ctx, func(tx pgx.Tx) error {
		account, err := s.accountRepo.GetByID(ctx, userID, tx)
		if err != nil {
			return err
		}
		position, err := s.positionRepo.Get(ctx, userID, symbol, tx)
		if err != nil {
			return holdingError(err)
		}
		if shares > position.Shares {
			return exceedsHoldings()
		}

		if err := s.accountRepo.UpdateCash(ctx, userID, account.Cash.Add(proceeds), tx); err != nil {
			return err
		}
		if remaining := position.Shares - shares; remaining > 0 {
			err = s.positionRepo.SetShares(ctx, userID, symbol, remaining, tx)
		} else {
			err = s.positionRepo.Delete(ctx, userID, symbol, tx)
		}
		if err != nil {
			return err
		}
		return s.historyRepo.Create(ctx, entry, tx)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func holdingError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return newError(ErrInvalidSymbol, "must provide valid stock symbol")
	}
	return err
}

func exceedsHoldings() error {
	return newError(ErrExceedsHoldings, "shares sold can't exceed shares owned")
}

func (s *TradingService) observe(ctx context.Context, method models.TradeMethod, symbol string, shares int64, err error) {
	logger := utils.LoggerFromContext(ctx).WithField("method", method).WithField("symbol", symbol).WithField("shares", shares)

	var userErr *Error
	switch {
	case err == nil:
		s.metrics.ObserveTrade(string(method), "success")
		logger.Info("trade executed")
	case errors.As(err, &userErr):
		s.metrics.ObserveTrade(string(method), userErr.Kind.Error())
		logger.WithError(err).Info("trade rejected")
	default:
		s.metrics.ObserveTrade(string(method), "error")
		logger.WithError(err).Error("trade failed")
	}
}
