package services

import (
	"context"

	"finance/src/clients/quotes"
	"finance/src/models"
	"finance/src/repositories"
	"finance/src/schemas"
	"finance/src/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds quote requests issued for one valuation.
const maxConcurrentLookups = 8

type PortfolioServiceI interface {
	Valuation(ctx context.Context, userID int64) (*schemas.Portfolio, error)
	Holdings(ctx context.Context, userID int64) ([]string, error)
	Quote(ctx context.Context, symbol string) (*quotes.Quote, error)
}

type PortfolioService struct {
	accountRepo  repositories.AccountRepository
	positionRepo repositories.PositionRepository
	quoteClient  quotes.QuoteServiceClientI
}

func NewPortfolioService(
	accountRepo repositories.AccountRepository,
	positionRepo repositories.PositionRepository,
	quoteClient quotes.QuoteServiceClientI,
) *PortfolioService {
	return &PortfolioService{
		accountRepo:  accountRepo,
		positionRepo: positionRepo,
		quoteClient:  quoteClient,
	}
}

// Valuation prices every position at its current quote. A position whose
// quote cannot be fetched is reported as unavailable and left out of the
// totals instead of being valued at zero.
func (s *PortfolioService) Valuation(ctx context.Context, userID int64) (*schemas.Portfolio, error) {
	account, err := s.accountRepo.GetByID(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	positions, err := s.positionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows := make([]schemas.PortfolioRow, len(positions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, p := range positions {
		g.Go(func() error {
			rows[i] = s.valueRow(gctx, p)
			return nil
		})
	}
	// Lookups never return errors, failures are recorded per row.
	_ = g.Wait()

	portfolio := &schemas.Portfolio{
		Rows:            rows,
		Cash:            account.Cash,
		TotalStockValue: decimal.Zero,
	}
	for _, row := range rows {
		if !row.Available {
			portfolio.Unavailable++
			continue
		}
		portfolio.TotalStockValue = portfolio.TotalStockValue.Add(row.Total)
	}
	portfolio.Total = portfolio.Cash.Add(portfolio.TotalStockValue)

	if portfolio.Unavailable > 0 {
		utils.LoggerFromContext(ctx).WithField("unavailable", portfolio.Unavailable).Warn("portfolio valued with missing quotes")
	}
	return portfolio, nil
}

func (s *PortfolioService) valueRow(ctx context.Context, p models.Position) schemas.PortfolioRow {
	row := schemas.PortfolioRow{
		Symbol: p.Symbol,
		Name:   p.Symbol,
		Shares: p.Shares,
	}
	quote, err := s.quoteClient.Lookup(ctx, p.Symbol)
	if err != nil {
		return row
	}
	row.Name = quote.Name
	row.Price = quote.Price
	row.Total = quote.Price.Mul(decimal.NewFromInt(p.Shares))
	row.Available = true
	return row
}

// Holdings lists the symbols the user owns, in symbol order.
func (s *PortfolioService) Holdings(ctx context.Context, userID int64) ([]string, error) {
	positions, err := s.positionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(positions))
	for _, p := range positions {
		symbols = append(symbols, p.Symbol)
	}
	return symbols, nil
}

// Quote looks up a single symbol for display.
func (s *PortfolioService) Quote(ctx context.Context, symbol string) (*quotes.Quote, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, missingField("symbol")
	}
	quote, err := s.quoteClient.Lookup(ctx, symbol)
	if err != nil {
		return nil, newError(ErrInvalidSymbol, "invalid stock symbol")
	}
	return quote, nil
}
