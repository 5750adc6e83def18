package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"finance/src/models"
	"finance/src/repositories"
	"finance/src/utils"

	"github.com/xuri/excelize/v2"
)

const historySheet = "History"

var historyHeader = []string{"Symbol", "Shares", "Method", "Price", "Total", "Transacted"}

type HistoryServiceI interface {
	List(ctx context.Context, userID int64) ([]models.LedgerEntry, error)
	ExportXLSX(ctx context.Context, userID int64) (*excelize.File, error)
	ExportCSV(ctx context.Context, userID int64, w io.Writer) error
}

type HistoryService struct {
	historyRepo repositories.HistoryRepository
}

func NewHistoryService(historyRepo repositories.HistoryRepository) *HistoryService {
	return &HistoryService{historyRepo: historyRepo}
}

// List returns the user's trades, newest first.
func (s *HistoryService) List(ctx context.Context, userID int64) ([]models.LedgerEntry, error) {
	return s.historyRepo.GetByUserID(ctx, userID)
}

// ExportXLSX writes the history into a single styled sheet.
func (s *HistoryService) ExportXLSX(ctx context.Context, userID int64) (*excelize.File, error) {
	entries, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(historySheet, "A1", &historyHeader); err != nil {
		return nil, err
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			e.Symbol,
			e.Shares,
			string(e.Method),
			e.Price.InexactFloat64(),
			e.Total().InexactFloat64(),
			e.Transacted.Format(utils.DateTimeLayout),
		}
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := styleHistorySheet(f, len(entries)); err != nil {
		return nil, err
	}
	return f, nil
}

func styleHistorySheet(f *excelize.File, rows int) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	lastCol, err := excelize.ColumnNumberToName(len(historyHeader))
	if err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6E6"},
			Pattern: 1,
		},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(historySheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	if rows > 0 {
		dataStyle, err := f.NewStyle(&excelize.Style{Border: border})
		if err != nil {
			return err
		}
		last := strconv.Itoa(rows + 1)
		if err := f.SetCellStyle(historySheet, "A2", lastCol+last, dataStyle); err != nil {
			return err
		}

		// Price and Total as currency
		currencyStyle, err := f.NewStyle(&excelize.Style{Border: border, NumFmt: 8})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(historySheet, "D2", "E"+last, currencyStyle); err != nil {
			return err
		}
	}

	return f.SetColWidth(historySheet, "A", lastCol, 15)
}

// ExportCSV writes the history as CSV with a header row.
func (s *HistoryService) ExportCSV(ctx context.Context, userID int64, w io.Writer) error {
	entries, err := s.List(ctx, userID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.Symbol,
			strconv.FormatInt(e.Shares, 10),
			string(e.Method),
			e.Price.StringFixed(2),
			e.Total().StringFixed(2),
			e.Transacted.Format(utils.DateTimeLayout),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
