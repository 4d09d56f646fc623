package statement

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/refbonus/refbonus-api/internal/domain/ledger"
	"github.com/refbonus/refbonus-api/internal/domain/user"
)

const (
	SheetName   = "Statement"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	keyPrefix = "statements"
	fileExt   = ".xlsx"

	// first row of the transaction table; rows above hold the account header
	tableHeaderRow = 5
)

var columns = []string{"Date", "Type", "Amount", "Description", "Balance"}

// Summary totals a statement
type Summary struct {
	Rows           int   `json:"rows"`
	Credits        int64 `json:"credits"`
	Debits         int64 `json:"debits"`
	ClosingBalance int64 `json:"closing_balance"`
}

// Build renders the user's transactions, oldest first, with a running
// balance column and a totals row. txs is expected newest first.
func Build(u *user.User, txs []*ledger.Transaction, generatedAt time.Time) (*excelize.File, Summary, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, Summary{}, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, Summary{}, err
	}

	header := [][]interface{}{
		{"Reward statement"},
		{"Name", u.Name},
		{"Phone", u.Phone},
		{"Generated", generatedAt.UTC().Format(time.RFC3339)},
	}
	for i, row := range header {
		if err := setRow(f, i+1, row); err != nil {
			f.Close()
			return nil, Summary{}, err
		}
	}

	cols := make([]interface{}, len(columns))
	for i, c := range columns {
		cols[i] = c
	}
	if err := setRow(f, tableHeaderRow, cols); err != nil {
		f.Close()
		return nil, Summary{}, err
	}

	var sum Summary
	row := tableHeaderRow + 1
	for i := len(txs) - 1; i >= 0; i-- {
		t := txs[i]
		sum.ClosingBalance += t.Amount
		if t.Amount > 0 {
			sum.Credits += t.Amount
		} else {
			sum.Debits += -t.Amount
		}

		err := setRow(f, row, []interface{}{
			t.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			string(t.Type),
			t.Amount,
			t.Description,
			sum.ClosingBalance,
		})
		if err != nil {
			f.Close()
			return nil, Summary{}, err
		}
		row++
		sum.Rows++
	}

	totals := []interface{}{"Total", "", sum.Credits - sum.Debits, fmt.Sprintf("credits %d, debits %d", sum.Credits, sum.Debits), sum.ClosingBalance}
	if err := setRow(f, row, totals); err != nil {
		f.Close()
		return nil, Summary{}, err
	}

	for _, r := range []int{1, tableHeaderRow, row} {
		start, _ := excelize.CoordinatesToCellName(1, r)
		end, _ := excelize.CoordinatesToCellName(len(columns), r)
		if err := f.SetCellStyle(SheetName, start, end, bold); err != nil {
			f.Close()
			return nil, Summary{}, err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 20); err != nil {
		f.Close()
		return nil, Summary{}, err
	}
	if err := f.SetColWidth(SheetName, "D", "D", 48); err != nil {
		f.Close()
		return nil, Summary{}, err
	}

	return f, sum, nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(SheetName, cell, &values)
}
