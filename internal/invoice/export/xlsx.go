package export

import (
	"fmt"

	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

const (
	BillsSheet = "Bills"
	ItemsSheet = "Items"
)

var (
	billHeader = []interface{}{"Invoice Number", "Date", "Customer", "Items", "Total"}
	itemHeader = []interface{}{"Invoice Number", "Position", "Item", "Quantity", "Unit Price", "Amount"}
)

// BillsWorkbook writes one row per bill on the Bills sheet and one row per
// bill item on the Items sheet. Bills are expected with their items loaded.
func BillsWorkbook(bills []entity.Bill) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", BillsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ItemsSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, BillsSheet, 1, billHeader); err != nil {
		return nil, err
	}
	if err := writeRow(f, ItemsSheet, 1, itemHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(BillsSheet, "A1", "E1", bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(ItemsSheet, "A1", "F1", bold); err != nil {
		return nil, err
	}

	itemRow := 2
	for i, bill := range bills {
		total, _ := bill.Total.Round(2).Float64()
		row := []interface{}{
			bill.InvoiceNumber,
			bill.CreatedAt.Format("2006-01-02 15:04"),
			bill.CustomerIdentifier,
			len(bill.Items),
			total,
		}
		if err := writeRow(f, BillsSheet, i+2, row); err != nil {
			return nil, err
		}

		for _, item := range bill.Items {
			price, _ := item.UnitPrice.Round(2).Float64()
			lineAmount, _ := item.Amount().Round(2).Float64()
			row := []interface{}{bill.InvoiceNumber, item.Position + 1, item.Name, item.Quantity, price, lineAmount}
			if err := writeRow(f, ItemsSheet, itemRow, row); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	if len(bills) > 0 {
		if err := f.SetCellStyle(BillsSheet, "E2", fmt.Sprintf("E%d", len(bills)+1), amount); err != nil {
			return nil, err
		}
	}
	if itemRow > 2 {
		if err := f.SetCellStyle(ItemsSheet, "E2", fmt.Sprintf("F%d", itemRow-1), amount); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(BillsSheet, "A", "C", 22)
	_ = f.SetColWidth(ItemsSheet, "C", "C", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
