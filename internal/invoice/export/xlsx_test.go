package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBillsWorkbook(t *testing.T) {
	bills := []entity.Bill{
		{
			InvoiceNumber:      "INV-000001",
			CustomerIdentifier: "Acme",
			Total:              decimal.RequireFromString("23.60"),
			CreatedAt:          time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC),
			Items: []entity.BillItem{
				{Name: "Pen", Quantity: 2, UnitPrice: decimal.NewFromInt(10), Position: 0},
			},
		},
		{
			InvoiceNumber:      "INV-000002",
			CustomerIdentifier: "Globex",
			Total:              decimal.RequireFromString("53.69"),
			CreatedAt:          time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
			Items: []entity.BillItem{
				{Name: "Notebook", Quantity: 1, UnitPrice: decimal.RequireFromString("45.50"), Position: 0},
			},
		},
	}

	data, err := BillsWorkbook(bills)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(BillsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Invoice Number", rows[0][0])
	assert.Equal(t, "INV-000001", rows[1][0])
	assert.Equal(t, "2024-03-05 09:30", rows[1][1])
	assert.Equal(t, "Globex", rows[2][2])

	items, err := f.GetRows(ItemsSheet)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Notebook", items[2][2])
	assert.Equal(t, "INV-000002", items[2][0])
}

func TestBillsWorkbook_Empty(t *testing.T) {
	data, err := BillsWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(BillsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
