package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() CatalogSnapshot {
	return NewCatalogSnapshot([]CatalogProduct{
		{ID: "p-1", Name: "Pen", Price: decimal.RequireFromString("10")},
		{ID: "p-2", Name: "Notebook", Price: decimal.RequireFromString("45.50")},
	})
}

func TestItemStore_StartsWithOneEmptyRow(t *testing.T) {
	s := NewItemStore()

	require.Equal(t, 1, s.Len())
	assert.Equal(t, EmptyItem(), s.Items()[0])
}

func TestItemStore_AddItemAppends(t *testing.T) {
	s := NewItemStore()
	require.NoError(t, s.UpdateItem(0, FieldName, "first", nil))

	idx := s.AddItem()

	assert.Equal(t, 1, idx)
	items := s.Items()
	assert.Equal(t, "first", items[0].DisplayName)
	assert.Equal(t, EmptyItem(), items[1])
}

func TestItemStore_CoercesNumbers(t *testing.T) {
	cases := []struct {
		field Field
		value string
		qty   int
		price string
	}{
		{FieldQuantity, "3", 3, "0"},
		{FieldQuantity, "2.9", 2, "0"},
		{FieldQuantity, "-4", 0, "0"},
		{FieldQuantity, "abc", 0, "0"},
		{FieldQuantity, "", 0, "0"},
		{FieldPrice, "12.75", 0, "12.75"},
		{FieldPrice, "-1", 0, "0"},
		{FieldPrice, "1.23456", 0, "1.2346"},
		{FieldPrice, "0.00004", 0, "0"},
		{FieldPrice, "ten", 0, "0"},
	}

	for _, tc := range cases {
		s := NewItemStore()
		err := s.UpdateItem(0, tc.field, tc.value, nil)
		require.NoError(t, err, "%s=%q", tc.field, tc.value)

		got := s.Items()[0]
		assert.Equal(t, tc.qty, got.Quantity, "%s=%q", tc.field, tc.value)
		assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString(tc.price)), "%s=%q gave %s", tc.field, tc.value, got.UnitPrice)
	}
}

func TestItemStore_CatalogSelectionFillsNameAndPrice(t *testing.T) {
	s := NewItemStore()
	require.NoError(t, s.UpdateItem(0, FieldQuantity, "4", nil))

	require.NoError(t, s.UpdateItem(0, FieldProductRef, "p-2", testCatalog()))

	got := s.Items()[0]
	assert.Equal(t, "p-2", got.ProductRef)
	assert.Equal(t, "Notebook", got.DisplayName)
	assert.Equal(t, "45.5", got.UnitPrice.String())
	assert.Equal(t, 4, got.Quantity)
}

func TestItemStore_CatalogMissLeavesItemUnchanged(t *testing.T) {
	s := NewItemStore()
	require.NoError(t, s.UpdateItem(0, FieldProductRef, "p-1", testCatalog()))
	before := s.Items()[0]

	err := s.UpdateItem(0, FieldProductRef, "gone", testCatalog())

	var miss *CatalogLookupMiss
	require.ErrorAs(t, err, &miss)
	assert.Equal(t, "gone", miss.ProductRef)
	assert.Equal(t, before, s.Items()[0])
}

func TestItemStore_ManualEntryClearsName(t *testing.T) {
	s := NewItemStore()
	require.NoError(t, s.UpdateItem(0, FieldProductRef, "p-1", testCatalog()))

	require.NoError(t, s.UpdateItem(0, FieldProductRef, ManualEntry, testCatalog()))

	got := s.Items()[0]
	assert.Equal(t, ManualEntry, got.ProductRef)
	assert.Empty(t, got.DisplayName)
	assert.False(t, got.CatalogLinked())

	require.NoError(t, s.UpdateItem(0, FieldName, "Custom work", nil))
	assert.Equal(t, "Custom work", s.Items()[0].DisplayName)
}

func TestItemStore_LinkedFieldsAreLocked(t *testing.T) {
	s := NewItemStore()
	require.NoError(t, s.UpdateItem(0, FieldProductRef, "p-1", testCatalog()))

	assert.ErrorIs(t, s.UpdateItem(0, FieldName, "Other", nil), ErrFieldLocked)
	assert.ErrorIs(t, s.UpdateItem(0, FieldPrice, "1", nil), ErrFieldLocked)
	assert.Equal(t, "Pen", s.Items()[0].DisplayName)

	require.NoError(t, s.UpdateItem(0, FieldProductRef, "", nil))
	require.NoError(t, s.UpdateItem(0, FieldPrice, "8", nil))
	assert.Equal(t, "8", s.Items()[0].UnitPrice.String())
}

func TestItemStore_BadIndexAndField(t *testing.T) {
	s := NewItemStore()

	assert.ErrorIs(t, s.UpdateItem(1, FieldName, "x", nil), ErrItemIndex)
	assert.ErrorIs(t, s.UpdateItem(-1, FieldName, "x", nil), ErrItemIndex)
	assert.ErrorIs(t, s.UpdateItem(0, Field("colour"), "x", nil), ErrUnknownField)
	assert.ErrorIs(t, s.RemoveItem(3), ErrItemIndex)
}

func TestItemStore_RemoveItemKeepsOrder(t *testing.T) {
	s := NewItemStore()
	s.AddItem()
	s.AddItem()
	for i, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.UpdateItem(i, FieldName, name, nil))
	}

	require.NoError(t, s.RemoveItem(1))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].DisplayName)
	assert.Equal(t, "c", items[1].DisplayName)
}

func TestItemStore_RemovingLastRowResetsIt(t *testing.T) {
	s := NewItemStore()
	require.NoError(t, s.UpdateItem(0, FieldName, "Pen", nil))
	require.NoError(t, s.UpdateItem(0, FieldQuantity, "2", nil))

	require.NoError(t, s.RemoveItem(0))

	require.Equal(t, 1, s.Len())
	assert.Equal(t, EmptyItem(), s.Items()[0])
}

func TestItemStore_ItemsReturnsCopy(t *testing.T) {
	s := NewItemStore()
	items := s.Items()
	items[0].DisplayName = "mutated"

	assert.Empty(t, s.Items()[0].DisplayName)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("product_ref")
	require.NoError(t, err)
	assert.Equal(t, FieldProductRef, f)

	f, err = ParseField("Quantity")
	require.NoError(t, err)
	assert.Equal(t, FieldQuantity, f)

	_, err = ParseField("discount")
	assert.ErrorIs(t, err, ErrUnknownField)
}
