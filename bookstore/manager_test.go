package bookstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newManager(t *testing.T) (*Manager, *Database) {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewManager(db, zaptest.NewLogger(t)), db
}

func TestCreateSale_Success(t *testing.T) {
	mgr, db := newManager(t)

	receipt, err := mgr.CreateSale("2024-05-01", "M001", "B001", "2", "100")
	require.NoError(t, err)

	assert.Equal(t, 1100, receipt.Sale.Total)
	assert.Equal(t, 48, receipt.RemainingStock)
	assert.Equal(t, "Python Programming", receipt.BookTitle)
	assert.Equal(t, "Alice", receipt.MemberName)
	assert.Equal(t, 48, bookStock(t, db, "B001"))

	sale, err := db.GetSale(receipt.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt.Sale, *sale)
	assert.Equal(t, 5, saleCount(t, db))
}

func TestCreateSale_OnlyTouchesReferencedBook(t *testing.T) {
	mgr, db := newManager(t)

	_, err := mgr.CreateSale("2024-05-01", "M003", "B002", " 3 ", "0")
	require.NoError(t, err)

	assert.Equal(t, 27, bookStock(t, db, "B002"))
	assert.Equal(t, 50, bookStock(t, db, "B001"))
	assert.Equal(t, 20, bookStock(t, db, "B003"))
}

func TestCreateSale_SellsEntireStock(t *testing.T) {
	mgr, db := newManager(t)

	receipt, err := mgr.CreateSale("2024-05-01", "M002", "B003", "20", "0")
	require.NoError(t, err)
	assert.Equal(t, 0, receipt.RemainingStock)
	assert.Equal(t, 0, bookStock(t, db, "B003"))

	_, err = mgr.CreateSale("2024-05-02", "M002", "B003", "1", "0")
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	mgr, db := newManager(t)

	_, err := mgr.CreateSale("2024-05-01", "M001", "B001", "51", "0")
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, KindInsufficientStock, KindOf(err))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 50, stockErr.Stock)
	assert.Equal(t, 51, stockErr.Requested)
	assert.Contains(t, err.Error(), "current stock 50")

	assert.Equal(t, 50, bookStock(t, db, "B001"))
	assert.Equal(t, 4, saleCount(t, db))
}

func TestCreateSale_UnknownReference(t *testing.T) {
	tests := []struct {
		name   string
		member string
		book   string
	}{
		{name: "unknown member", member: "M999", book: "B001"},
		{name: "unknown book", member: "M001", book: "B999"},
		{name: "both unknown", member: "M999", book: "B999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, db := newManager(t)

			_, err := mgr.CreateSale("2024-05-01", tt.member, tt.book, "1", "0")
			assert.ErrorIs(t, err, ErrUnknownReference)
			assert.Equal(t, 4, saleCount(t, db))
			assert.Equal(t, 50, bookStock(t, db, "B001"))
		})
	}
}

func TestCreateSale_NegativeTotalIsKept(t *testing.T) {
	mgr, db := newManager(t)

	receipt, err := mgr.CreateSale("2024-05-01", "M001", "B001", "1", "9999")
	require.NoError(t, err)
	assert.Equal(t, -9399, receipt.Sale.Total)

	sale, err := db.GetSale(receipt.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, -9399, sale.Total)
	assert.Equal(t, 49, bookStock(t, db, "B001"))
}

func TestCreateSale_ValidationOrder(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		member   string
		book     string
		qty      string
		discount string
		want     error
	}{
		{"short date", "2024-5-01", "M001", "B001", "1", "0", ErrInvalidDateFormat},
		{"slashes", "2024/05/01", "M001", "B001", "1", "0", ErrInvalidDateFormat},
		{"separator misplaced", "20240-5-01", "M001", "B001", "1", "0", ErrInvalidDateFormat},
		{"extra separator", "2024-05-0-", "M001", "B001", "1", "0", ErrInvalidDateFormat},
		{"date before integers", "bad", "M001", "B001", "x", "y", ErrInvalidDateFormat},
		{"quantity not integer", "2024-05-01", "M001", "B001", "two", "0", ErrNonIntegerInput},
		{"discount not integer", "2024-05-01", "M001", "B001", "1", "1.5", ErrNonIntegerInput},
		{"empty quantity", "2024-05-01", "M001", "B001", "", "0", ErrNonIntegerInput},
		{"integers before quantity range", "2024-05-01", "M001", "B001", "0", "x", ErrNonIntegerInput},
		{"zero quantity", "2024-05-01", "M001", "B001", "0", "0", ErrInvalidQuantity},
		{"negative quantity", "2024-05-01", "M001", "B001", "-3", "-1", ErrInvalidQuantity},
		{"negative discount", "2024-05-01", "M001", "B001", "1", "-1", ErrInvalidDiscount},
		{"discount before reference", "2024-05-01", "M999", "B001", "1", "-1", ErrInvalidDiscount},
		{"reference before stock", "2024-05-01", "M999", "B001", "999", "0", ErrUnknownReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, db := newManager(t)

			_, err := mgr.CreateSale(tt.date, tt.member, tt.book, tt.qty, tt.discount)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsBusinessError(err))
			assert.Equal(t, 4, saleCount(t, db))
		})
	}
}

func TestEditSaleDiscount_UsesRecordedPrice(t *testing.T) {
	mgr, db := newManager(t)

	receipt, err := mgr.CreateSale("2024-05-01", "M002", "B001", "3", "0")
	require.NoError(t, err)
	require.Equal(t, 1800, receipt.Sale.Total)

	_, err = db.db.Exec(`UPDATE book SET bprice = 999 WHERE bid = 'B001'`)
	require.NoError(t, err)

	before, after, err := mgr.EditSaleDiscount("5", "300")
	require.NoError(t, err)
	assert.Equal(t, 1800, before.Total)
	assert.Equal(t, 300, after.Discount)
	assert.Equal(t, 1500, after.Total)

	stored, err := db.GetSale(5)
	require.NoError(t, err)
	assert.Equal(t, *after, *stored)
	assert.Equal(t, 47, bookStock(t, db, "B001"), "edit must not touch stock")
}

func TestEditSaleDiscount_SeedSale(t *testing.T) {
	mgr, _ := newManager(t)

	// Seed sale 3: B003, 3 x 1200, discount 200.
	_, after, err := mgr.EditSaleDiscount("3", "0")
	require.NoError(t, err)
	assert.Equal(t, 3600, after.Total)

	_, after, err = mgr.EditSaleDiscount("3", "5000")
	require.NoError(t, err)
	assert.Equal(t, -1400, after.Total)
}

func TestEditSaleDiscount_Errors(t *testing.T) {
	tests := []struct {
		name     string
		saleID   string
		discount string
		want     error
	}{
		{"unknown sale", "42", "10", ErrNotFound},
		{"zero id", "0", "10", ErrNotFound},
		{"non-integer id", "abc", "10", ErrNonIntegerInput},
		{"non-integer discount", "1", "ten", ErrNonIntegerInput},
		{"negative discount", "1", "-5", ErrInvalidDiscount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, db := newManager(t)

			_, _, err := mgr.EditSaleDiscount(tt.saleID, tt.discount)
			assert.ErrorIs(t, err, tt.want)

			sale, err := db.GetSale(1)
			require.NoError(t, err)
			assert.Equal(t, 1100, sale.Total)
		})
	}
}

func TestDeleteSale(t *testing.T) {
	mgr, db := newManager(t)

	deleted, err := mgr.DeleteSale("2")
	require.NoError(t, err)
	assert.Equal(t, "B002", deleted.BookID)

	assert.Equal(t, 3, saleCount(t, db))
	assert.Equal(t, 30, bookStock(t, db, "B002"), "delete must not restore stock")

	_, err = db.GetSale(2)
	assert.ErrorIs(t, err, ErrNotFound)
	for _, id := range []int64{1, 3, 4} {
		_, err := db.GetSale(id)
		assert.NoError(t, err, "sale %d", id)
	}

	_, err = mgr.DeleteSale("2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = mgr.DeleteSale("two")
	assert.ErrorIs(t, err, ErrNonIntegerInput)
}

func TestDeleteAfterCreateKeepsDecrement(t *testing.T) {
	mgr, db := newManager(t)

	receipt, err := mgr.CreateSale("2024-05-01", "M001", "B002", "4", "0")
	require.NoError(t, err)
	require.Equal(t, 26, bookStock(t, db, "B002"))

	_, err = mgr.DeleteSale("5")
	require.NoError(t, err)
	assert.Equal(t, int64(5), receipt.Sale.ID)
	assert.Equal(t, 26, bookStock(t, db, "B002"))
}

func TestSalesReportSummary(t *testing.T) {
	mgr, _ := newManager(t)

	rows, err := mgr.SalesReport()
	require.NoError(t, err)

	summary := Summarize(rows)
	assert.Equal(t, ReportSummary{Sales: 4, Quantity: 7, Revenue: 5850}, summary)
}
