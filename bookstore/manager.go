package bookstore

import (
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Store is the persistence the Manager needs. *Database implements it.
type Store interface {
	GetMember(id string) (*Member, error)
	GetBook(id string) (*Book, error)
	GetSale(id int64) (*Sale, error)
	GetAllMembers() ([]*Member, error)
	GetAllBooks() ([]*Book, error)
	SalesReport() ([]*SaleReportRow, error)
	RecordSale(date, memberID, bookID string, quantity, discount int) (*SaleReceipt, error)
	UpdateSaleDiscount(id int64, discount int) (before, after *Sale, err error)
	DeleteSale(id int64) error
}

var _ Store = (*Database)(nil)

// Manager validates raw user input and applies it to the store. It is the
// single entry point used by the shell and the CLI commands.
type Manager struct {
	store Store
	log   *zap.Logger
}

// NewManager wires a Manager to an already opened store.
func NewManager(store Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, log: log}
}

// ------------------ Sales ------------------

// CreateSale validates the inputs in a fixed order and records the sale. The
// first failing check wins:
//   - date shape (ErrInvalidDateFormat)
//   - integer quantity and discount (ErrNonIntegerInput)
//   - quantity > 0 (ErrInvalidQuantity), discount >= 0 (ErrInvalidDiscount)
//   - member and book exist (ErrUnknownReference)
//   - quantity <= stock (ErrInsufficientStock)
//
// The sale row and the stock decrement are committed together or not at all
// (ErrStorageWrite).
func (m *Manager) CreateSale(date, memberID, bookID, quantityInput, discountInput string) (*SaleReceipt, error) {
	date = strings.TrimSpace(date)
	memberID = strings.TrimSpace(memberID)
	bookID = strings.TrimSpace(bookID)

	if err := ValidateDate(date); err != nil {
		return nil, m.rejected("create sale", err, zap.String("date", date))
	}
	quantity, discount, err := ParseSaleInputs(quantityInput, discountInput)
	if err != nil {
		return nil, m.rejected("create sale", err,
			zap.String("quantity", quantityInput), zap.String("discount", discountInput))
	}

	receipt, err := m.store.RecordSale(date, memberID, bookID, quantity, discount)
	if err != nil {
		return nil, m.rejected("create sale", err,
			zap.String("member", memberID), zap.String("book", bookID), zap.Int("quantity", quantity))
	}

	m.log.Info("sale recorded",
		zap.Int64("sale_id", receipt.Sale.ID),
		zap.String("member", memberID),
		zap.String("book", bookID),
		zap.Int("quantity", quantity),
		zap.Int("discount", discount),
		zap.Int("total", receipt.Sale.Total),
		zap.Int("remaining_stock", receipt.RemainingStock),
	)
	if receipt.Sale.Total < 0 {
		m.log.Warn("sale total is negative", zap.Int64("sale_id", receipt.Sale.ID), zap.Int("total", receipt.Sale.Total))
	}
	return receipt, nil
}

// EditSaleDiscount replaces the discount of an existing sale and recomputes
// its total from the sale's own price*quantity.
func (m *Manager) EditSaleDiscount(saleIDInput, discountInput string) (before, after *Sale, err error) {
	id, err := ParseSaleID(saleIDInput)
	if err != nil {
		return nil, nil, m.rejected("edit sale", err, zap.String("sale_id", saleIDInput))
	}
	discount, err := ParseDiscount(discountInput)
	if err != nil {
		return nil, nil, m.rejected("edit sale", err, zap.String("discount", discountInput))
	}

	before, after, err = m.store.UpdateSaleDiscount(id, discount)
	if err != nil {
		return nil, nil, m.rejected("edit sale", err, zap.Int64("sale_id", id))
	}
	m.log.Info("sale discount updated",
		zap.Int64("sale_id", id),
		zap.Int("old_total", before.Total),
		zap.Int("new_total", after.Total),
	)
	return before, after, nil
}

// DeleteSale removes a sale. Stock is not returned to the book.
func (m *Manager) DeleteSale(saleIDInput string) (*Sale, error) {
	id, err := ParseSaleID(saleIDInput)
	if err != nil {
		return nil, m.rejected("delete sale", err, zap.String("sale_id", saleIDInput))
	}
	sale, err := m.store.GetSale(id)
	if err != nil {
		return nil, m.rejected("delete sale", err, zap.Int64("sale_id", id))
	}
	if err := m.store.DeleteSale(id); err != nil {
		return nil, m.rejected("delete sale", err, zap.Int64("sale_id", id))
	}
	m.log.Info("sale deleted", zap.Int64("sale_id", id))
	return sale, nil
}

// GetSale looks up a sale by its textual identifier.
func (m *Manager) GetSale(saleIDInput string) (*Sale, error) {
	id, err := ParseSaleID(saleIDInput)
	if err != nil {
		return nil, err
	}
	return m.store.GetSale(id)
}

// ------------------ Reports ------------------

func (m *Manager) SalesReport() ([]*SaleReportRow, error) { return m.store.SalesReport() }
func (m *Manager) GetAllMembers() ([]*Member, error)      { return m.store.GetAllMembers() }
func (m *Manager) GetAllBooks() ([]*Book, error)          { return m.store.GetAllBooks() }
func (m *Manager) GetBook(id string) (*Book, error)       { return m.store.GetBook(id) }

// rejected logs err at a level matching its kind and returns it unchanged.
func (m *Manager) rejected(op string, err error, fields ...zap.Field) error {
	fields = append(fields, zap.String("op", op), zap.Stringer("kind", KindOf(err)), zap.Error(err))
	switch {
	case IsBusinessError(err):
		m.log.Debug("request rejected", fields...)
	case errors.Is(err, ErrStorageWrite):
		m.log.Error("write rolled back", fields...)
	default:
		m.log.Error("storage failure", fields...)
	}
	return err
}
