package bookstore

import (
	"errors"
	"fmt"
)

// Errors returned by the sale operations. Callers match them with errors.Is.
var (
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrNonIntegerInput   = errors.New("input must be an integer")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidDiscount   = errors.New("discount cannot be negative")
	ErrUnknownReference  = errors.New("member or book does not exist")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStorageWrite      = errors.New("failed to write sale")
	ErrNotFound          = errors.New("sale not found")
	ErrStorage           = errors.New("storage error")
)

// InsufficientStockError reports the stock that was available when a sale
// asked for more.
type InsufficientStockError struct {
	BookID    string
	Stock     int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, current stock %d", e.BookID, e.Requested, e.Stock)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// Kind names an error category for display and exit handling.
type Kind int

const (
	KindNone Kind = iota
	KindInvalidDateFormat
	KindNonIntegerInput
	KindInvalidQuantity
	KindInvalidDiscount
	KindUnknownReference
	KindInsufficientStock
	KindStorageWriteFailure
	KindNotFound
	KindStorageError
)

var kindNames = map[Kind]string{
	KindNone:                "None",
	KindInvalidDateFormat:   "InvalidDateFormat",
	KindNonIntegerInput:     "NonIntegerInput",
	KindInvalidQuantity:     "InvalidQuantity",
	KindInvalidDiscount:     "InvalidDiscount",
	KindUnknownReference:    "UnknownReference",
	KindInsufficientStock:   "InsufficientStock",
	KindStorageWriteFailure: "StorageWriteFailure",
	KindNotFound:            "NotFound",
	KindStorageError:        "StorageError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var kindErrors = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidDateFormat, KindInvalidDateFormat},
	{ErrNonIntegerInput, KindNonIntegerInput},
	{ErrInvalidQuantity, KindInvalidQuantity},
	{ErrInvalidDiscount, KindInvalidDiscount},
	{ErrUnknownReference, KindUnknownReference},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrStorageWrite, KindStorageWriteFailure},
	{ErrNotFound, KindNotFound},
	{ErrStorage, KindStorageError},
}

// KindOf classifies err. Errors that did not come from this package are
// reported as storage errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, ke := range kindErrors {
		if errors.Is(err, ke.err) {
			return ke.kind
		}
	}
	return KindStorageError
}

// IsBusinessError reports whether err is a rule violation the caller can
// recover from by asking for different input.
func IsBusinessError(err error) bool {
	switch KindOf(err) {
	case KindStorageWriteFailure, KindStorageError, KindNone:
		return false
	}
	return true
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func writeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageWrite, op, err)
}
