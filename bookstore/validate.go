package bookstore

import (
	"strconv"
	"strings"
)

const (
	dateLayoutLen = len("2006-01-02")
	dateSeparator = '-'
)

// ValidateDate checks the shape of a YYYY-MM-DD date: ten characters with
// separators at positions 4 and 7 and nowhere else. Digits are not checked.
func ValidateDate(date string) error {
	if len(date) != dateLayoutLen {
		return ErrInvalidDateFormat
	}
	if strings.Count(date, string(dateSeparator)) != 2 || date[4] != dateSeparator || date[7] != dateSeparator {
		return ErrInvalidDateFormat
	}
	return nil
}

func parseInt(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrNonIntegerInput
	}
	return n, nil
}

// ParseSaleInputs parses and checks the quantity and discount of a new sale,
// in that order: both must be integers, quantity > 0, discount >= 0.
func ParseSaleInputs(quantityInput, discountInput string) (quantity, discount int, err error) {
	if quantity, err = parseInt(quantityInput); err != nil {
		return 0, 0, err
	}
	if discount, err = parseInt(discountInput); err != nil {
		return 0, 0, err
	}
	if quantity <= 0 {
		return 0, 0, ErrInvalidQuantity
	}
	if discount < 0 {
		return 0, 0, ErrInvalidDiscount
	}
	return quantity, discount, nil
}

// ParseDiscount parses a discount that must be a non-negative integer.
func ParseDiscount(input string) (int, error) {
	discount, err := parseInt(input)
	if err != nil {
		return 0, err
	}
	if discount < 0 {
		return 0, ErrInvalidDiscount
	}
	return discount, nil
}

// ParseSaleID parses a sale identifier. Non-positive ids cannot exist and are
// reported as not found.
func ParseSaleID(input string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return 0, ErrNonIntegerInput
	}
	if id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}
