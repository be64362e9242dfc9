package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"bookstore-manager/bookstore"
)

// RenderReport writes the sales report table followed by a summary line.
func RenderReport(w io.Writer, rows []*bookstore.SaleReportRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No sales data.")
		return
	}

	fmt.Fprintf(w, "%-5s %-10s %-12s %-25s %7s %5s %9s %9s\n",
		"ID", "Date", "Member", "Book", "Price", "Qty", "Discount", "Total")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range rows {
		fmt.Fprintf(w, "%-5d %-10s %-12s %-25s %7d %5d %9d %9d\n",
			r.SaleID,
			r.Date,
			truncateString(r.MemberName, 12),
			truncateString(r.BookTitle, 25),
			r.Price,
			r.Quantity,
			r.Discount,
			r.Total)
	}

	sum := bookstore.Summarize(rows)
	fmt.Fprintln(w, strings.Repeat("-", 90))
	fmt.Fprintf(w, "Sales: %d | Books sold: %d | Revenue: %d\n", sum.Sales, sum.Quantity, sum.Revenue)
}

// RenderBooks writes the book inventory.
func RenderBooks(w io.Writer, books []*bookstore.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books in stock list.")
		return
	}
	fmt.Fprintf(w, "%-6s %-30s %7s %6s\n", "ID", "Title", "Price", "Stock")
	fmt.Fprintln(w, strings.Repeat("-", 52))
	for _, b := range books {
		fmt.Fprintf(w, "%-6s %-30s %7d %6d\n", b.ID, truncateString(b.Title, 30), b.Price, b.Stock)
	}
}

// RenderMembers writes the member list.
func RenderMembers(w io.Writer, members []*bookstore.Member) {
	if len(members) == 0 {
		fmt.Fprintln(w, "No members registered.")
		return
	}
	fmt.Fprintf(w, "%-6s %-15s %-13s %s\n", "ID", "Name", "Phone", "Email")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, m := range members {
		fmt.Fprintf(w, "%-6s %-15s %-13s %s\n", m.ID, truncateString(m.Name, 15), m.Phone, m.Email)
	}
}

// Describe turns an operation error into the line shown to the user.
func Describe(err error) string {
	var stockErr *bookstore.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return fmt.Sprintf("Error: insufficient stock, current stock is %d", stockErr.Stock)
	case errors.Is(err, bookstore.ErrInvalidDateFormat):
		return "Error: date must be in YYYY-MM-DD format"
	case errors.Is(err, bookstore.ErrNonIntegerInput):
		return "Error: please enter a whole number"
	case errors.Is(err, bookstore.ErrInvalidQuantity):
		return "Error: quantity must be greater than 0"
	case errors.Is(err, bookstore.ErrInvalidDiscount):
		return "Error: discount cannot be negative"
	case errors.Is(err, bookstore.ErrUnknownReference):
		return "Error: member ID or book ID does not exist"
	case errors.Is(err, bookstore.ErrNotFound):
		return "Error: sale not found"
	case errors.Is(err, bookstore.ErrStorageWrite):
		return fmt.Sprintf("Error: sale was not saved, no changes were made (%v)", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}
