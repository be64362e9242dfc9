// Package shell implements the interactive numbered menu.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"bookstore-manager/bookstore"
)

const menu = `
*************** Bookstore Sales ***************
1. Add sale
2. Sales report
3. Update sale discount
4. Delete sale
5. Exit
***********************************************`

// Shell reads menu choices and answers line by line.
type Shell struct {
	mgr     *bookstore.Manager
	sc      *bufio.Scanner
	out     io.Writer
	prompts bool
}

// New builds a shell over in/out. Prompts and the menu are only written when
// prompts is true, which callers set when the input is a terminal.
func New(mgr *bookstore.Manager, in io.Reader, out io.Writer, prompts bool) *Shell {
	return &Shell{
		mgr:     mgr,
		sc:      bufio.NewScanner(in),
		out:     out,
		prompts: prompts,
	}
}

// Run loops until the user picks 5, enters an empty line or input ends.
// Business errors are printed and the loop continues.
func (s *Shell) Run() error {
	for {
		if s.prompts {
			fmt.Fprintln(s.out, menu)
		}
		choice, ok := s.ask("Choose an option (1-5): ")
		if !ok {
			break
		}

		switch choice {
		case "1":
			s.handleAddSale()
		case "2":
			s.handleReport()
		case "3":
			s.handleUpdate()
		case "4":
			s.handleDelete()
		case "5", "":
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice, please enter 1-5.")
		}
	}
	return s.sc.Err()
}

// ask prints the prompt (when enabled) and returns the next trimmed line.
func (s *Shell) ask(prompt string) (string, bool) {
	if s.prompts {
		fmt.Fprint(s.out, prompt)
	}
	if !s.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.sc.Text()), true
}

func (s *Shell) handleAddSale() {
	if s.prompts {
		if books, err := s.mgr.GetAllBooks(); err == nil {
			RenderBooks(s.out, books)
		}
	}

	date, ok := s.ask("Sale date (YYYY-MM-DD): ")
	if !ok {
		return
	}
	memberID, ok := s.ask("Member ID: ")
	if !ok {
		return
	}
	bookID, ok := s.ask("Book ID: ")
	if !ok {
		return
	}
	qty, ok := s.ask("Quantity: ")
	if !ok {
		return
	}
	discount, ok := s.ask("Discount amount: ")
	if !ok {
		return
	}

	receipt, err := s.mgr.CreateSale(date, memberID, bookID, qty, discount)
	if err != nil {
		fmt.Fprintln(s.out, Describe(err))
		return
	}
	fmt.Fprintf(s.out, "Sale #%d recorded: %s bought %d x '%s', total %d (stock left: %d)\n",
		receipt.Sale.ID, receipt.MemberName, receipt.Sale.Quantity, receipt.BookTitle,
		receipt.Sale.Total, receipt.RemainingStock)
}

func (s *Shell) handleReport() {
	rows, err := s.mgr.SalesReport()
	if err != nil {
		fmt.Fprintln(s.out, Describe(err))
		return
	}
	RenderReport(s.out, rows)
}

func (s *Shell) handleUpdate() {
	if s.prompts {
		s.handleReport()
	}

	saleID, ok := s.ask("Sale ID to update: ")
	if !ok {
		return
	}
	if _, err := s.mgr.GetSale(saleID); err != nil {
		fmt.Fprintln(s.out, Describe(err))
		return
	}
	discount, ok := s.ask("New discount amount: ")
	if !ok {
		return
	}

	before, after, err := s.mgr.EditSaleDiscount(saleID, discount)
	if err != nil {
		fmt.Fprintln(s.out, Describe(err))
		return
	}
	fmt.Fprintf(s.out, "Sale #%d updated: discount %d -> %d, total %d -> %d\n",
		after.ID, before.Discount, after.Discount, before.Total, after.Total)
}

func (s *Shell) handleDelete() {
	if s.prompts {
		s.handleReport()
	}

	saleID, ok := s.ask("Sale ID to delete: ")
	if !ok {
		return
	}
	sale, err := s.mgr.DeleteSale(saleID)
	if err != nil {
		fmt.Fprintln(s.out, Describe(err))
		return
	}
	fmt.Fprintf(s.out, "Sale #%d deleted.\n", sale.ID)
}
