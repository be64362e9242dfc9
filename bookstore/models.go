package bookstore

// Member is a registered customer. Members are only created by the seed set.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Book is an inventory item. Price is in the smallest currency unit.
type Book struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price int    `json:"price"`
	Stock int    `json:"stock"`
}

// Sale links one member and one book. Total is derived from the book price at
// the time of the sale: price*quantity - discount.
type Sale struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	MemberID string `json:"member_id"`
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
	Discount int    `json:"discount"`
	Total    int    `json:"total"`
}

// Gross returns price*quantity as it was when the sale was written.
func (s *Sale) Gross() int { return s.Total + s.Discount }

// SaleReportRow is a sale joined with its member and book for display.
type SaleReportRow struct {
	SaleID     int64  `json:"sale_id"`
	Date       string `json:"date"`
	MemberName string `json:"member_name"`
	BookTitle  string `json:"book_title"`
	Price      int    `json:"price"`
	Quantity   int    `json:"quantity"`
	Discount   int    `json:"discount"`
	Total      int    `json:"total"`
}

// ReportSummary aggregates a sales report.
type ReportSummary struct {
	Sales    int `json:"sales"`
	Quantity int `json:"quantity"`
	Revenue  int `json:"revenue"`
}

// Summarize totals the given report rows.
func Summarize(rows []*SaleReportRow) ReportSummary {
	var s ReportSummary
	for _, r := range rows {
		s.Sales++
		s.Quantity += r.Quantity
		s.Revenue += r.Total
	}
	return s
}

// SaleReceipt describes a committed sale.
type SaleReceipt struct {
	Sale           Sale
	BookTitle      string
	MemberName     string
	RemainingStock int
}
