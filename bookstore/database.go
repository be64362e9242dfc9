package bookstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Database provides typed queries and transactional writes over a single
// SQLite connection.
type Database struct {
	db     *sql.DB
	seeded bool
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// NewDatabase opens (or creates) the SQLite database at dbPath and makes sure
// the schema and seed data are present.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, storageErr("open sqlite", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, storageErr("enable WAL", err)
	}

	d := &Database{db: db}
	if d.seeded, err = d.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Seeded reports whether opening the database loaded the seed set.
func (d *Database) Seeded() bool { return d.seeded }

// Close releases the connection.
func (d *Database) Close() error { return d.db.Close() }

// ---------------------------------------------------------------------------
// Schema and seed data
// ---------------------------------------------------------------------------

var schema = []string{
	`CREATE TABLE IF NOT EXISTS member (
        mid TEXT PRIMARY KEY,
        mname TEXT NOT NULL,
        mphone TEXT NOT NULL,
        memail TEXT
    );`,
	`CREATE TABLE IF NOT EXISTS book (
        bid TEXT PRIMARY KEY,
        btitle TEXT NOT NULL,
        bprice INTEGER NOT NULL,
        bstock INTEGER NOT NULL
    );`,
	`CREATE TABLE IF NOT EXISTS sale (
        sid INTEGER PRIMARY KEY AUTOINCREMENT,
        sdate TEXT NOT NULL,
        mid TEXT NOT NULL,
        bid TEXT NOT NULL,
        sqty INTEGER NOT NULL,
        sdiscount INTEGER NOT NULL,
        stotal INTEGER NOT NULL
    );`,
}

// SeedMembers, SeedBooks and SeedSales are loaded once into an empty store.
var (
	SeedMembers = []Member{
		{ID: "M001", Name: "Alice", Phone: "0912-345678", Email: "alice@example.com"},
		{ID: "M002", Name: "Bob", Phone: "0923-456789", Email: "bob@example.com"},
		{ID: "M003", Name: "Cathy", Phone: "0934-567890", Email: "cathy@example.com"},
	}
	SeedBooks = []Book{
		{ID: "B001", Title: "Python Programming", Price: 600, Stock: 50},
		{ID: "B002", Title: "Data Science Basics", Price: 800, Stock: 30},
		{ID: "B003", Title: "Machine Learning Guide", Price: 1200, Stock: 20},
	}
	SeedSales = []Sale{
		{Date: "2024-01-15", MemberID: "M001", BookID: "B001", Quantity: 2, Discount: 100, Total: 1100},
		{Date: "2024-01-16", MemberID: "M002", BookID: "B002", Quantity: 1, Discount: 50, Total: 750},
		{Date: "2024-01-17", MemberID: "M001", BookID: "B003", Quantity: 3, Discount: 200, Total: 3400},
		{Date: "2024-01-18", MemberID: "M003", BookID: "B001", Quantity: 1, Discount: 0, Total: 600},
	}
)

// Init creates missing tables and loads the seed set when the member table is
// empty. It is safe to call on every start; seeded reports whether rows were
// inserted by this call.
func (d *Database) Init() (seeded bool, err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return false, storageErr("begin init", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return false, storageErr("create schema", err)
		}
	}

	var members int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM member`).Scan(&members); err != nil {
		return false, storageErr("count members", err)
	}

	if members == 0 {
		if err := seed(tx); err != nil {
			return false, err
		}
		seeded = true
	}

	if err := tx.Commit(); err != nil {
		return false, storageErr("commit init", err)
	}
	return seeded, nil
}

func seed(tx *sql.Tx) error {
	for _, m := range SeedMembers {
		if _, err := tx.Exec(`INSERT INTO member(mid,mname,mphone,memail) VALUES(?,?,?,?)`,
			m.ID, m.Name, m.Phone, nullString(m.Email)); err != nil {
			return storageErr("seed member", err)
		}
	}
	for _, b := range SeedBooks {
		if _, err := tx.Exec(`INSERT INTO book(bid,btitle,bprice,bstock) VALUES(?,?,?,?)`,
			b.ID, b.Title, b.Price, b.Stock); err != nil {
			return storageErr("seed book", err)
		}
	}
	for _, s := range SeedSales {
		if _, err := tx.Exec(`INSERT INTO sale(sdate,mid,bid,sqty,sdiscount,stotal) VALUES(?,?,?,?,?,?)`,
			s.Date, s.MemberID, s.BookID, s.Quantity, s.Discount, s.Total); err != nil {
			return storageErr("seed sale", err)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Counts returns the number of rows in the member, book and sale tables.
func (d *Database) Counts() (members, books, sales int, err error) {
	err = d.db.QueryRow(`SELECT
        (SELECT COUNT(*) FROM member),
        (SELECT COUNT(*) FROM book),
        (SELECT COUNT(*) FROM sale)`).Scan(&members, &books, &sales)
	if err != nil {
		return 0, 0, 0, storageErr("count rows", err)
	}
	return members, books, sales, nil
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

// findMember returns nil, nil when the member does not exist.
func findMember(q querier, id string) (*Member, error) {
	var (
		m     Member
		email sql.NullString
	)
	err := q.QueryRow(`SELECT mid,mname,mphone,memail FROM member WHERE mid=?`, id).
		Scan(&m.ID, &m.Name, &m.Phone, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Email = email.String
	return &m, nil
}

// findBook returns nil, nil when the book does not exist.
func findBook(q querier, id string) (*Book, error) {
	var b Book
	err := q.QueryRow(`SELECT bid,btitle,bprice,bstock FROM book WHERE bid=?`, id).
		Scan(&b.ID, &b.Title, &b.Price, &b.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// findSale returns nil, nil when the sale does not exist.
func findSale(q querier, id int64) (*Sale, error) {
	var s Sale
	err := q.QueryRow(`SELECT sid,sdate,mid,bid,sqty,sdiscount,stotal FROM sale WHERE sid=?`, id).
		Scan(&s.ID, &s.Date, &s.MemberID, &s.BookID, &s.Quantity, &s.Discount, &s.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetMember fetches a single member. A missing member yields ErrUnknownReference.
func (d *Database) GetMember(id string) (*Member, error) {
	m, err := findMember(d.db, id)
	if err != nil {
		return nil, storageErr("get member", err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: member %s", ErrUnknownReference, id)
	}
	return m, nil
}

// GetBook fetches a single book. A missing book yields ErrUnknownReference.
func (d *Database) GetBook(id string) (*Book, error) {
	b, err := findBook(d.db, id)
	if err != nil {
		return nil, storageErr("get book", err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: book %s", ErrUnknownReference, id)
	}
	return b, nil
}

// GetSale fetches a single sale. A missing sale yields ErrNotFound.
func (d *Database) GetSale(id int64) (*Sale, error) {
	s, err := findSale(d.db, id)
	if err != nil {
		return nil, storageErr("get sale", err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: sale %d", ErrNotFound, id)
	}
	return s, nil
}

// GetAllMembers returns all members ordered by identifier.
func (d *Database) GetAllMembers() ([]*Member, error) {
	rows, err := d.db.Query(`SELECT mid,mname,mphone,COALESCE(memail,'') FROM member ORDER BY mid`)
	if err != nil {
		return nil, storageErr("list members", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Phone, &m.Email); err != nil {
			return nil, storageErr("scan member", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list members", err)
	}
	return members, nil
}

// GetAllBooks returns all books ordered by identifier.
func (d *Database) GetAllBooks() ([]*Book, error) {
	rows, err := d.db.Query(`SELECT bid,btitle,bprice,bstock FROM book ORDER BY bid`)
	if err != nil {
		return nil, storageErr("list books", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Price, &b.Stock); err != nil {
			return nil, storageErr("scan book", err)
		}
		books = append(books, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list books", err)
	}
	return books, nil
}

// SalesReport joins every sale with its member and book, ordered by sale id.
// Sales whose member or book has disappeared are still listed with empty names.
func (d *Database) SalesReport() ([]*SaleReportRow, error) {
	rows, err := d.db.Query(`
        SELECT s.sid, s.sdate, COALESCE(m.mname,''), COALESCE(b.btitle,''), COALESCE(b.bprice,0),
               s.sqty, s.sdiscount, s.stotal
        FROM sale s
        LEFT JOIN member m ON m.mid = s.mid
        LEFT JOIN book b ON b.bid = s.bid
        ORDER BY s.sid ASC;`)
	if err != nil {
		return nil, storageErr("sales report", err)
	}
	defer rows.Close()

	var report []*SaleReportRow
	for rows.Next() {
		var r SaleReportRow
		if err := rows.Scan(&r.SaleID, &r.Date, &r.MemberName, &r.BookTitle, &r.Price,
			&r.Quantity, &r.Discount, &r.Total); err != nil {
			return nil, storageErr("scan report row", err)
		}
		report = append(report, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("sales report", err)
	}
	return report, nil
}

// ---------------------------------------------------------------------------
// Sale writes
// ---------------------------------------------------------------------------

// RecordSale resolves the member and book, checks stock, computes the total
// and writes the sale together with the stock decrement in one transaction.
// Inputs must already be validated: quantity > 0 and discount >= 0.
func (d *Database) RecordSale(date, memberID, bookID string, quantity, discount int) (*SaleReceipt, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, storageErr("begin sale", err)
	}
	defer tx.Rollback()

	member, err := findMember(tx, memberID)
	if err != nil {
		return nil, storageErr("lookup member", err)
	}
	book, err := findBook(tx, bookID)
	if err != nil {
		return nil, storageErr("lookup book", err)
	}
	if member == nil || book == nil {
		return nil, ErrUnknownReference
	}

	if quantity > book.Stock {
		return nil, &InsufficientStockError{BookID: book.ID, Stock: book.Stock, Requested: quantity}
	}

	// No floor at zero: a discount larger than the gross yields a negative total.
	total := book.Price*quantity - discount

	res, err := tx.Exec(`INSERT INTO sale(sdate,mid,bid,sqty,sdiscount,stotal) VALUES(?,?,?,?,?,?)`,
		date, member.ID, book.ID, quantity, discount, total)
	if err != nil {
		return nil, writeErr("insert sale", err)
	}
	saleID, err := res.LastInsertId()
	if err != nil {
		return nil, writeErr("sale id", err)
	}

	res, err = tx.Exec(`UPDATE book SET bstock = bstock - ? WHERE bid=? AND bstock >= ?`, quantity, book.ID, quantity)
	if err != nil {
		return nil, writeErr("decrement stock", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, writeErr("decrement stock", err)
	} else if n != 1 {
		return nil, writeErr("decrement stock", fmt.Errorf("book %s: %d rows updated", book.ID, n))
	}

	if err := tx.Commit(); err != nil {
		return nil, writeErr("commit sale", err)
	}

	return &SaleReceipt{
		Sale: Sale{
			ID:       saleID,
			Date:     date,
			MemberID: member.ID,
			BookID:   book.ID,
			Quantity: quantity,
			Discount: discount,
			Total:    total,
		},
		BookTitle:      book.Title,
		MemberName:     member.Name,
		RemainingStock: book.Stock - quantity,
	}, nil
}

// UpdateSaleDiscount replaces the discount of a sale and recomputes its total
// from the gross recorded with the sale, not from the current book price.
// Book stock is left as is.
func (d *Database) UpdateSaleDiscount(id int64, discount int) (before, after *Sale, err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, nil, storageErr("begin edit", err)
	}
	defer tx.Rollback()

	s, err := findSale(tx, id)
	if err != nil {
		return nil, nil, storageErr("lookup sale", err)
	}
	if s == nil {
		return nil, nil, fmt.Errorf("%w: sale %d", ErrNotFound, id)
	}

	updated := *s
	updated.Discount = discount
	updated.Total = s.Gross() - discount

	if _, err := tx.Exec(`UPDATE sale SET sdiscount=?, stotal=? WHERE sid=?`, updated.Discount, updated.Total, id); err != nil {
		return nil, nil, writeErr("update sale", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, writeErr("commit edit", err)
	}
	return s, &updated, nil
}

// DeleteSale removes a sale row. Book stock is not restored.
func (d *Database) DeleteSale(id int64) error {
	result, err := d.db.Exec(`DELETE FROM sale WHERE sid=?`, id)
	if err != nil {
		return writeErr("delete sale", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return writeErr("delete sale", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: sale %d", ErrNotFound, id)
	}
	return nil
}
