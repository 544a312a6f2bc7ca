package model

import (
	"database/sql/driver"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type Category string

const (
	CategoryAdultFiction    Category = "Adult-Fiction"
	CategoryAdultNonFiction Category = "Adult-Non Fiction"
	CategoryChildren        Category = "Children's books"
	CategoryPhilosophy      Category = "Philosophy/Self-Help/Motivation"
	CategoryNonEnglish      Category = "Non-English books"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAdultFiction, CategoryAdultNonFiction, CategoryChildren,
		CategoryPhilosophy, CategoryNonEnglish:
		return true
	}
	return false
}

// shelfRe matches the rack location codes painted on the shelves (R-1-0 .. R-3-1).
var shelfRe = regexp.MustCompile(`^R-[0-9]+-[0-9]+$`)

func ValidShelf(s string) bool {
	return shelfRe.MatchString(s)
}

type Book struct {
	ID         int      `json:"-" db:"id"`
	BookNumber string   `json:"bookNumber" db:"book_number"`
	Name       string   `json:"name" db:"name"`
	Author     string   `json:"author" db:"author"`
	Shelf      string   `json:"shelf" db:"shelf"`
	Category   Category `json:"category" db:"category"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

// SearchField selects which book column a substring search scans.
type SearchField string

const (
	SearchByName     SearchField = "name"
	SearchByAuthor   SearchField = "author"
	SearchByNumber   SearchField = "number"
	SearchByCategory SearchField = "category"
)

func (f SearchField) Valid() bool {
	switch f {
	case SearchByName, SearchByAuthor, SearchByNumber, SearchByCategory:
		return true
	}
	return false
}

type Status string

const (
	StatusIssued   Status = "ISSUED"
	StatusReturned Status = "RETURNED"
)

type Loan struct {
	ID           int    `json:"-" db:"id"`
	LoanUid      string `json:"loanUid" db:"loan_uid"`
	BookNumber   string `json:"bookNumber" db:"book_number"`
	BookName     string `json:"bookName" db:"book_name"`
	BorrowerName string `json:"borrowerName" db:"borrower_name"`
	FlatNumber   string `json:"flatNumber" db:"flat_number"`
	Status       Status `json:"status" db:"status"`
	IssuedOn     Date   `json:"issuedOn" db:"issued_on"`
	DueOn        Date   `json:"dueOn" db:"due_on"`
	ReturnedOn   *Date  `json:"returnedOn,omitempty" db:"returned_on"`
}

type ListLoans struct {
	Paging `json:",inline"`
	Items  []Loan `json:"items"`
}

// Defaulter is one row of the overdue report: the open loan plus the shelf
// the book belongs back on.
type Defaulter struct {
	Loan        `json:",inline"`
	Shelf       string `json:"shelf,omitempty"`
	DaysOverdue int    `json:"daysOverdue"`
}

type CreateBookRequest struct {
	BookNumber string   `json:"bookNumber" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Author     string   `json:"author"`
	Shelf      string   `json:"shelf" validate:"required"`
	Category   Category `json:"category" validate:"required"`
}

// UpdateBookRequest carries a field-level patch; nil means "leave as is".
type UpdateBookRequest struct {
	BookNumber *string   `json:"bookNumber"`
	Name       *string   `json:"name"`
	Author     *string   `json:"author"`
	Shelf      *string   `json:"shelf"`
	Category   *Category `json:"category"`
}

func (r UpdateBookRequest) Empty() bool {
	return r.BookNumber == nil && r.Name == nil && r.Author == nil &&
		r.Shelf == nil && r.Category == nil
}

type IssueBookRequest struct {
	BookNumber   string `json:"bookNumber" validate:"required"`
	BorrowerName string `json:"borrowerName" validate:"required"`
	FlatNumber   string `json:"flatNumber" validate:"required"`
	IssuedOn     Date   `json:"issuedOn"`
}

type ReturnBookRequest struct {
	ReturnedOn Date `json:"returnedOn"`
}

// LoanEvent is published to the loan-events topic for the community stats
// dashboard.
type LoanEvent struct {
	Kind         string `json:"kind"` // issued | returned
	LoanUid      string `json:"loanUid,omitempty"`
	BookNumber   string `json:"bookNumber"`
	BorrowerName string `json:"borrowerName,omitempty"`
	On           Date   `json:"on"`
}

// Date is a calendar day. It travels as YYYY-MM-DD on the wire and maps to
// a DATE column.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	y, m, d := time.Now().UTC().Date()
	return NewDate(y, m, d)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return errors.Wrap(err, "date must be YYYY-MM-DD")
	}
	d.Time = t
	return nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case nil:
		return nil
	default:
		return errors.Errorf("cannot scan %T into Date", src)
	}
}

func (d Date) Value() (driver.Value, error) {
	return d.Format(time.DateOnly), nil
}

// AddDays is calendar arithmetic on whole days.
func (d Date) AddDays(days int) Date {
	return Date{Time: d.AddDate(0, 0, days)}
}

// DaysSince counts whole days elapsed from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.Time.Sub(other.Time) / (24 * time.Hour))
}

// NormalizeBookNumber canonicalizes a catalog number: surrounding space
// dropped, anything outside letters/digits/dash stripped, upper-cased.
// Uniqueness in the catalog is defined over this form.
func NormalizeBookNumber(s string) string {
	return strings.ToUpper(stripExcept(strings.TrimSpace(s), "-"))
}

// NormalizeFlat canonicalizes a flat number the same way ("a-101 " -> "A-101").
func NormalizeFlat(s string) string {
	return strings.ToUpper(stripExcept(strings.TrimSpace(s), "-"))
}

// NormalizeName keeps letters, digits, spaces and collapses runs of spaces.
func NormalizeName(s string) string {
	cleaned := stripExcept(strings.TrimSpace(s), " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

func stripExcept(s, keep string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		if strings.ContainsRune(keep, r) {
			return r
		}
		return -1
	}, s)
}
