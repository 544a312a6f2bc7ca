package handler

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pfsquare/library-service/library/internal/model"
)

// CSV downloads mirror the spreadsheets the library used to live in.

func (h *Handler) ExportBooks(c echo.Context) error {
	books, err := h.librarySvc.SearchBooks(c.Request().Context(), "", model.SearchByName, 0, 0)
	if err != nil {
		return httpError(err)
	}

	rows := make([][]string, 0, len(books.Items)+1)
	rows = append(rows, []string{"Book Number", "Book Name", "Author", "Shelf", "Category"})
	for _, b := range books.Items {
		rows = append(rows, []string{b.BookNumber, b.Name, b.Author, b.Shelf, string(b.Category)})
	}
	return writeCSV(c, "books.csv", rows)
}

func (h *Handler) ExportLoans(c echo.Context) error {
	loans, err := h.librarySvc.ListLoans(c.Request().Context(), false, 0, 0)
	if err != nil {
		return httpError(err)
	}

	rows := make([][]string, 0, len(loans.Items)+1)
	rows = append(rows, []string{"Book Number", "Book Name", "Status", "Issued On", "Due On", "Returned On", "Borrower Name", "Flat Number"})
	for _, l := range loans.Items {
		returnedOn := ""
		if l.ReturnedOn != nil {
			returnedOn = l.ReturnedOn.Format(time.DateOnly)
		}
		rows = append(rows, []string{
			l.BookNumber,
			l.BookName,
			string(l.Status),
			l.IssuedOn.Format(time.DateOnly),
			l.DueOn.Format(time.DateOnly),
			returnedOn,
			l.BorrowerName,
			l.FlatNumber,
		})
	}
	return writeCSV(c, "loans.csv", rows)
}

func writeCSV(c echo.Context, filename string, rows [][]string) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
