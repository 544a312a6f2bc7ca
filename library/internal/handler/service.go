package handler

import (
	"context"

	"github.com/pfsquare/library-service/library/internal/model"
	"github.com/pfsquare/library-service/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	AddBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookNumber string) (model.Book, error)
	SearchBooks(ctx context.Context, query string, field model.SearchField, page, size int) (model.ListBooks, error)
	UpdateBook(ctx context.Context, bookNumber string, patch model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookNumber string) error

	IssueBook(ctx context.Context, req model.IssueBookRequest) (model.Loan, error)
	ReturnBook(ctx context.Context, bookNumber string, returnedOn model.Date) (model.Loan, error)
	IsIssued(ctx context.Context, bookNumber string) (bool, error)
	ListLoans(ctx context.Context, openOnly bool, page, size int) (model.ListLoans, error)
	Defaulters(ctx context.Context, asOf model.Date, graceDays int) ([]model.Defaulter, error)
}

var _ LibraryService = (*service.Service)(nil)
