package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/pfsquare/library-service/library/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	// catalog
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, bookNumber string) (model.Book, error)
	ListBooks(ctx context.Context, query string, field model.SearchField, page, size int) (model.ListBooks, error)
	UpdateBook(ctx context.Context, bookNumber string, patch model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookNumber string) error

	// loan ledger
	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	CloseLoan(ctx context.Context, bookNumber string, returnedOn model.Date) (model.Loan, error)
	GetOpenLoan(ctx context.Context, bookNumber string) (model.Loan, error)
	HasOpenLoan(ctx context.Context, bookNumber string) (bool, error)
	ListLoans(ctx context.Context, openOnly bool, page, size int) (model.ListLoans, error)
	ListOverdue(ctx context.Context, asOf model.Date, graceDays int) ([]model.Loan, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName = `books`
	loansTableName = `loans`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
