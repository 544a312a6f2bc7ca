package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pfsquare/library-service/library/internal/errs"
	"github.com/pfsquare/library-service/library/internal/model"
	libraryRepo "github.com/pfsquare/library-service/library/internal/repository"
)

// Service is the lending-rules layer: the one place where the catalog
// invariant (unique book number) and the ledger invariant (at most one open
// loan per book) are checked together before anything is written. Every
// precondition failure short-circuits before the single store write.
type Service struct {
	log       *zap.Logger
	repo      libraryRepo.Repository
	graceDays int
}

func NewService(repo libraryRepo.Repository, log *zap.Logger, graceDays int) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		graceDays: graceDays,
	}
}

func (s *Service) AddBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	book := model.Book{
		BookNumber: model.NormalizeBookNumber(req.BookNumber),
		Name:       model.NormalizeName(req.Name),
		Author:     model.NormalizeName(req.Author),
		Shelf:      req.Shelf,
		Category:   req.Category,
	}
	if book.BookNumber == "" || book.Name == "" {
		return model.Book{}, errors.Wrap(errs.ErrBadRequest, "book number and name are required")
	}
	if !book.Category.Valid() {
		return model.Book{}, errors.Wrap(errs.ErrBadRequest, "unknown category")
	}
	if !model.ValidShelf(book.Shelf) {
		return model.Book{}, errors.Wrap(errs.ErrBadRequest, "unknown shelf code")
	}
	return s.repo.CreateBook(ctx, book)
}

func (s *Service) GetBook(ctx context.Context, bookNumber string) (model.Book, error) {
	return s.repo.GetBook(ctx, model.NormalizeBookNumber(bookNumber))
}

func (s *Service) SearchBooks(ctx context.Context, query string, field model.SearchField, page, size int) (model.ListBooks, error) {
	if field == "" {
		field = model.SearchByName
	}
	if !field.Valid() {
		return model.ListBooks{}, errors.Wrap(errs.ErrBadRequest, "unknown search field")
	}
	return s.repo.ListBooks(ctx, query, field, page, size)
}

func (s *Service) UpdateBook(ctx context.Context, bookNumber string, patch model.UpdateBookRequest) (model.Book, error) {
	if patch.Empty() {
		return model.Book{}, errors.Wrap(errs.ErrBadRequest, "empty patch")
	}
	if patch.BookNumber != nil {
		normalized := model.NormalizeBookNumber(*patch.BookNumber)
		if normalized == "" {
			return model.Book{}, errors.Wrap(errs.ErrBadRequest, "book number must not be empty")
		}
		patch.BookNumber = &normalized
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return model.Book{}, errors.Wrap(errs.ErrBadRequest, "unknown category")
	}
	if patch.Shelf != nil && !model.ValidShelf(*patch.Shelf) {
		return model.Book{}, errors.Wrap(errs.ErrBadRequest, "unknown shelf code")
	}
	return s.repo.UpdateBook(ctx, model.NormalizeBookNumber(bookNumber), patch)
}

func (s *Service) DeleteBook(ctx context.Context, bookNumber string) error {
	return s.repo.DeleteBook(ctx, model.NormalizeBookNumber(bookNumber))
}

// IssueBook creates an open loan for a catalog book. The catalog lookup
// both validates the number and supplies the name denormalized into the
// ledger row, so the loan survives later catalog edits.
func (s *Service) IssueBook(ctx context.Context, req model.IssueBookRequest) (model.Loan, error) {
	bookNumber := model.NormalizeBookNumber(req.BookNumber)
	borrower := model.NormalizeName(req.BorrowerName)
	flat := model.NormalizeFlat(req.FlatNumber)
	if borrower == "" || flat == "" {
		return model.Loan{}, errors.Wrap(errs.ErrBadRequest, "borrower name and flat number are required")
	}

	book, err := s.repo.GetBook(ctx, bookNumber)
	if err != nil {
		return model.Loan{}, err
	}

	issuedOn := req.IssuedOn
	if issuedOn.IsZero() {
		issuedOn = model.Today()
	}

	loan, err := s.repo.CreateLoan(ctx, model.Loan{
		BookNumber:   book.BookNumber,
		BookName:     book.Name,
		BorrowerName: borrower,
		FlatNumber:   flat,
		IssuedOn:     issuedOn,
		DueOn:        issuedOn.AddDays(s.graceDays),
	})
	if err != nil {
		return model.Loan{}, err
	}
	s.log.Info("book issued",
		zap.String("bookNumber", loan.BookNumber),
		zap.String("borrower", loan.BorrowerName))
	return loan, nil
}

// ReturnBook closes the open loan for bookNumber. A closed loan keeps its
// row; re-issuing the same book later creates a fresh one.
func (s *Service) ReturnBook(ctx context.Context, bookNumber string, returnedOn model.Date) (model.Loan, error) {
	bookNumber = model.NormalizeBookNumber(bookNumber)
	if returnedOn.IsZero() {
		returnedOn = model.Today()
	}

	open, err := s.repo.GetOpenLoan(ctx, bookNumber)
	if err != nil {
		return model.Loan{}, err
	}
	if returnedOn.Before(open.IssuedOn.Time) {
		return model.Loan{}, errors.Wrap(errs.ErrBadRequest, "return date precedes issue date")
	}

	loan, err := s.repo.CloseLoan(ctx, bookNumber, returnedOn)
	if err != nil {
		return model.Loan{}, err
	}
	s.log.Info("book returned",
		zap.String("bookNumber", loan.BookNumber),
		zap.String("borrower", loan.BorrowerName))
	return loan, nil
}

func (s *Service) IsIssued(ctx context.Context, bookNumber string) (bool, error) {
	return s.repo.HasOpenLoan(ctx, model.NormalizeBookNumber(bookNumber))
}

func (s *Service) ListLoans(ctx context.Context, openOnly bool, page, size int) (model.ListLoans, error) {
	return s.repo.ListLoans(ctx, openOnly, page, size)
}

// Defaulters builds the overdue report: open loans past the grace period,
// enriched with the shelf each book belongs back on. graceDays == 0 means
// the configured default.
func (s *Service) Defaulters(ctx context.Context, asOf model.Date, graceDays int) ([]model.Defaulter, error) {
	if graceDays == 0 {
		graceDays = s.graceDays
	}
	if graceDays < 0 {
		return nil, errors.Wrap(errs.ErrBadRequest, "graceDays must not be negative")
	}
	if asOf.IsZero() {
		asOf = model.Today()
	}

	loans, err := s.repo.ListOverdue(ctx, asOf, graceDays)
	if err != nil {
		return nil, err
	}

	shelves := make([]string, len(loans))
	gg, ctx := errgroup.WithContext(ctx)
	for i := range loans {
		i := i
		gg.Go(func() error {
			book, err := s.repo.GetBook(ctx, loans[i].BookNumber)
			if err != nil {
				// the catalog entry may have been deleted since the loan
				if errors.Is(err, errs.ErrNotFound) {
					return nil
				}
				return err
			}
			shelves[i] = book.Shelf
			return nil
		})
	}
	if err := gg.Wait(); err != nil {
		return nil, err
	}

	items := make([]model.Defaulter, 0, len(loans))
	for i := range loans {
		items = append(items, model.Defaulter{
			Loan:        loans[i],
			Shelf:       shelves[i],
			DaysOverdue: asOf.DaysSince(loans[i].IssuedOn) - graceDays,
		})
	}
	return items, nil
}
