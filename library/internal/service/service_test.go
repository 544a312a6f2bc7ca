package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pfsquare/library-service/library/internal/errs"
	"github.com/pfsquare/library-service/library/internal/model"
	"github.com/pfsquare/library-service/library/internal/service"

	repo_mocks "github.com/pfsquare/library-service/library/internal/repository/mocks"
)

const graceDays = 14

func date(s string) model.Date {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return model.Date{Time: t}
}

func newService(t *testing.T) (*service.Service, *repo_mocks.MockRepository) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	repo := repo_mocks.NewMockRepository(c)
	return service.NewService(repo, zap.NewExample().Named("test"), graceDays), repo
}

func TestService_AddBook(t *testing.T) {
	t.Parallel()

	t.Run("normalizes number and name before insert", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)

		repo.EXPECT().
			CreateBook(context.Background(), model.Book{
				BookNumber: "B-102",
				Name:       "Dune",
				Author:     "Frank Herbert",
				Shelf:      "R-1-0",
				Category:   model.CategoryAdultFiction,
			}).
			Return(model.Book{ID: 1, BookNumber: "B-102", Name: "Dune"}, nil)

		book, err := svc.AddBook(context.Background(), model.CreateBookRequest{
			BookNumber: "  b-102 ",
			Name:       "  Dune  ",
			Author:     "Frank   Herbert",
			Shelf:      "R-1-0",
			Category:   model.CategoryAdultFiction,
		})
		require.NoError(t, err)
		require.Equal(t, "B-102", book.BookNumber)
	})

	t.Run("duplicate number is rejected", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)

		repo.EXPECT().
			CreateBook(context.Background(), gomock.Any()).
			Return(model.Book{}, errs.ErrDuplicateKey)

		_, err := svc.AddBook(context.Background(), model.CreateBookRequest{
			BookNumber: "B-102",
			Name:       "Dune",
			Shelf:      "R-1-0",
			Category:   model.CategoryAdultFiction,
		})
		require.ErrorIs(t, err, errs.ErrDuplicateKey)
	})

	t.Run("unknown category never reaches the store", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)

		_, err := svc.AddBook(context.Background(), model.CreateBookRequest{
			BookNumber: "B-102",
			Name:       "Dune",
			Shelf:      "R-1-0",
			Category:   model.Category("Cookbooks"),
		})
		require.ErrorIs(t, err, errs.ErrBadRequest)
	})

	t.Run("unknown shelf never reaches the store", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)

		_, err := svc.AddBook(context.Background(), model.CreateBookRequest{
			BookNumber: "B-102",
			Name:       "Dune",
			Shelf:      "basement",
			Category:   model.CategoryAdultFiction,
		})
		require.ErrorIs(t, err, errs.ErrBadRequest)
	})
}

func TestService_UpdateBook(t *testing.T) {
	t.Parallel()

	t.Run("renumber is normalized and collision-checked by the store", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)

		newNumber := "B-205"
		repo.EXPECT().
			UpdateBook(context.Background(), "B-102", model.UpdateBookRequest{BookNumber: &newNumber}).
			Return(model.Book{}, errs.ErrDuplicateKey)

		raw := " b-205 "
		_, err := svc.UpdateBook(context.Background(), "b-102", model.UpdateBookRequest{BookNumber: &raw})
		require.ErrorIs(t, err, errs.ErrDuplicateKey)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)

		_, err := svc.UpdateBook(context.Background(), "B-102", model.UpdateBookRequest{})
		require.ErrorIs(t, err, errs.ErrBadRequest)
	})
}

func TestService_IssueBook(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)
		issuedOn := date("2024-01-01")

		repo.EXPECT().
			GetBook(context.Background(), "B-102").
			Return(model.Book{ID: 1, BookNumber: "B-102", Name: "Dune", Shelf: "R-1-0"}, nil)
		repo.EXPECT().
			CreateLoan(context.Background(), model.Loan{
				BookNumber:   "B-102",
				BookName:     "Dune",
				BorrowerName: "Alice Smith",
				FlatNumber:   "A-101",
				IssuedOn:     issuedOn,
				DueOn:        issuedOn.AddDays(graceDays),
			}).
			Return(model.Loan{
				LoanUid:      "9b6f1f45-6a7e-44ad-9a3f-9a1763bde1ab",
				BookNumber:   "B-102",
				Status:       model.StatusIssued,
				IssuedOn:     issuedOn,
				DueOn:        issuedOn.AddDays(graceDays),
			}, nil)

		loan, err := svc.IssueBook(context.Background(), model.IssueBookRequest{
			BookNumber:   " b-102 ",
			BorrowerName: "Alice  Smith!",
			FlatNumber:   "a-101",
			IssuedOn:     issuedOn,
		})
		require.NoError(t, err)
		require.Equal(t, model.StatusIssued, loan.Status)
		require.Equal(t, issuedOn.AddDays(graceDays), loan.DueOn)
	})

	t.Run("book not in catalog short-circuits before any write", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)

		repo.EXPECT().
			GetBook(context.Background(), "B-999").
			Return(model.Book{}, errs.ErrNotFound)

		_, err := svc.IssueBook(context.Background(), model.IssueBookRequest{
			BookNumber:   "B-999",
			BorrowerName: "Bob",
			FlatNumber:   "B-204",
		})
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("second issue without return fails", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)

		repo.EXPECT().
			GetBook(context.Background(), "B-102").
			Return(model.Book{BookNumber: "B-102", Name: "Dune"}, nil)
		repo.EXPECT().
			CreateLoan(context.Background(), gomock.Any()).
			Return(model.Loan{}, errs.ErrAlreadyIssued)

		_, err := svc.IssueBook(context.Background(), model.IssueBookRequest{
			BookNumber:   "B-102",
			BorrowerName: "Bob",
			FlatNumber:   "B-204",
		})
		require.ErrorIs(t, err, errs.ErrAlreadyIssued)
	})

	t.Run("borrower that normalizes to empty is rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)

		_, err := svc.IssueBook(context.Background(), model.IssueBookRequest{
			BookNumber:   "B-102",
			BorrowerName: "!!!",
			FlatNumber:   "A-101",
		})
		require.ErrorIs(t, err, errs.ErrBadRequest)
	})
}

func TestService_ReturnBook(t *testing.T) {
	t.Parallel()

	t.Run("ok, round trip leaves the book issuable again", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)
		issuedOn := date("2024-01-01")
		returnedOn := date("2024-01-10")

		repo.EXPECT().
			GetOpenLoan(context.Background(), "B-102").
			Return(model.Loan{BookNumber: "B-102", Status: model.StatusIssued, IssuedOn: issuedOn}, nil)
		repo.EXPECT().
			CloseLoan(context.Background(), "B-102", returnedOn).
			Return(model.Loan{
				BookNumber: "B-102",
				Status:     model.StatusReturned,
				IssuedOn:   issuedOn,
				ReturnedOn: &returnedOn,
			}, nil)
		repo.EXPECT().
			HasOpenLoan(context.Background(), "B-102").
			Return(false, nil)

		loan, err := svc.ReturnBook(context.Background(), "b-102", returnedOn)
		require.NoError(t, err)
		require.Equal(t, model.StatusReturned, loan.Status)
		require.False(t, loan.ReturnedOn.Before(loan.IssuedOn.Time))

		issued, err := svc.IsIssued(context.Background(), "B-102")
		require.NoError(t, err)
		require.False(t, issued)
	})

	t.Run("no open loan", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)

		repo.EXPECT().
			GetOpenLoan(context.Background(), "B-102").
			Return(model.Loan{}, errs.ErrNotFound)

		_, err := svc.ReturnBook(context.Background(), "B-102", date("2024-01-10"))
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("return date before issue date is rejected before the write", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)

		repo.EXPECT().
			GetOpenLoan(context.Background(), "B-102").
			Return(model.Loan{BookNumber: "B-102", IssuedOn: date("2024-01-05")}, nil)

		_, err := svc.ReturnBook(context.Background(), "B-102", date("2024-01-01"))
		require.ErrorIs(t, err, errs.ErrBadRequest)
	})
}

func TestService_Defaulters(t *testing.T) {
	t.Parallel()

	t.Run("enriches overdue loans with shelf and days overdue", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)
		asOf := date("2024-01-20")

		repo.EXPECT().
			ListOverdue(gomock.Any(), asOf, graceDays).
			Return([]model.Loan{
				{BookNumber: "B-102", BookName: "Dune", IssuedOn: date("2024-01-01"), Status: model.StatusIssued},
			}, nil)
		repo.EXPECT().
			GetBook(gomock.Any(), "B-102").
			Return(model.Book{BookNumber: "B-102", Shelf: "R-1-0"}, nil)

		items, err := svc.Defaulters(context.Background(), asOf, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, "R-1-0", items[0].Shelf)
		// 19 days out on a 14 day grace period
		require.Equal(t, 5, items[0].DaysOverdue)
	})

	t.Run("book deleted from catalog still reported", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)
		asOf := date("2024-01-20")

		repo.EXPECT().
			ListOverdue(gomock.Any(), asOf, graceDays).
			Return([]model.Loan{
				{BookNumber: "B-102", BookName: "Dune", IssuedOn: date("2024-01-01"), Status: model.StatusIssued},
			}, nil)
		repo.EXPECT().
			GetBook(gomock.Any(), "B-102").
			Return(model.Book{}, errs.ErrNotFound)

		items, err := svc.Defaulters(context.Background(), asOf, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Empty(t, items[0].Shelf)
	})

	t.Run("negative grace period is rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)

		_, err := svc.Defaulters(context.Background(), date("2024-01-20"), -1)
		require.ErrorIs(t, err, errs.ErrBadRequest)
	})

	t.Run("repo failure surfaces", func(t *testing.T) {
		t.Parallel()
		svc, repo := newService(t)
		asOf := date("2024-01-20")

		repo.EXPECT().
			ListOverdue(gomock.Any(), asOf, 7).
			Return(nil, errors.New("db internal"))

		_, err := svc.Defaulters(context.Background(), asOf, 7)
		require.Error(t, err)
	})
}
