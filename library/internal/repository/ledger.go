package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pfsquare/library-service/library/internal/errs"
	"github.com/pfsquare/library-service/library/internal/model"
)

const loanColumns = "id, loan_uid, book_number, book_name, borrower_name, flat_number, status, issued_on, due_on, returned_on"

// CreateLoan appends an ISSUED row. A partial unique index over open loans
// makes the insert itself the "at most one open loan per book" guard, so the
// check and the write cannot race.
func (r *repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	q, args, err := qb.Insert(loansTableName).
		Columns("loan_uid", "book_number", "book_name", "borrower_name", "flat_number", "status", "issued_on", "due_on").
		Values(uuid.New(), loan.BookNumber, loan.BookName, loan.BorrowerName, loan.FlatNumber, model.StatusIssued, loan.IssuedOn, loan.DueOn).
		Suffix("returning " + loanColumns).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var created model.Loan
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Loan{}, errs.ErrAlreadyIssued
		}
		r.log.Error("CreateLoan", zap.String("q", q), zap.Any("args", args))
		return model.Loan{}, err
	}
	return created, nil
}

// CloseLoan transitions the open loan for bookNumber to RETURNED in one
// statement; a loan never goes back to ISSUED.
func (r *repository) CloseLoan(ctx context.Context, bookNumber string, returnedOn model.Date) (model.Loan, error) {
	q := fmt.Sprintf(`update %s
	set status = 'RETURNED', returned_on = $2
	where book_number = $1 and status = 'ISSUED'
	returning %s`, loansTableName, loanColumns)

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, bookNumber, returnedOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) GetOpenLoan(ctx context.Context, bookNumber string) (model.Loan, error) {
	q, args, err := qb.Select(loanColumns).
		From(loansTableName).
		Where(sq.Eq{"book_number": bookNumber, "status": model.StatusIssued}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) HasOpenLoan(ctx context.Context, bookNumber string) (bool, error) {
	q := `
	select exists(
		select 1 from loans
		where book_number = $1 and status = 'ISSUED'
	)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, bookNumber).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) ListLoans(ctx context.Context, openOnly bool, page, size int) (model.ListLoans, error) {
	q := qb.Select(loanColumns).
		From(loansTableName).
		OrderBy("issued_on", "id")

	if openOnly {
		q = q.Where(sq.Eq{"status": model.StatusIssued})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return model.ListLoans{}, err
	}

	var loans []model.Loan
	if err := r.db.SelectContext(ctx, &loans, sqlStr, args...); err != nil {
		return model.ListLoans{}, err
	}

	return model.ListLoans{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(loans),
		},
		Items: loans,
	}, nil
}

// ListOverdue returns open loans strictly older than the grace period:
// issued exactly graceDays ago is still on time.
func (r *repository) ListOverdue(ctx context.Context, asOf model.Date, graceDays int) ([]model.Loan, error) {
	q := fmt.Sprintf(`
	select %s from %s
	where status = 'ISSUED' and issued_on < $1::date - $2::int
	order by issued_on, id`, loanColumns, loansTableName)

	var loans []model.Loan
	if err := r.db.SelectContext(ctx, &loans, q, asOf, graceDays); err != nil {
		return nil, err
	}
	return loans, nil
}
