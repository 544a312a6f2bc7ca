package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pfsquare/library-service/library/internal/errs"
	"github.com/pfsquare/library-service/library/internal/model"
)

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("book_number", "name", "author", "shelf", "category").
		Values(book.BookNumber, book.Name, book.Author, book.Shelf, book.Category).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var created model.Book
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Book{}, errs.ErrDuplicateKey
		}
		r.log.Error("CreateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, err
	}
	return created, nil
}

func (r *repository) GetBook(ctx context.Context, bookNumber string) (model.Book, error) {
	q, args, err := qb.Select("id", "book_number", "name", "author", "shelf", "category").
		From(booksTableName).
		Where(sq.Eq{"book_number": bookNumber}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

var searchColumns = map[model.SearchField]string{
	model.SearchByName:     "name",
	model.SearchByAuthor:   "author",
	model.SearchByNumber:   "book_number",
	model.SearchByCategory: "category",
}

func (r *repository) ListBooks(ctx context.Context, query string, field model.SearchField, page, size int) (model.ListBooks, error) {
	q := qb.Select("id", "book_number", "name", "author", "shelf", "category").
		From(booksTableName).
		OrderBy("book_number")

	// empty query matches everything; each call is a fresh scan
	if query != "" {
		q = q.Where(sq.ILike{searchColumns[field]: "%" + query + "%"})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", sqlStr), zap.Any("args", args))

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, sqlStr, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

func (r *repository) UpdateBook(ctx context.Context, bookNumber string, patch model.UpdateBookRequest) (model.Book, error) {
	upd := qb.Update(booksTableName).Where(sq.Eq{"book_number": bookNumber})
	if patch.BookNumber != nil {
		upd = upd.Set("book_number", *patch.BookNumber)
	}
	if patch.Name != nil {
		upd = upd.Set("name", *patch.Name)
	}
	if patch.Author != nil {
		upd = upd.Set("author", *patch.Author)
	}
	if patch.Shelf != nil {
		upd = upd.Set("shelf", *patch.Shelf)
	}
	if patch.Category != nil {
		upd = upd.Set("category", *patch.Category)
	}

	q, args, err := upd.Suffix("returning *").ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		// renaming onto an existing catalog number
		if isUniqueViolation(err) {
			return model.Book{}, errs.ErrDuplicateKey
		}
		r.log.Error("UpdateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) DeleteBook(ctx context.Context, bookNumber string) error {
	q, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"book_number": bookNumber}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
