package books

import (
	"context"
	"database/sql"

	"github.com/libradesk/circulation/pkg/errcodes"
	"github.com/libradesk/circulation/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// mutableColumns are overwritten in full by UpdateBook.
var mutableColumns = []string{"title", "author", "description", "categories", "qty", "booked"}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBook inserts the book with no copies on loan and sets book.ID to the
// assigned primary key.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	booked := 0
	book.Booked = &booked

	_, err := svc.db.
		NewInsert().
		Model(book).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) ListBooks(ctx context.Context) ([]*models.Book, error) {
	books := []*models.Book{}

	err := svc.db.
		NewSelect().
		Model(&books).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

func (svc *Service) RetrieveBook(ctx context.Context, id int) (*models.Book, error) {
	book := &models.Book{}

	err := svc.db.
		NewSelect().
		Model(book).
		Where("b.idBook = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// UpdateBook writes every mutable column of book, including nil ones, to the
// row with book.ID. It reports whether such a row existed.
func (svc *Service) UpdateBook(ctx context.Context, book *models.Book) (bool, error) {
	res, err := svc.db.
		NewUpdate().
		Model(book).
		Column(mutableColumns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return affected(res)
}

// DeleteBook reports whether a row was deleted.
func (svc *Service) DeleteBook(ctx context.Context, id int) (bool, error) {
	res, err := svc.db.
		NewDelete().
		Model((*models.Book)(nil)).
		Where("idBook = ?", id).
		Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.WithStack(err)
	}
	return n > 0, nil
}
