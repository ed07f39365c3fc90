package transactions

import (
	"context"
	"database/sql"
	"time"

	"github.com/libradesk/circulation/pkg/errcodes"
	"github.com/libradesk/circulation/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// The date column is set once on create and never rewritten.
var mutableColumns = []string{"idMember", "idBook", "status"}

type Service struct {
	db  *bun.DB
	now func() time.Time
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// CreateTransaction stamps the transaction with the current server time and
// inserts it. The referenced member and book are not looked up, and the
// book's booked count is left alone.
func (svc *Service) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	txn.Date = svc.now()

	_, err := svc.db.
		NewInsert().
		Model(txn).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	txns := []*models.Transaction{}

	err := svc.db.
		NewSelect().
		Model(&txns).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return txns, nil
}

func (svc *Service) RetrieveTransaction(ctx context.Context, id int) (*models.Transaction, error) {
	txn := &models.Transaction{}

	err := svc.db.
		NewSelect().
		Model(txn).
		Where("t.idTransaction = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Transaction")
		}
		return nil, errors.WithStack(err)
	}

	return txn, nil
}

// UpdateTransaction overwrites the member, book and status of txn.ID and
// reports whether the row exists.
func (svc *Service) UpdateTransaction(ctx context.Context, txn *models.Transaction) (bool, error) {
	res, err := svc.db.
		NewUpdate().
		Model(txn).
		Column(mutableColumns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return rowsAffected(res)
}

func (svc *Service) DeleteTransaction(ctx context.Context, id int) (bool, error) {
	res, err := svc.db.
		NewDelete().
		Model((*models.Transaction)(nil)).
		Where("idTransaction = ?", id).
		Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.WithStack(err)
	}
	return n > 0, nil
}
