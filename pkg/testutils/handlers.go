package testutils

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/libradesk/circulation/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

// deleteAllDataResponse is the response body for wiping all tables.
type deleteAllDataResponse struct {
	Books        int `json:"books"`
	Members      int `json:"members"`
	Transactions int `json:"transactions"`
}

// deleteAllData deletes every book, member and transaction.
// DELETE /test/data.
func (h *handler) deleteAllData(c echo.Context) error {
	ctx := c.Request().Context()

	resp := deleteAllDataResponse{}
	err := h.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		resp.Transactions, err = deleteAll(ctx, tx, (*models.Transaction)(nil))
		if err != nil {
			return errors.Wrap(err, "failed to delete transactions")
		}
		resp.Members, err = deleteAll(ctx, tx, (*models.Member)(nil))
		if err != nil {
			return errors.Wrap(err, "failed to delete members")
		}
		resp.Books, err = deleteAll(ctx, tx, (*models.Book)(nil))
		if err != nil {
			return errors.Wrap(err, "failed to delete books")
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func deleteAll(ctx context.Context, tx bun.Tx, model interface{}) (int, error) {
	result, err := tx.NewDelete().
		Model(model).
		Where("1=1").
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	deleted, _ := result.RowsAffected()
	return int(deleted), nil
}
