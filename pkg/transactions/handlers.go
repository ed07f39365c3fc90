package transactions

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/libradesk/circulation/pkg/errcodes"
	"github.com/libradesk/circulation/pkg/models"
	"github.com/pkg/errors"
)

const (
	messageCreated = "Transaction added successfully!"
	messageUpdated = "Transaction updated successfully!"
	messageDeleted = "Transaction deleted successfully!"
)

type store interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	ListTransactions(ctx context.Context) ([]*models.Transaction, error)
	RetrieveTransaction(ctx context.Context, id int) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) (bool, error)
	DeleteTransaction(ctx context.Context, id int) (bool, error)
}

type createResponse struct {
	Message       string `json:"message"`
	TransactionID int    `json:"transactionId"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type handler struct {
	transactionService store
	strictNotFound     bool
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := TransactionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	txn := &models.Transaction{
		MemberID: params.MemberID,
		BookID:   params.BookID,
		Status:   params.Status,
	}
	if err := h.transactionService.CreateTransaction(ctx, txn); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, createResponse{messageCreated, txn.ID}))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	txns, err := h.transactionService.ListTransactions(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, txns))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return h.missing(c, nil)
	}

	txn, err := h.transactionService.RetrieveTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Transaction")) {
			return h.missing(c, nil)
		}
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, txn))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return h.missing(c, messageResponse{messageUpdated})
	}

	params := TransactionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	txn := &models.Transaction{
		ID:       id,
		MemberID: params.MemberID,
		BookID:   params.BookID,
		Status:   params.Status,
	}
	found, err := h.transactionService.UpdateTransaction(ctx, txn)
	if err != nil {
		return errors.WithStack(err)
	}
	if !found {
		return h.missing(c, messageResponse{messageUpdated})
	}

	return errors.WithStack(c.JSON(http.StatusOK, messageResponse{messageUpdated}))
}

func (h *handler) deleteTransaction(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return h.missing(c, messageResponse{messageDeleted})
	}

	found, err := h.transactionService.DeleteTransaction(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}
	if !found {
		return h.missing(c, messageResponse{messageDeleted})
	}

	return errors.WithStack(c.JSON(http.StatusOK, messageResponse{messageDeleted}))
}

func (h *handler) missing(c echo.Context, body interface{}) error {
	if h.strictNotFound {
		return errcodes.NotFound("Transaction")
	}
	return errors.WithStack(c.JSON(http.StatusOK, body))
}
