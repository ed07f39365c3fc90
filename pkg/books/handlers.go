package books

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
	messageCreated = "Book added successfully!"
	messageUpdated = "Book updated successfully!"
	messageDeleted = "Book deleted successfully!"
)

type store interface {
	CreateBook(ctx context.Context, book *models.Book) error
	ListBooks(ctx context.Context) ([]*models.Book, error)
	RetrieveBook(ctx context.Context, id int) (*models.Book, error)
	UpdateBook(ctx context.Context, book *models.Book) (bool, error)
	DeleteBook(ctx context.Context, id int) (bool, error)
}

type createResponse struct {
	Message string `json:"message"`
	BookID  int    `json:"bookId"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type handler struct {
	bookService store
	// strictNotFound turns misses on single-book routes into 404s instead of
	// a 200 with an empty body.
	strictNotFound bool
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:       params.Title,
		Author:      params.Author,
		Description: params.Description,
		Categories:  params.Categories,
		Qty:         params.Qty,
	}
	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, createResponse{messageCreated, book.ID}))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	books, err := h.bookService.ListBooks(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, books))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return h.missing(c, nil)
	}

	book, err := h.bookService.RetrieveBook(ctx, id)
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Book")) {
			return h.missing(c, nil)
		}
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return h.missing(c, messageResponse{messageUpdated})
	}

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		ID:          id,
		Title:       params.Title,
		Author:      params.Author,
		Description: params.Description,
		Categories:  params.Categories,
		Qty:         params.Qty,
		Booked:      params.Booked,
	}
	found, err := h.bookService.UpdateBook(ctx, book)
	if err != nil {
		return errors.WithStack(err)
	}
	if !found {
		return h.missing(c, messageResponse{messageUpdated})
	}

	return errors.WithStack(c.JSON(http.StatusOK, messageResponse{messageUpdated}))
}

func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return h.missing(c, messageResponse{messageDeleted})
	}

	found, err := h.bookService.DeleteBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}
	if !found {
		return h.missing(c, messageResponse{messageDeleted})
	}

	return errors.WithStack(c.JSON(http.StatusOK, messageResponse{messageDeleted}))
}

// missing answers a request for a book that doesn't exist: a 404 in strict
// mode, otherwise a 200 with the body the route would have returned anyway.
func (h *handler) missing(c echo.Context, body interface{}) error {
	if h.strictNotFound {
		return errcodes.NotFound("Book")
	}
	return errors.WithStack(c.JSON(http.StatusOK, body))
}
