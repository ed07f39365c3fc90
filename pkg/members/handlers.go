package members

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
	messageCreated = "Member added successfully!"
	messageUpdated = "Member updated successfully!"
	messageDeleted = "Member deleted successfully!"
)

type store interface {
	CreateMember(ctx context.Context, member *models.Member) error
	ListMembers(ctx context.Context) ([]*models.Member, error)
	RetrieveMember(ctx context.Context, id int) (*models.Member, error)
	UpdateMember(ctx context.Context, member *models.Member) (bool, error)
	DeleteMember(ctx context.Context, id int) (bool, error)
}

type createResponse struct {
	Message  string `json:"message"`
	MemberID int    `json:"memberId"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type handler struct {
	memberService  store
	strictNotFound bool
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := MemberPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	member := params.toMember(0)
	if err := h.memberService.CreateMember(ctx, member); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, createResponse{messageCreated, member.ID}))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	members, err := h.memberService.ListMembers(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, members))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return h.missing(c, nil)
	}

	member, err := h.memberService.RetrieveMember(ctx, id)
	if errors.Is(err, errcodes.NotFound("Member")) {
		return h.missing(c, nil)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, member))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return h.missing(c, messageResponse{messageUpdated})
	}

	params := MemberPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	found, err := h.memberService.UpdateMember(ctx, params.toMember(id))
	if err != nil {
		return errors.WithStack(err)
	}
	if !found {
		return h.missing(c, messageResponse{messageUpdated})
	}

	return errors.WithStack(c.JSON(http.StatusOK, messageResponse{messageUpdated}))
}

func (h *handler) deleteMember(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return h.missing(c, messageResponse{messageDeleted})
	}

	found, err := h.memberService.DeleteMember(ctx, id)
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
		return errcodes.NotFound("Member")
	}
	return errors.WithStack(c.JSON(http.StatusOK, body))
}
