package members

import (
	"github.com/libradesk/circulation/pkg/models"
)

// MemberPayload is used for both create and update. On update, omitted
// fields are stored as null.
type MemberPayload struct {
	Name    *string `form:"name" json:"name" validate:"omitempty,max=255"`
	Phone   *string `form:"phone" json:"phone" validate:"omitempty,max=255"`
	Email   *string `form:"email" json:"email" validate:"omitempty,max=255"`
	Address *string `form:"address" json:"address"`
}

func (p MemberPayload) toMember(id int) *models.Member {
	return &models.Member{
		ID:      id,
		Name:    p.Name,
		Phone:   p.Phone,
		Email:   p.Email,
		Address: p.Address,
	}
}
