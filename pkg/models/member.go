package models

import (
	"github.com/uptrace/bun"
)

type Member struct {
	bun.BaseModel `bun:"table:members,alias:m"`

	ID      int     `bun:"idMember,pk,autoincrement" json:"idMember"`
	Name    *string `bun:"name" json:"name"`
	Phone   *string `bun:"phone" json:"phone"`
	Email   *string `bun:"email" json:"email"`
	Address *string `bun:"address" json:"address"`
}
