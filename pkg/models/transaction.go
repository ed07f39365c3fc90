package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Transaction records a member borrowing or returning a book. MemberID and
// BookID are not checked against existing rows, and Status is free-form
// (typically "borrowed" or "returned").
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID       int       `bun:"idTransaction,pk,autoincrement" json:"idTransaction"`
	Date     time.Time `bun:"date" json:"date"`
	MemberID *int      `bun:"idMember" json:"idMember"`
	BookID   *int      `bun:"idBook" json:"idBook"`
	Status   *string   `bun:"status" json:"status"`
}
