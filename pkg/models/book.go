package models

import (
	"github.com/uptrace/bun"
)

// Book is a title held by the library. Qty is the number of copies available
// and Booked the number currently on loan; neither is derived from
// transactions.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID          int     `bun:"idBook,pk,autoincrement" json:"idBook"`
	Title       *string `bun:"title" json:"title"`
	Author      *string `bun:"author" json:"author"`
	Description *string `bun:"description" json:"description"`
	Categories  *string `bun:"categories" json:"categories"`
	Qty         *int    `bun:"qty" json:"qty"`
	Booked      *int    `bun:"booked" json:"booked"`
}
