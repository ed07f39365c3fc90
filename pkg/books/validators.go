package books

// title, author and categories are VARCHAR(255) columns on MySQL.

type CreateBookPayload struct {
	Title       *string `form:"title" json:"title" validate:"omitempty,max=255"`
	Author      *string `form:"author" json:"author" validate:"omitempty,max=255"`
	Description *string `form:"description" json:"description"`
	Categories  *string `form:"categories" json:"categories" validate:"omitempty,max=255"`
	Qty         *int    `form:"qty" json:"qty" validate:"omitempty,min=0"`
}

// UpdateBookPayload replaces every column; omitted fields are stored as null.
type UpdateBookPayload struct {
	Title       *string `form:"title" json:"title" validate:"omitempty,max=255"`
	Author      *string `form:"author" json:"author" validate:"omitempty,max=255"`
	Description *string `form:"description" json:"description"`
	Categories  *string `form:"categories" json:"categories" validate:"omitempty,max=255"`
	Qty         *int    `form:"qty" json:"qty" validate:"omitempty,min=0"`
	Booked      *int    `form:"booked" json:"booked" validate:"omitempty,min=0"`
}
