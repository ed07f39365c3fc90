package transactions

type TransactionPayload struct {
	MemberID *int    `form:"idMember" json:"idMember" validate:"omitempty,min=0"`
	BookID   *int    `form:"idBook" json:"idBook" validate:"omitempty,min=0"`
	Status   *string `form:"status" json:"status" validate:"omitempty,max=255"`
}
