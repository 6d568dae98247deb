package ledger

type CreateRoomRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	PricePerUnit int64  `json:"price_per_unit" binding:"gte=0"`
	Level        string `json:"level" binding:"required"`
}

type BookRoomRequest struct {
	Units   int64 `json:"units" binding:"required,gt=0"`
	Payment int64 `json:"payment" binding:"gte=0"`
}

type TransferAdministrationRequest struct {
	NewAdministrator string `json:"new_administrator" binding:"required"`
}
