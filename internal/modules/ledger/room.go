package ledger

// Address identifies a caller. Addresses are minted by the auth module
// at registration; the ledger only compares them.
type Address string

type Level string

const (
	LevelNormal  Level = "NORMAL"
	LevelPremium Level = "PREMIUM"
	LevelSuite   Level = "SUITE"
)

func (l Level) Valid() bool {
	switch l {
	case LevelNormal, LevelPremium, LevelSuite:
		return true
	}
	return false
}

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBooked    Status = "BOOKED"
)

// Room is one catalog entry. Index is assigned at creation and never
// reused; Status is the only field that changes afterwards.
type Room struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	PricePerUnit int64  `json:"price_per_unit"`
	Level        Level  `json:"level"`
	Status       Status `json:"status"`
}
