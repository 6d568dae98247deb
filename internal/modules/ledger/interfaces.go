package ledger

import "context"

// Settler is the external value-transfer mechanism a booking settles
// against. It must be all-or-nothing: debit payment from the payer,
// retain required, refund the surplus, or leave every balance
// untouched.
type Settler interface {
	SettleBooking(ctx context.Context, payer string, payment, required int64) error
}

// EventPublisher receives ledger state changes. Implementations must
// not block; a nil publisher disables events.
type EventPublisher interface {
	PublishRoomCreated(room Room)
	PublishRoomBooked(room Room, units, refund int64)
	PublishAdministrationTransferred(previous, next Address)
}
