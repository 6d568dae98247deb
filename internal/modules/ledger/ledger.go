package ledger

import (
	"math"
	"sync"
)

// SettleFunc moves the payment for a booking: it must debit the payer,
// retain the required amount and refund the surplus as one atomic
// transfer. A non-nil return aborts the booking before any room state
// changes.
type SettleFunc func(required int64) error

// Ledger is the room catalog state machine. Rooms are append-only and
// indexed densely from zero; a single administrator gates catalog
// mutation. One mutex serializes every operation, so a booking's
// precondition checks, settlement and status flip happen as a unit and
// two bookings of the same room cannot both succeed.
type Ledger struct {
	mu    sync.Mutex
	admin Address
	rooms []Room
}

func New(admin Address) *Ledger {
	return &Ledger{admin: admin}
}

// CreateRoom appends a room with status AVAILABLE and returns its
// index. Administrator only.
func (l *Ledger) CreateRoom(caller Address, name, description string, pricePerUnit int64, level Level) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.admin {
		return 0, ErrUnauthorized
	}
	if !level.Valid() {
		return 0, ErrInvalidLevel
	}
	if pricePerUnit < 0 {
		return 0, ErrValidation
	}

	index := len(l.rooms)
	l.rooms = append(l.rooms, Room{
		Index:        index,
		Name:         name,
		Description:  description,
		PricePerUnit: pricePerUnit,
		Level:        level,
		Status:       StatusAvailable,
	})
	return index, nil
}

// TransferAdministration replaces the administrator. The check runs
// against the administrator at call time, so a transferred address
// loses the gate immediately.
func (l *Ledger) TransferAdministration(caller, next Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.admin {
		return ErrUnauthorized
	}
	l.admin = next
	return nil
}

// Book reserves a room for the given number of units. Preconditions
// are checked in order (existence, availability, payment sufficiency)
// before any effect; settle runs inside the same critical section and
// the status flips to BOOKED only after it succeeds. Returns the
// surplus refunded to the caller.
func (l *Ledger) Book(index int, units, payment int64, settle SettleFunc) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if units <= 0 || payment < 0 {
		return 0, ErrValidation
	}
	if index < 0 || index >= len(l.rooms) {
		return 0, ErrRoomNotExists
	}
	room := &l.rooms[index]
	if room.Status != StatusAvailable {
		return 0, ErrRoomNotAvailable
	}
	required, err := requiredAmount(room.PricePerUnit, units)
	if err != nil {
		return 0, err
	}
	if payment < required {
		return 0, ErrInvalidPayment
	}

	if settle != nil {
		if err := settle(required); err != nil {
			return 0, err
		}
	}
	room.Status = StatusBooked
	return payment - required, nil
}

// requiredAmount computes pricePerUnit*units, failing closed on
// overflow: no representable payment could cover such an amount.
func requiredAmount(pricePerUnit, units int64) (int64, error) {
	if pricePerUnit != 0 && units > math.MaxInt64/pricePerUnit {
		return 0, ErrInvalidPayment
	}
	return pricePerUnit * units, nil
}

// Room returns a copy of the catalog entry at index.
func (l *Ledger) Room(index int) (Room, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.rooms) {
		return Room{}, ErrRoomNotExists
	}
	return l.rooms[index], nil
}

// Rooms returns a snapshot of the whole catalog in index order.
func (l *Ledger) Rooms() []Room {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Room, len(l.rooms))
	copy(out, l.rooms)
	return out
}

func (l *Ledger) RoomCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.rooms)
}

// AvailableRooms returns the indices of AVAILABLE rooms in ascending
// order, recomputed on every call.
func (l *Ledger) AvailableRooms() []int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]int, 0, len(l.rooms))
	for i := range l.rooms {
		if l.rooms[i].Status == StatusAvailable {
			out = append(out, i)
		}
	}
	return out
}

func (l *Ledger) Administrator() Address {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.admin
}
