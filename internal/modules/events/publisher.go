package events

import (
	"time"

	"roomledger/internal/modules/ledger"
)

const (
	TypeRoomCreated               = "room_created"
	TypeRoomBooked                = "room_booked"
	TypeAdministrationTransferred = "administration_transferred"
)

type Event struct {
	Type string         `json:"type"`
	At   time.Time      `json:"at"`
	Data map[string]any `json:"data"`
}

// Publisher adapts the hub to the ledger's event interface.
type Publisher struct {
	hub *Hub
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

func (p *Publisher) PublishRoomCreated(room ledger.Room) {
	p.hub.Broadcast(Event{
		Type: TypeRoomCreated,
		At:   time.Now().UTC(),
		Data: map[string]any{
			"index":          room.Index,
			"name":           room.Name,
			"price_per_unit": room.PricePerUnit,
			"level":          room.Level,
		},
	})
}

func (p *Publisher) PublishRoomBooked(room ledger.Room, units, refund int64) {
	p.hub.Broadcast(Event{
		Type: TypeRoomBooked,
		At:   time.Now().UTC(),
		Data: map[string]any{
			"index":  room.Index,
			"units":  units,
			"refund": refund,
			"status": room.Status,
		},
	})
}

func (p *Publisher) PublishAdministrationTransferred(previous, next ledger.Address) {
	p.hub.Broadcast(Event{
		Type: TypeAdministrationTransferred,
		At:   time.Now().UTC(),
		Data: map[string]any{
			"previous": previous,
			"next":     next,
		},
	})
}
