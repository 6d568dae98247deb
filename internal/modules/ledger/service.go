package ledger

import (
	"context"
)

// BookingReceipt reports the settled amounts of a successful booking.
type BookingReceipt struct {
	RoomIndex int   `json:"room_index"`
	Units     int64 `json:"units"`
	Total     int64 `json:"total"`
	Refund    int64 `json:"refund"`
}

type Service struct {
	ledger  *Ledger
	settler Settler
	events  EventPublisher
}

func NewService(ledger *Ledger, settler Settler, events EventPublisher) *Service {
	return &Service{
		ledger:  ledger,
		settler: settler,
		events:  events,
	}
}

func (s *Service) CreateRoom(caller Address, req CreateRoomRequest) (Room, error) {
	index, err := s.ledger.CreateRoom(caller, req.Name, req.Description, req.PricePerUnit, Level(req.Level))
	if err != nil {
		return Room{}, err
	}

	room, err := s.ledger.Room(index)
	if err != nil {
		return Room{}, err
	}
	if s.events != nil {
		s.events.PublishRoomCreated(room)
	}
	return room, nil
}

func (s *Service) BookRoom(ctx context.Context, caller Address, index int, req BookRoomRequest) (*BookingReceipt, error) {
	refund, err := s.ledger.Book(index, req.Units, req.Payment, func(required int64) error {
		return s.settler.SettleBooking(ctx, string(caller), req.Payment, required)
	})
	if err != nil {
		return nil, err
	}

	room, err := s.ledger.Room(index)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.PublishRoomBooked(room, req.Units, refund)
	}
	return &BookingReceipt{
		RoomIndex: index,
		Units:     req.Units,
		Total:     req.Payment - refund,
		Refund:    refund,
	}, nil
}

func (s *Service) TransferAdministration(caller Address, req TransferAdministrationRequest) error {
	next := Address(req.NewAdministrator)
	if next == "" {
		return ErrValidation
	}
	if err := s.ledger.TransferAdministration(caller, next); err != nil {
		return err
	}
	if s.events != nil {
		s.events.PublishAdministrationTransferred(caller, next)
	}
	return nil
}

func (s *Service) GetRoom(index int) (Room, error) {
	return s.ledger.Room(index)
}

func (s *Service) ListRooms() []Room {
	return s.ledger.Rooms()
}

func (s *Service) RoomCount() int {
	return s.ledger.RoomCount()
}

func (s *Service) AvailableRooms() []int {
	return s.ledger.AvailableRooms()
}

func (s *Service) Administrator() Address {
	return s.ledger.Administrator()
}
