package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminAddr  Address = "addr-admin"
	clientAddr Address = "addr-client"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(adminAddr)
}

func TestCreateRoomAssignsSequentialIndices(t *testing.T) {
	l := newTestLedger(t)

	for i := 0; i < 3; i++ {
		index, err := l.CreateRoom(adminAddr, "Room", "desc", 100, LevelNormal)
		require.NoError(t, err)
		assert.Equal(t, i, index)
	}
	assert.Equal(t, 3, l.RoomCount())
}

func TestCreateRoomStoresAttributes(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.CreateRoom(adminAddr, "Room A", "A beautiful room", 100, LevelPremium)
	require.NoError(t, err)

	room, err := l.Room(0)
	require.NoError(t, err)
	assert.Equal(t, "Room A", room.Name)
	assert.Equal(t, "A beautiful room", room.Description)
	assert.Equal(t, int64(100), room.PricePerUnit)
	assert.Equal(t, LevelPremium, room.Level)
	assert.Equal(t, StatusAvailable, room.Status)
}

func TestCreateRoomRejectsNonAdministrator(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.CreateRoom(clientAddr, "Room B", "Another room", 200, LevelNormal)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 0, l.RoomCount())
}

func TestCreateRoomRejectsUnknownLevel(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.CreateRoom(adminAddr, "Room", "desc", 100, Level("PENTHOUSE"))
	assert.ErrorIs(t, err, ErrInvalidLevel)
	assert.Equal(t, 0, l.RoomCount())
}

func TestCreateRoomRejectsNegativePrice(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.CreateRoom(adminAddr, "Room", "desc", -1, LevelNormal)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRoomOutOfRange(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Room(0)
	assert.ErrorIs(t, err, ErrRoomNotExists)

	_, err = l.Room(-1)
	assert.ErrorIs(t, err, ErrRoomNotExists)
}

func TestBookNonExistentRoom(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Book(99, 2, 200, nil)
	assert.ErrorIs(t, err, ErrRoomNotExists)
}

func TestBookFlipsStatusAndRefundsSurplus(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateRoom(adminAddr, "Room A", "A beautiful room", 100, LevelNormal)
	require.NoError(t, err)

	// price 100 x 3 units = 300; paying 500 refunds 200.
	refund, err := l.Book(0, 3, 500, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(200), refund)

	room, err := l.Room(0)
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, room.Status)
}

func TestBookExactPaymentRefundsNothing(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateRoom(adminAddr, "Room A", "desc", 100, LevelNormal)
	require.NoError(t, err)

	refund, err := l.Book(0, 3, 300, nil)
	require.NoError(t, err)
	assert.Zero(t, refund)
}

func TestBookTwiceFailsWithNotAvailable(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateRoom(adminAddr, "Room A", "desc", 100, LevelNormal)
	require.NoError(t, err)

	_, err = l.Book(0, 1, 100, nil)
	require.NoError(t, err)

	_, err = l.Book(0, 1, 100, nil)
	assert.ErrorIs(t, err, ErrRoomNotAvailable)
}

func TestBookInsufficientPayment(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateRoom(adminAddr, "Room A", "desc", 100, LevelNormal)
	require.NoError(t, err)

	_, err = l.Book(0, 3, 200, nil)
	assert.ErrorIs(t, err, ErrInvalidPayment)

	room, err := l.Room(0)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, room.Status)
}

func TestBookPreconditionOrder(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateRoom(adminAddr, "Room A", "desc", 100, LevelNormal)
	require.NoError(t, err)
	_, err = l.Book(0, 1, 100, nil)
	require.NoError(t, err)

	// Missing room wins over any payment problem.
	_, err = l.Book(5, 1, 0, nil)
	assert.ErrorIs(t, err, ErrRoomNotExists)

	// Availability is checked before payment sufficiency.
	_, err = l.Book(0, 1, 0, nil)
	assert.ErrorIs(t, err, ErrRoomNotAvailable)
}

func TestBookValidatesUnitsAndPayment(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateRoom(adminAddr, "Room A", "desc", 100, LevelNormal)
	require.NoError(t, err)

	_, err = l.Book(0, 0, 100, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = l.Book(0, -1, 100, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = l.Book(0, 1, -1, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBookOverflowFailsClosed(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateRoom(adminAddr, "Room A", "desc", math.MaxInt64, LevelNormal)
	require.NoError(t, err)

	_, err = l.Book(0, 2, math.MaxInt64, nil)
	assert.ErrorIs(t, err, ErrInvalidPayment)

	room, err := l.Room(0)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, room.Status)
}

func TestBookZeroPriceRoom(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateRoom(adminAddr, "Free Room", "desc", 0, LevelNormal)
	require.NoError(t, err)

	refund, err := l.Book(0, 2, 0, nil)
	require.NoError(t, err)
	assert.Zero(t, refund)
}

func TestBookRollsBackWhenSettleFails(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateRoom(adminAddr, "Room A", "desc", 100, LevelNormal)
	require.NoError(t, err)

	settleErr := errors.New("transfer rejected")
	_, err = l.Book(0, 1, 100, func(required int64) error {
		assert.Equal(t, int64(100), required)
		return settleErr
	})
	assert.ErrorIs(t, err, settleErr)

	room, err := l.Room(0)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, room.Status)
	assert.Equal(t, []int{0}, l.AvailableRooms())
}

func TestAvailableRoomsTracksBookings(t *testing.T) {
	l := newTestLedger(t)
	for i := 0; i < 4; i++ {
		_, err := l.CreateRoom(adminAddr, "Room", "desc", 100, LevelNormal)
		require.NoError(t, err)
	}

	assert.Equal(t, []int{0, 1, 2, 3}, l.AvailableRooms())

	_, err := l.Book(0, 1, 100, nil)
	require.NoError(t, err)
	_, err = l.Book(2, 1, 100, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, l.AvailableRooms())
	assert.Equal(t, 4, l.RoomCount())
}

func TestTransferAdministration(t *testing.T) {
	l := newTestLedger(t)

	err := l.TransferAdministration(clientAddr, clientAddr)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, l.TransferAdministration(adminAddr, clientAddr))
	assert.Equal(t, clientAddr, l.Administrator())

	// The old administrator lost the gate with the transfer.
	_, err = l.CreateRoom(adminAddr, "Room", "desc", 100, LevelNormal)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = l.CreateRoom(clientAddr, "Room", "desc", 100, LevelNormal)
	assert.NoError(t, err)
}

func TestConcurrentBookingsOnlyOneSucceeds(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateRoom(adminAddr, "Room A", "desc", 100, LevelNormal)
	require.NoError(t, err)

	const attempts = 16
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := l.Book(0, 1, 100, nil)
			results <- err
		}()
	}

	var ok, unavailable int
	for i := 0; i < attempts; i++ {
		err := <-results
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrRoomNotAvailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, unavailable)
}

func TestRoomsReturnsSnapshot(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateRoom(adminAddr, "Room A", "desc", 100, LevelNormal)
	require.NoError(t, err)

	rooms := l.Rooms()
	require.Len(t, rooms, 1)
	rooms[0].Status = StatusBooked

	room, err := l.Room(0)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, room.Status)
}
