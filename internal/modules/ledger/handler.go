package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roomledger/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read-only catalog queries.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rooms := rg.Group("/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.GET("/count", h.RoomCount)
		rooms.GET("/available", h.AvailableRooms)
		rooms.GET("/:index", h.GetRoom)
	}
	rg.GET("/ledger/administrator", h.Administrator)
}

// RegisterProtectedRoutes mounts the mutating operations; the group is
// expected to carry the auth middleware.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/rooms", h.CreateRoom)
	rg.POST("/rooms/:index/book", h.BookRoom)
	rg.POST("/ledger/transfer", h.TransferAdministration)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	room, err := h.service.CreateRoom(callerAddress(c), req)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"room": room})
}

func (h *Handler) BookRoom(c *gin.Context) {
	index, ok := roomIndex(c)
	if !ok {
		return
	}

	var req BookRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	receipt, err := h.service.BookRoom(c.Request.Context(), callerAddress(c), index, req)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": receipt})
}

func (h *Handler) TransferAdministration(c *gin.Context) {
	var req TransferAdministrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.TransferAdministration(callerAddress(c), req); err != nil {
		writeLedgerError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"administrator": h.service.Administrator()})
}

func (h *Handler) GetRoom(c *gin.Context) {
	index, ok := roomIndex(c)
	if !ok {
		return
	}

	room, err := h.service.GetRoom(index)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"room": room})
}

func (h *Handler) ListRooms(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"rooms": h.service.ListRooms()})
}

func (h *Handler) RoomCount(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"count": h.service.RoomCount()})
}

func (h *Handler) AvailableRooms(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"available": h.service.AvailableRooms()})
}

func (h *Handler) Administrator(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"administrator": h.service.Administrator()})
}

func callerAddress(c *gin.Context) Address {
	return Address(c.GetString("address"))
}

func roomIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Room index must be an integer")
		return 0, false
	}
	return index, true
}

func writeLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusForbidden, "UNAUTHORIZED", "Caller is not the administrator")
	case errors.Is(err, ErrRoomNotExists):
		response.Error(c, http.StatusNotFound, "ROOM_NOT_FOUND", "Room does not exist")
	case errors.Is(err, ErrRoomNotAvailable):
		response.Error(c, http.StatusConflict, "ROOM_NOT_AVAILABLE", "Room is already booked")
	case errors.Is(err, ErrInvalidPayment):
		response.Error(c, http.StatusPaymentRequired, "INVALID_PAYMENT", "Payment does not cover the required amount")
	case errors.Is(err, ErrInvalidLevel):
		response.Error(c, http.StatusBadRequest, "INVALID_LEVEL", "Unknown room level")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case errors.Is(err, ErrInsufficientFunds):
		response.Error(c, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS", "Wallet balance cannot cover the payment")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
