package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/settleroom/settleroom/internal/middleware"
	"github.com/settleroom/settleroom/internal/models"
	"github.com/settleroom/settleroom/internal/service"
)

// RoomHandler serves room lifecycle and the creator's paid override.
type RoomHandler struct {
	rooms *service.RoomService
}

func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

type createRoomRequest struct {
	Name           string    `json:"name"`
	TotalAmount    float64   `json:"total_amount" binding:"required,gt=0"`
	SplitType      string    `json:"split_type" binding:"required"`
	ParticipantIDs []string  `json:"participant_ids" binding:"required,min=1"`
	CustomAmounts  []float64 `json:"custom_amounts"`
	EventID        string    `json:"event_id"`
}

type markPaidRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}

type shareResponse struct {
	UserID     string  `json:"user_id"`
	AmountOwed float64 `json:"amount_owed"`
	AmountPaid float64 `json:"amount_paid"`
	IsCreator  bool    `json:"is_creator"`
}

type roomResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	TotalAmount float64         `json:"total_amount"`
	SplitType   string          `json:"split_type"`
	CreatorID   string          `json:"creator_id"`
	EventID     string          `json:"event_id,omitempty"`
	Shares      []shareResponse `json:"shares"`
	CreatedAt   int64           `json:"created_at"`
}

type roomSummaryResponse struct {
	roomResponse
	IsSettled bool                          `json:"is_settled"`
	Pending   map[string]settlementResponse `json:"pending_settlements"`
}

func newRoomResponse(r *models.Room) roomResponse {
	shares := make([]shareResponse, len(r.Shares))
	for i, s := range r.Shares {
		shares[i] = shareResponse{
			UserID:     s.UserID,
			AmountOwed: s.AmountOwed,
			AmountPaid: s.AmountPaid,
			IsCreator:  s.IsCreator,
		}
	}
	return roomResponse{
		ID:          r.ID,
		Name:        r.Name,
		TotalAmount: r.TotalAmount,
		SplitType:   string(r.SplitType),
		CreatorID:   r.CreatorID,
		EventID:     r.EventID,
		Shares:      shares,
		CreatedAt:   r.CreatedAt,
	}
}

// Create creates a room with shares fixed per the split type.
func (h *RoomHandler) Create(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	room, err := h.rooms.CreateRoom(c.Request.Context(), middleware.UserID(c), service.CreateRoomInput{
		Name:           req.Name,
		TotalAmount:    req.TotalAmount,
		SplitType:      models.SplitType(req.SplitType),
		ParticipantIDs: req.ParticipantIDs,
		CustomAmounts:  req.CustomAmounts,
		EventID:        req.EventID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRoomResponse(room))
}

// Get returns the room with shares, settled flag, and pending settlements.
func (h *RoomHandler) Get(c *gin.Context) {
	summary, err := h.rooms.GetRoomSummary(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	pending := make(map[string]settlementResponse, len(summary.Pending))
	for payerID, st := range summary.Pending {
		pending[payerID] = newSettlementResponse(st)
	}
	c.JSON(http.StatusOK, roomSummaryResponse{
		roomResponse: newRoomResponse(summary.Room),
		IsSettled:    summary.IsSettled,
		Pending:      pending,
	})
}

// List returns every room the caller participates in.
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.rooms.ListRooms(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]roomResponse, len(rooms))
	for i, r := range rooms {
		out[i] = newRoomResponse(r)
	}
	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

// MarkPaid is the creator's override: it sets a participant's paid
// amount to their full owed amount, or back to zero.
func (h *RoomHandler) MarkPaid(c *gin.Context) {
	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	room, err := h.rooms.MarkParticipantPayment(
		c.Request.Context(),
		middleware.UserID(c),
		c.Param("id"),
		c.Param("userID"),
		*req.Paid,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponse(room))
}
