package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/settleroom/settleroom/internal/ledger"
	"github.com/settleroom/settleroom/internal/middleware"
	"github.com/settleroom/settleroom/internal/models"
	"github.com/settleroom/settleroom/internal/service"
)

// EventHandler serves event lifecycle and the cross-room balance reads.
type EventHandler struct {
	events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type createEventRequest struct {
	Name      string   `json:"name" binding:"required"`
	MemberIDs []string `json:"member_ids"`
}

type eventMemberResponse struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Position int    `json:"position"`
}

type eventResponse struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Members   []eventMemberResponse `json:"members"`
	Version   int64                 `json:"version"`
	CreatedAt int64                 `json:"created_at"`
}

func newEventResponse(e *models.Event) eventResponse {
	members := make([]eventMemberResponse, len(e.Members))
	for i, m := range e.Members {
		members[i] = eventMemberResponse{UserID: m.UserID, Role: string(m.Role), Position: m.Position}
	}
	return eventResponse{
		ID:        e.ID,
		Name:      e.Name,
		Members:   members,
		Version:   e.Version,
		CreatedAt: e.CreatedAt,
	}
}

// Create creates an event with the caller as owner.
func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), middleware.UserID(c), req.Name, req.MemberIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newEventResponse(event))
}

// Get returns the event with its roster and attached rooms.
func (h *EventHandler) Get(c *gin.Context) {
	event, rooms, err := h.events.GetEvent(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	roomsOut := make([]roomResponse, len(rooms))
	for i, r := range rooms {
		roomsOut[i] = newRoomResponse(r)
	}
	c.JSON(http.StatusOK, gin.H{
		"event": newEventResponse(event),
		"rooms": roomsOut,
	})
}

// Delete removes the event; its rooms detach and keep their ledgers.
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.DeleteEvent(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Balances returns one net balance per event member.
func (h *EventHandler) Balances(c *gin.Context) {
	snapshot, err := h.events.Balances(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Transfers returns the simplified settlement plan for the event.
func (h *EventHandler) Transfers(c *gin.Context) {
	snapshot, transfers, err := h.events.Transfers(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if transfers == nil {
		transfers = []ledger.Transfer{}
	}
	c.JSON(http.StatusOK, gin.H{
		"event_id":  snapshot.EventID,
		"version":   snapshot.Version,
		"transfers": transfers,
	})
}
