package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/settleroom/settleroom/internal/middleware"
	"github.com/settleroom/settleroom/internal/models"
	"github.com/settleroom/settleroom/internal/service"
)

// SettlementHandler serves the submit/approve/reject workflow.
type SettlementHandler struct {
	settlements *service.SettlementService
}

func NewSettlementHandler(settlements *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlements: settlements}
}

type submitSettlementRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Method string  `json:"method" binding:"required"`
	Proof  string  `json:"proof"`
	Note   string  `json:"note"`
}

type resolveSettlementRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

type settlementResponse struct {
	ID         string  `json:"id"`
	RoomID     string  `json:"room_id"`
	PayerID    string  `json:"payer_id"`
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
	Proof      string  `json:"proof,omitempty"`
	Note       string  `json:"note,omitempty"`
	Status     string  `json:"status"`
	CreatedAt  int64   `json:"created_at"`
	ResolvedAt int64   `json:"resolved_at,omitempty"`
}

func newSettlementResponse(s *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:         s.ID,
		RoomID:     s.RoomID,
		PayerID:    s.PayerID,
		Amount:     s.Amount,
		Method:     s.Method,
		Proof:      s.Proof,
		Note:       s.Note,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		ResolvedAt: s.ResolvedAt,
	}
}

// Submit files a payment claim by the caller against their share.
func (h *SettlementHandler) Submit(c *gin.Context) {
	var req submitSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	settlement, err := h.settlements.Submit(c.Request.Context(), middleware.UserID(c), c.Param("id"), service.SubmitInput{
		Amount: req.Amount,
		Method: req.Method,
		Proof:  req.Proof,
		Note:   req.Note,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSettlementResponse(settlement))
}

// Resolve approves or rejects a pending settlement. Creator only.
func (h *SettlementHandler) Resolve(c *gin.Context) {
	var req resolveSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	settlement, err := h.settlements.Resolve(c.Request.Context(), middleware.UserID(c), c.Param("id"), *req.Approved)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSettlementResponse(settlement))
}

// ListByRoom returns the room's settlement history, newest first.
func (h *SettlementHandler) ListByRoom(c *gin.Context) {
	settlements, err := h.settlements.ListByRoom(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]settlementResponse, len(settlements))
	for i, s := range settlements {
		out[i] = newSettlementResponse(s)
	}
	c.JSON(http.StatusOK, gin.H{"settlements": out})
}
