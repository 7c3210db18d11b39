package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/services"
)

type CareerHandler struct {
	chat         services.CareerChatService
	labourMarket services.LabourMarketService
}

func NewCareerHandler(chat services.CareerChatService, labourMarket services.LabourMarketService) *CareerHandler {
	return &CareerHandler{chat: chat, labourMarket: labourMarket}
}

type chatRequest struct {
	Message string `json:"message"`
}

// POST /api/students/:id/career/chat
func (h *CareerHandler) Send(c *gin.Context) {
	householdID, err := householdFrom(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, err)
		return
	}
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid student id"))
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	reply, err := h.chat.Send(c.Request.Context(), householdID, studentID, req.Message)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondOK(c, gin.H{"message": reply})
}

// GET /api/students/:id/career/chat?limit=50
func (h *CareerHandler) History(c *gin.Context) {
	householdID, err := householdFrom(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, err)
		return
	}
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid student id"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	messages, err := h.chat.History(c.Request.Context(), householdID, studentID, limit)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondOK(c, gin.H{"messages": messages})
}

// GET /api/career/fields
func (h *CareerHandler) ListFields(c *gin.Context) {
	fields, err := h.labourMarket.ListFields(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{"fields": fields})
}

// GET /api/career/fields/:slug
func (h *CareerHandler) GetField(c *gin.Context) {
	field, err := h.labourMarket.Snapshot(c.Request.Context(), c.Param("slug"))
	if err != nil {
		RespondError(c, http.StatusNotFound, err)
		return
	}
	RespondOK(c, gin.H{"field": field})
}
