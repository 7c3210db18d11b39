package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/services"
)

type LMSHandler struct {
	svc services.LMSSyncService
}

func NewLMSHandler(svc services.LMSSyncService) *LMSHandler {
	return &LMSHandler{svc: svc}
}

type connectRequest struct {
	BaseURL  string `json:"base_url"`
	APIToken string `json:"api_token"`
}

// POST /api/students/:id/lms
func (h *LMSHandler) Connect(c *gin.Context) {
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
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.Connect(c.Request.Context(), householdID, studentID, req.BaseURL, req.APIToken); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondOK(c, gin.H{"connected": true})
}

// POST /api/students/:id/lms/sync
func (h *LMSHandler) Sync(c *gin.Context) {
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
	result, err := h.svc.SyncStudent(c.Request.Context(), householdID, studentID)
	if err != nil {
		RespondError(c, http.StatusBadGateway, err)
		return
	}
	RespondOK(c, gin.H{"sync": result})
}
