package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/services"
)

type AssignmentHandler struct {
	svc services.AssignmentService
}

func NewAssignmentHandler(svc services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

// GET /api/students/:id/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
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
	assignments, err := h.svc.ListForStudent(c.Request.Context(), householdID, studentID)
	if err != nil {
		RespondError(c, http.StatusNotFound, err)
		return
	}
	RespondOK(c, gin.H{"assignments": assignments})
}
