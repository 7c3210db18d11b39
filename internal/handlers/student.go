package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/requestdata"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/services"
)

type StudentHandler struct {
	svc services.StudentService
}

func NewStudentHandler(svc services.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

// householdFrom pulls the authenticated household out of the request
// context; the auth middleware guarantees it for protected routes.
func householdFrom(c *gin.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.HouseholdID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("not authenticated")
	}
	return rd.HouseholdID, nil
}

// POST /api/students
func (h *StudentHandler) Create(c *gin.Context) {
	householdID, err := householdFrom(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, err)
		return
	}
	var input services.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	student, err := h.svc.Create(c.Request.Context(), householdID, input)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"student": student})
}

// GET /api/students
func (h *StudentHandler) List(c *gin.Context) {
	householdID, err := householdFrom(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, err)
		return
	}
	students, err := h.svc.ListForHousehold(c.Request.Context(), householdID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{"students": students})
}

// GET /api/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
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
	student, err := h.svc.GetOwned(c.Request.Context(), householdID, studentID)
	if err != nil {
		RespondError(c, http.StatusNotFound, err)
		return
	}
	RespondOK(c, gin.H{"student": student})
}

// PATCH /api/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
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
	var input services.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	student, err := h.svc.Update(c.Request.Context(), householdID, studentID, input)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondOK(c, gin.H{"student": student})
}

// DELETE /api/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
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
	if err := h.svc.Delete(c.Request.Context(), householdID, studentID); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
