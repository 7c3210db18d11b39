package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/services"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

var timeNow = time.Now

type MilestoneHandler struct {
	students   services.StudentService
	milestones services.MilestoneService
	planner    services.PlannerService
}

func NewMilestoneHandler(students services.StudentService, milestones services.MilestoneService, planner services.PlannerService) *MilestoneHandler {
	return &MilestoneHandler{students: students, milestones: milestones, planner: planner}
}

func (h *MilestoneHandler) ownedStudent(c *gin.Context) (uuid.UUID, bool) {
	householdID, err := householdFrom(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, err)
		return uuid.Nil, false
	}
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid student id"))
		return uuid.Nil, false
	}
	if _, err := h.students.GetOwned(c.Request.Context(), householdID, studentID); err != nil {
		RespondError(c, http.StatusNotFound, err)
		return uuid.Nil, false
	}
	return studentID, true
}

// POST /api/students/:id/assignments/:assignmentID/plan
func (h *MilestoneHandler) GeneratePlan(c *gin.Context) {
	studentID, ok := h.ownedStudent(c)
	if !ok {
		return
	}
	assignmentID, err := uuid.Parse(c.Param("assignmentID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid assignment id"))
		return
	}
	milestones, err := h.planner.GeneratePlan(c.Request.Context(), studentID, assignmentID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondOK(c, gin.H{"milestones": milestones})
}

// GET /api/students/:id/assignments/:assignmentID/plan
func (h *MilestoneHandler) ListPlan(c *gin.Context) {
	studentID, ok := h.ownedStudent(c)
	if !ok {
		return
	}
	assignmentID, err := uuid.Parse(c.Param("assignmentID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid assignment id"))
		return
	}
	milestones, err := h.milestones.ListForAssignment(c.Request.Context(), studentID, assignmentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{"milestones": milestones})
}

// DELETE /api/students/:id/assignments/:assignmentID/plan
func (h *MilestoneHandler) ClearPlan(c *gin.Context) {
	studentID, ok := h.ownedStudent(c)
	if !ok {
		return
	}
	assignmentID, err := uuid.Parse(c.Param("assignmentID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid assignment id"))
		return
	}
	if err := h.milestones.ClearFor(c.Request.Context(), studentID, assignmentID); err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{"cleared": true})
}

// GET /api/students/:id/assignments/:assignmentID/plan/progress
func (h *MilestoneHandler) Progress(c *gin.Context) {
	studentID, ok := h.ownedStudent(c)
	if !ok {
		return
	}
	assignmentID, err := uuid.Parse(c.Param("assignmentID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid assignment id"))
		return
	}
	progress, err := h.milestones.Progress(c.Request.Context(), studentID, assignmentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

type appendMilestoneRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Phase          string  `json:"phase"`
	TargetDate     string  `json:"target_date"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// POST /api/students/:id/assignments/:assignmentID/plan/milestones
func (h *MilestoneHandler) AppendMilestone(c *gin.Context) {
	studentID, ok := h.ownedStudent(c)
	if !ok {
		return
	}
	assignmentID, err := uuid.Parse(c.Param("assignmentID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid assignment id"))
		return
	}
	var req appendMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	row := &types.Milestone{
		Title:          req.Title,
		Description:    req.Description,
		Phase:          req.Phase,
		EstimatedHours: req.EstimatedHours,
	}
	if req.TargetDate != "" {
		row.TargetDate = services.ParseDueDate(req.TargetDate, timeNow())
	}
	if err := h.milestones.AppendOne(c.Request.Context(), studentID, assignmentID, row); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"milestone": row})
}

// POST /api/students/:id/milestones/:milestoneID/complete
func (h *MilestoneHandler) MarkComplete(c *gin.Context) {
	studentID, ok := h.ownedStudent(c)
	if !ok {
		return
	}
	milestoneID, err := uuid.Parse(c.Param("milestoneID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid milestone id"))
		return
	}
	changed, err := h.milestones.MarkComplete(c.Request.Context(), studentID, milestoneID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{"completed": true, "changed": changed})
}

// GET /api/students/:id/milestones/upcoming?days=7
func (h *MilestoneHandler) ListUpcoming(c *gin.Context) {
	studentID, ok := h.ownedStudent(c)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	milestones, err := h.milestones.ListUpcoming(c.Request.Context(), studentID, days)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{"milestones": milestones})
}
