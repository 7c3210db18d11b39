package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/services"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FamilyName string `json:"family_name"`
}

// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	household, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.FamilyName)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"household": household})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	token, household, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, err)
		return
	}
	RespondOK(c, gin.H{"token": token, "household": household})
}
