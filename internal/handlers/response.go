package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/services"
)

type APIError struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, err error) {
	msg := "unknown error"
	var details []string
	if err != nil {
		msg = err.Error()
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			status = http.StatusBadRequest
			details = vErr.Messages
		}
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Details: details}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
