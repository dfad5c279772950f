package handlers

import (
	"errors"
	"log"
	"net/http"

	"project-tracker/internal/apperr"
	"project-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError maps an error to the taxonomy status and a {message} body.
// Anything outside the taxonomy is logged and collapsed to a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = apperr.ErrNotFound
	}

	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	c.JSON(status, gin.H{"message": apperr.Message(err)})
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}
