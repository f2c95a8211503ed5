// Package response holds the JSON envelope helpers shared by all handlers.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svitsai-vanhu/service-estimates/internal/domain"
)

// Success writes a 200 with the payload.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 with the payload.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// BadRequest writes a 400 with a validation error body.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{"code": domain.CodeValidation, "message": msg},
	})
}

// Error maps a domain error to its HTTP status. Unknown errors become 500
// without leaking their message.
func Error(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "INTERNAL", "message": "internal server error"},
		})
		return
	}

	status := http.StatusInternalServerError
	switch de.Code {
	case domain.CodeValidation:
		status = http.StatusBadRequest
	case domain.CodeNotFound, domain.CodeUnavailable, domain.CodeLinkUnavailable:
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{
		"error": gin.H{"code": de.Code, "message": de.Message},
	})
}
