package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wastenot/service-pickup/internal/platform/domain"
)

// Success writes a 200 response with the standard success envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created writes a 201 response with the standard success envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// Paginated writes a 200 response with items and pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// BadRequest writes a 400 response with the given error message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

// Error maps a domain error to its HTTP status and writes the failure envelope.
func Error(c *gin.Context, err error) {
	code := domain.CodeOf(err)

	status := http.StatusInternalServerError
	message := err.Error()

	switch code {
	case domain.ErrCodeValidation, domain.ErrCodeFormat:
		status = http.StatusBadRequest
	case domain.ErrCodeNotFound:
		status = http.StatusNotFound
	case domain.ErrCodeConflict, domain.ErrCodeInvalidState:
		status = http.StatusConflict
	case domain.ErrCodeForbidden:
		status = http.StatusForbidden
	case domain.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case domain.ErrCodeResolution:
		// Upstream geocoder failure, not the caller's fault.
		status = http.StatusBadGateway
	case domain.ErrCodeLookup:
		status = http.StatusInternalServerError
	default:
		// Don't leak internal error details to clients.
		message = "internal server error"
	}

	c.JSON(status, gin.H{"success": false, "error": message, "code": string(code)})
}
