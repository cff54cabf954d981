package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// EchoHandler returns request bodies verbatim. Useful for connectivity
// checks from mobile clients behind campus proxies.
type EchoHandler struct{}

// NewEchoHandler creates a new EchoHandler.
func NewEchoHandler() *EchoHandler {
	return &EchoHandler{}
}

// RegisterRoutes registers the echo route. No authentication.
func (h *EchoHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/echo", h.Echo)
	r.POST("/echo", h.Echo)
}

// Echo handles GET and POST /echo.
func (h *EchoHandler) Echo(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "could not read request body")
		return
	}

	contentType := c.ContentType()
	if contentType == "" {
		contentType = "text/plain"
	}
	c.Data(http.StatusOK, contentType, body)
}
