package handlers

import (
	"github.com/gin-gonic/gin"
)

// Index serves the demo page for placing test calls.
func (h *Handler) Index(c *gin.Context) {
	c.File(h.IndexFile)
}
