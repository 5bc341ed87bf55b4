package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baines-ai/voice-service/pkg/errors"
)

func (h *Handler) ListPersonas(c *gin.Context) {
	personas, err := h.store.List()
	if err != nil {
		errors.InternalError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"personas": personas})
}
