package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/baines-ai/voice-service/internal/call"
	"github.com/baines-ai/voice-service/internal/persona"
	"github.com/baines-ai/voice-service/pkg/errors"
)

type InitiateCallRequest struct {
	PersonaID   string `json:"persona_id"`
	PhoneNumber string `json:"phone_number"`
}

func (h *Handler) InitiateCall(c *gin.Context) {
	var req InitiateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, "invalid JSON body")
		return
	}

	if req.PersonaID == "" || req.PhoneNumber == "" {
		errors.BadRequest(c, "persona_id and phone_number are required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := h.calls.Initiate(ctx, req.PersonaID, req.PhoneNumber)
	if err != nil {
		h.respondCallError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondCallError maps initiation failures onto HTTP statuses: caller
// mistakes are 400, deployment and provider problems are 500.
func (h *Handler) respondCallError(c *gin.Context, err error) {
	var unknownPersona *persona.ErrUnknownPersona
	var invalidPhone *call.InvalidPhoneError
	var providerErr *call.ProviderError

	switch {
	case stderrors.As(err, &unknownPersona), stderrors.As(err, &invalidPhone):
		errors.BadRequest(c, err.Error())
	case stderrors.Is(err, call.ErrMissingCredentials), stderrors.Is(err, call.ErrMissingConfig):
		errors.ErrorResponse(c, http.StatusInternalServerError, "Configuration Error", err.Error())
	case stderrors.As(err, &providerErr):
		errors.ErrorResponse(c, http.StatusInternalServerError, "Call Provider Error",
			"the telephony provider rejected the call request")
	default:
		errors.InternalError(c, err, h.logger)
	}
}
