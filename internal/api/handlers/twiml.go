package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/baines-ai/voice-service/internal/call"
	"github.com/baines-ai/voice-service/pkg/errors"
	"github.com/baines-ai/voice-service/pkg/logger"
	"github.com/baines-ai/voice-service/pkg/webhook"
)

// ServeTwiML is the provider webhook hit when an outbound call
// connects. It answers with the connection instructions that open the
// media stream back to this service.
func (h *Handler) ServeTwiML(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		errors.BadRequest(c, "invalid form body")
		return
	}

	if h.cfg.TwilioValidateSignature {
		requestURL := h.cfg.Domain + c.Request.URL.RequestURI()
		err := webhook.VerifyTwilioSignature(
			h.cfg.TwilioAuthToken,
			requestURL,
			c.Request.PostForm,
			c.GetHeader("X-Twilio-Signature"),
		)
		if err != nil {
			h.logger.Warn("webhook signature rejected", zap.Error(err))
			errors.Unauthorized(c, "invalid webhook signature")
			return
		}
	}

	personaID := c.Query("persona_id")
	if personaID == "" {
		personaID = call.DefaultPersonaID
	}

	toNumber := c.PostForm("To")
	fromNumber := c.PostForm("From")

	twiml, err := call.ConnectionInstructions(h.cfg, personaID, toNumber, fromNumber)
	if err != nil {
		if stderrors.Is(err, call.ErrMissingConfig) {
			errors.ErrorResponse(c, http.StatusInternalServerError, "Configuration Error", err.Error())
			return
		}
		errors.InternalError(c, err, h.logger)
		return
	}

	h.logger.Info("serving connection instructions",
		zap.String("persona_id", personaID),
		logger.MaskPhoneIfPresent("to_number", toNumber))

	c.Data(http.StatusOK, "application/xml", []byte(twiml))
}
