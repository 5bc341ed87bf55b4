package call

import (
	"github.com/baines-ai/voice-service/pkg/env"
	"github.com/baines-ai/voice-service/pkg/twilio"
)

// DefaultPersonaID is applied when the webhook omits a persona id. The
// media stream handshake deliberately has no such fallback.
const DefaultPersonaID = "vet_care_assistant"

// ConnectionInstructions renders the TwiML that tells the provider to
// open a bidirectional media stream to this service, carrying the
// persona id and both phone numbers as stream parameters.
func ConnectionInstructions(cfg *env.Config, personaID, toNumber, fromNumber string) (string, error) {
	wsURL := cfg.WebSocketURL()
	if wsURL == "" {
		return "", ErrMissingConfig
	}

	stream := &twilio.Stream{URL: wsURL}
	stream.Param("persona_id", personaID)
	stream.Param("to_number", toNumber)
	stream.Param("from_number", fromNumber)

	doc := &twilio.VoiceResponse{Connect: &twilio.Connect{Stream: stream}}
	return doc.Render()
}
