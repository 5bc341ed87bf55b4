package call

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baines-ai/voice-service/pkg/env"
	"github.com/baines-ai/voice-service/pkg/twilio"
)

func TestConnectionInstructions(t *testing.T) {
	cfg := &env.Config{Domain: "https://voice.example.com"}

	out, err := ConnectionInstructions(cfg, "x", "+14155551234", "+14155550000")
	require.NoError(t, err)

	var parsed twilio.VoiceResponse
	require.NoError(t, xml.Unmarshal([]byte(out), &parsed))
	require.NotNil(t, parsed.Connect)
	require.NotNil(t, parsed.Connect.Stream)

	assert.Equal(t, "wss://voice.example.com/ws", parsed.Connect.Stream.URL)

	params := map[string]string{}
	for _, p := range parsed.Connect.Stream.Parameters {
		params[p.Name] = p.Value
	}
	assert.Equal(t, "x", params["persona_id"])
	assert.Equal(t, "+14155551234", params["to_number"])
	assert.Equal(t, "+14155550000", params["from_number"])
}

func TestConnectionInstructions_MissingDomain(t *testing.T) {
	_, err := ConnectionInstructions(&env.Config{}, "x", "", "")
	assert.ErrorIs(t, err, ErrMissingConfig)
}
