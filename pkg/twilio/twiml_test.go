package twilio

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceResponse_Render(t *testing.T) {
	stream := &Stream{URL: "wss://example.com/ws"}
	stream.Param("persona_id", "x")
	stream.Param("to_number", "+14155551234")

	doc := &VoiceResponse{Connect: &Connect{Stream: stream}}
	out, err := doc.Render()
	require.NoError(t, err)

	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, `<Stream url="wss://example.com/ws">`)

	// Round-trip to verify the parameters survive parsing.
	var parsed VoiceResponse
	require.NoError(t, xml.Unmarshal([]byte(out), &parsed))
	require.NotNil(t, parsed.Connect)
	require.NotNil(t, parsed.Connect.Stream)
	require.Len(t, parsed.Connect.Stream.Parameters, 2)
	assert.Equal(t, "persona_id", parsed.Connect.Stream.Parameters[0].Name)
	assert.Equal(t, "x", parsed.Connect.Stream.Parameters[0].Value)
}
