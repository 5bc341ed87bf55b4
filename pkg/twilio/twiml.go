package twilio

import (
	"encoding/xml"
	"fmt"
)

// TwiML voice response document. Only the <Connect><Stream> verbs are
// modeled; that is all this service ever instructs Twilio to do.

type VoiceResponse struct {
	XMLName xml.Name `xml:"Response"`
	Connect *Connect `xml:"Connect,omitempty"`
}

type Connect struct {
	Stream *Stream `xml:"Stream,omitempty"`
}

// Stream instructs Twilio to open a bidirectional media stream to URL.
// Parameters are surfaced to the stream consumer in the "start" event as
// customParameters.
type Stream struct {
	URL        string            `xml:"url,attr"`
	Parameters []StreamParameter `xml:"Parameter"`
}

type StreamParameter struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Param appends a named stream parameter.
func (s *Stream) Param(name, value string) {
	s.Parameters = append(s.Parameters, StreamParameter{Name: name, Value: value})
}

// Render serializes the document with the XML declaration Twilio expects.
func (r *VoiceResponse) Render() (string, error) {
	out, err := xml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal TwiML: %w", err)
	}
	return xml.Header + string(out), nil
}
