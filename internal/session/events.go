package session

// Twilio media stream wire events. One JSON message per frame; the
// handshake is a "connected" event followed by "start", then a stream
// of "media" events until "stop".

type Event struct {
	Event          string `json:"event"`
	SequenceNumber string `json:"sequenceNumber,omitempty"`
	StreamSid      string `json:"streamSid,omitempty"`

	// connected
	Protocol string `json:"protocol,omitempty"`
	Version  string `json:"version,omitempty"`

	Start *StartPayload `json:"start,omitempty"`
	Media *MediaPayload `json:"media,omitempty"`
	Mark  *MarkPayload  `json:"mark,omitempty"`
	Stop  *StopPayload  `json:"stop,omitempty"`
}

// StartPayload carries the call metadata and the custom parameters set
// in the connection instructions.
type StartPayload struct {
	StreamSid        string            `json:"streamSid"`
	AccountSid       string            `json:"accountSid"`
	CallSid          string            `json:"callSid"`
	Tracks           []string          `json:"tracks,omitempty"`
	CustomParameters map[string]string `json:"customParameters,omitempty"`
	MediaFormat      *MediaFormat      `json:"mediaFormat,omitempty"`
}

type MediaFormat struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sampleRate"`
	Channels   int    `json:"channels"`
}

// MediaPayload carries one base64-encoded μ-law audio frame.
type MediaPayload struct {
	Track     string `json:"track,omitempty"`
	Chunk     string `json:"chunk,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   string `json:"payload"`
}

type MarkPayload struct {
	Name string `json:"name"`
}

type StopPayload struct {
	AccountSid string `json:"accountSid,omitempty"`
	CallSid    string `json:"callSid,omitempty"`
}

// OutboundMedia is the frame shape for audio sent back to Twilio.
type OutboundMedia struct {
	Event     string        `json:"event"`
	StreamSid string        `json:"streamSid"`
	Media     MediaEnvelope `json:"media"`
}

type MediaEnvelope struct {
	Payload string `json:"payload"`
}

// NewOutboundMedia wraps a base64 μ-law payload for the given stream.
func NewOutboundMedia(streamSid, payload string) OutboundMedia {
	return OutboundMedia{
		Event:     "media",
		StreamSid: streamSid,
		Media:     MediaEnvelope{Payload: payload},
	}
}

// OutboundClear tells Twilio to drop buffered audio, used when the
// caller interrupts the assistant mid-sentence.
type OutboundClear struct {
	Event     string `json:"event"`
	StreamSid string `json:"streamSid"`
}

func NewOutboundClear(streamSid string) OutboundClear {
	return OutboundClear{Event: "clear", StreamSid: streamSid}
}
