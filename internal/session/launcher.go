package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/baines-ai/voice-service/internal/persona"
	"github.com/baines-ai/voice-service/pkg/env"
	"github.com/baines-ai/voice-service/pkg/logger"
	"github.com/baines-ai/voice-service/pkg/metrics"
)

var (
	// ErrUnsupportedTransport means the handshake did not identify
	// itself as a Twilio media stream.
	ErrUnsupportedTransport = errors.New("unsupported media stream transport")

	// ErrMissingPersonaID means the stream parameters carried no
	// persona id. The webhook path defaults the persona; the stream
	// path does not, a stream without one is a misconfigured caller.
	ErrMissingPersonaID = errors.New("missing persona_id in stream parameters")
)

// Config is everything one media session needs, fixed for the
// connection's lifetime.
type Config struct {
	PersonaID    string
	CallSid      string
	StreamSid    string
	To           string
	From         string
	SystemPrompt string

	AccountSID string
	AuthToken  string
}

// Runner owns the conversation loop for one session. It reads media
// frames from the connection and writes synthesized audio back until
// the context is cancelled or the remote end hangs up.
type Runner interface {
	Run(ctx context.Context, conn *websocket.Conn, cfg Config) error
}

// Launcher accepts media stream connections, performs the handshake and
// hands the session to the pipeline runner.
type Launcher struct {
	cfg    *env.Config
	store  *persona.Store
	runner Runner
}

func NewLauncher(cfg *env.Config, store *persona.Store, runner Runner) *Launcher {
	return &Launcher{cfg: cfg, store: store, runner: runner}
}

// Handle drives a single accepted connection to completion. It returns
// after the pipeline finishes; the caller closes the connection.
func (l *Launcher) Handle(ctx context.Context, conn *websocket.Conn) error {
	start, err := readHandshake(conn)
	if err != nil {
		return err
	}

	personaID := start.CustomParameters["persona_id"]
	if personaID == "" {
		return ErrMissingPersonaID
	}

	doc, err := l.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load personas: %w", err)
	}
	prompt, err := persona.BuildSystemInstruction(doc, personaID)
	if err != nil {
		return err
	}

	sessionCfg := Config{
		PersonaID:    personaID,
		CallSid:      start.CallSid,
		StreamSid:    start.StreamSid,
		To:           start.CustomParameters["to_number"],
		From:         start.CustomParameters["from_number"],
		SystemPrompt: prompt,
		AccountSID:   l.cfg.TwilioAccountSID,
		AuthToken:    l.cfg.TwilioAuthToken,
	}

	logger.Log.Info("media session starting",
		zap.String("persona_id", personaID),
		zap.String("call_sid", sessionCfg.CallSid),
		zap.String("stream_sid", sessionCfg.StreamSid),
		logger.MaskPhoneIfPresent("to_number", sessionCfg.To))

	metrics.RecordSessionStarted()
	runErr := l.runner.Run(ctx, conn, sessionCfg)
	metrics.RecordSessionEnded(runErr != nil)

	if runErr != nil {
		logger.Log.Error("media session ended with error",
			zap.String("call_sid", sessionCfg.CallSid),
			zap.Error(runErr))
		return runErr
	}

	logger.Log.Info("media session ended",
		zap.String("call_sid", sessionCfg.CallSid))
	return nil
}

// readHandshake consumes events until the "start" event arrives. Twilio
// sends "connected" first; anything else before "start" means this is
// not a Twilio media stream.
func readHandshake(conn *websocket.Conn) (*StartPayload, error) {
	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			return nil, fmt.Errorf("failed to read handshake: %w", err)
		}

		switch ev.Event {
		case "connected":
			if ev.Protocol != "" && ev.Protocol != "Call" {
				return nil, ErrUnsupportedTransport
			}
		case "start":
			if ev.Start == nil {
				return nil, ErrUnsupportedTransport
			}
			return ev.Start, nil
		default:
			return nil, ErrUnsupportedTransport
		}
	}
}
