package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/baines-ai/voice-service/internal/session"
	"github.com/baines-ai/voice-service/pkg/audio"
	"github.com/baines-ai/voice-service/pkg/env"
	"github.com/baines-ai/voice-service/pkg/logger"
	"github.com/baines-ai/voice-service/pkg/metrics"
)

// greetingInstruction opens every call: the model speaks first so the
// callee is not greeted by silence.
const greetingInstruction = "Greet the caller warmly in one or two short sentences. " +
	"Introduce yourself as the assistant and ask how you can help them today."

const (
	writeBufferSize = 256
	writeTimeout    = 10 * time.Second
)

// GeminiRunner relays audio between a Twilio media stream and a Gemini
// Live session. Inbound frames are μ-law 8kHz and are upsampled to
// 16kHz PCM for the model; model output is 24kHz PCM and is downsampled
// to 8kHz μ-law for the phone leg.
type GeminiRunner struct {
	cfg *env.Config
}

func NewGeminiRunner(cfg *env.Config) *GeminiRunner {
	return &GeminiRunner{cfg: cfg}
}

// Run owns the conversation loop for one session. It returns when the
// remote end hangs up, the context is cancelled or either stream fails.
func (r *GeminiRunner) Run(ctx context.Context, conn *websocket.Conn, sc session.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	proxy, err := NewModelProxy(ctx, r.cfg.GeminiAPIKey)
	if err != nil {
		return err
	}
	defer proxy.Close()

	if err := proxy.Setup(ctx, ModelConfig{
		Model:             r.cfg.GeminiModel,
		Voice:             r.cfg.GeminiVoice,
		SystemInstruction: sc.SystemPrompt,
	}); err != nil {
		return err
	}

	writer := newConnWriter(conn)
	defer writer.close()

	modelErr := make(chan error, 1)
	reportModelErr := func(err error) {
		select {
		case modelErr <- err:
		default:
		}
	}

	proxy.OnAudio = func(pcm24k []byte) {
		muLaw := audio.EncodePCM16ToMuLaw(audio.Resample24kTo8k(pcm24k))
		payload := base64.StdEncoding.EncodeToString(muLaw)
		writer.send(session.NewOutboundMedia(sc.StreamSid, payload))
		metrics.RecordMediaFrames(0, 1)
	}
	proxy.OnInterrupted = func() {
		// Caller started talking over the assistant; flush queued audio
		writer.send(session.NewOutboundClear(sc.StreamSid))
	}
	proxy.OnText = func(text string) {
		logger.Log.Debug("model text", zap.String("call_sid", sc.CallSid), zap.String("text", text))
	}
	proxy.OnError = reportModelErr

	proxy.StartReceiving(ctx)

	if err := proxy.SendText(greetingInstruction); err != nil {
		return fmt.Errorf("failed to send greeting turn: %w", err)
	}

	readErr := make(chan error, 1)
	go func() {
		readErr <- r.relayInbound(conn, proxy)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-modelErr:
		return fmt.Errorf("model stream failed: %w", err)
	case err := <-readErr:
		return err
	}
}

// audioSink receives 16kHz PCM chunks from the caller's leg.
type audioSink interface {
	SendAudio(pcm []byte) error
}

// relayInbound pumps caller audio into the model until the stream stops.
// Returns nil on a normal hangup.
func (r *GeminiRunner) relayInbound(conn *websocket.Conn, sink audioSink) error {
	for {
		var ev session.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) {
				return nil
			}
			return fmt.Errorf("media stream read failed: %w", err)
		}

		switch ev.Event {
		case "media":
			if ev.Media == nil {
				continue
			}
			muLaw, err := base64.StdEncoding.DecodeString(ev.Media.Payload)
			if err != nil {
				logger.Log.Warn("dropping undecodable media frame", zap.Error(err))
				continue
			}
			pcm16k := audio.Resample8kTo16k(audio.DecodeMuLawToPCM16(muLaw))
			if err := sink.SendAudio(pcm16k); err != nil {
				return err
			}
			metrics.RecordMediaFrames(1, 0)

		case "stop":
			return nil

		case "mark", "connected", "start":
			// mark is informational; duplicate handshake events are ignored

		default:
			logger.Log.Debug("unknown media stream event", zap.String("event", ev.Event))
		}
	}
}

// connWriter serializes writes to the websocket through one goroutine;
// the connection allows only a single concurrent writer.
type connWriter struct {
	conn *websocket.Conn
	ch   chan interface{}
	done chan struct{}
}

func newConnWriter(conn *websocket.Conn) *connWriter {
	w := &connWriter{
		conn: conn,
		ch:   make(chan interface{}, writeBufferSize),
		done: make(chan struct{}),
	}
	go w.pump()
	return w
}

func (w *connWriter) pump() {
	for {
		select {
		case msg := <-w.ch:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := w.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-w.done:
			return
		}
	}
}

// send enqueues a message, dropping it if the buffer is full. Audio is
// real-time; a stalled socket must not block the model receive loop.
func (w *connWriter) send(msg interface{}) {
	select {
	case w.ch <- msg:
	case <-w.done:
	default:
		logger.Log.Warn("dropping outbound frame, write buffer full")
	}
}

func (w *connWriter) close() {
	close(w.done)
}
