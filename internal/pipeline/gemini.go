package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/baines-ai/voice-service/pkg/logger"
)

// ModelProxy manages one Gemini Live connection. Responses arrive
// through the callbacks; all Send* methods are safe for concurrent use.
type ModelProxy struct {
	client  *genai.Client
	session *genai.Session

	OnAudio       func(pcm []byte)
	OnText        func(text string)
	OnInterrupted func()
	OnComplete    func()
	OnError       func(err error)

	mu     sync.RWMutex
	closed bool
}

// ModelConfig parameterizes a Live session.
type ModelConfig struct {
	Model             string
	Voice             string
	SystemInstruction string
}

// NewModelProxy creates the API client. The Live session is opened by
// Setup once the session configuration is known.
func NewModelProxy(ctx context.Context, apiKey string) (*ModelProxy, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("model API key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	return &ModelProxy{client: client}, nil
}

// Setup opens the Live session with audio responses in the configured
// voice, steered by the system instruction.
func (mp *ModelProxy) Setup(ctx context.Context, cfg ModelConfig) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.closed {
		return fmt.Errorf("model proxy is closed")
	}

	config := &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{"AUDIO"},
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: cfg.SystemInstruction},
			},
		},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: cfg.Voice,
				},
			},
		},
	}

	session, err := mp.client.Live.Connect(ctx, cfg.Model, config)
	if err != nil {
		return fmt.Errorf("failed to connect to Live API: %w", err)
	}

	mp.session = session
	logger.Log.Info("model session connected", zap.String("model", cfg.Model), zap.String("voice", cfg.Voice))
	return nil
}

// StartReceiving listens for model responses until the session ends.
func (mp *ModelProxy) StartReceiving(ctx context.Context) {
	go func() {
		for {
			mp.mu.RLock()
			if mp.closed || mp.session == nil {
				mp.mu.RUnlock()
				return
			}
			session := mp.session
			mp.mu.RUnlock()

			resp, err := session.Receive()
			if err != nil {
				mp.mu.RLock()
				closed := mp.closed
				mp.mu.RUnlock()

				if !closed && ctx.Err() == nil && mp.OnError != nil {
					mp.OnError(err)
				}
				return
			}

			mp.handleResponse(resp)
		}
	}()
}

func (mp *ModelProxy) handleResponse(resp *genai.LiveServerMessage) {
	if resp.ServerContent == nil {
		return
	}

	if resp.ServerContent.ModelTurn != nil {
		for _, part := range resp.ServerContent.ModelTurn.Parts {
			if part.Text != "" && mp.OnText != nil {
				mp.OnText(part.Text)
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 && mp.OnAudio != nil {
				mp.OnAudio(part.InlineData.Data)
			}
		}
	}

	if resp.ServerContent.Interrupted && mp.OnInterrupted != nil {
		mp.OnInterrupted()
	}

	if resp.ServerContent.TurnComplete && mp.OnComplete != nil {
		mp.OnComplete()
	}
}

// SendAudio forwards a 16kHz PCM chunk to the model. The model runs its
// own voice activity detection; no turn signal is needed.
func (mp *ModelProxy) SendAudio(pcm []byte) error {
	mp.mu.RLock()
	session := mp.session
	closed := mp.closed
	mp.mu.RUnlock()

	if closed || session == nil {
		return fmt.Errorf("model proxy is closed or not connected")
	}

	err := session.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{
			MIMEType: "audio/pcm;rate=16000",
			Data:     pcm,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send audio: %w", err)
	}
	return nil
}

// SendText submits a complete user text turn. Used for the greeting
// instruction at call start.
func (mp *ModelProxy) SendText(text string) error {
	mp.mu.RLock()
	session := mp.session
	closed := mp.closed
	mp.mu.RUnlock()

	if closed || session == nil {
		return fmt.Errorf("model proxy is closed or not connected")
	}

	turnComplete := true
	err := session.SendClientContent(genai.LiveSendClientContentParameters{
		Turns: []*genai.Content{
			{
				Role:  "user",
				Parts: []*genai.Part{{Text: text}},
			},
		},
		TurnComplete: &turnComplete,
	})
	if err != nil {
		return fmt.Errorf("failed to send text: %w", err)
	}
	return nil
}

// Close terminates the model session.
func (mp *ModelProxy) Close() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.closed {
		return nil
	}
	mp.closed = true

	if mp.session != nil {
		return mp.session.Close()
	}
	return nil
}
