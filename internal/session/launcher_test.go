package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baines-ai/voice-service/internal/persona"
	"github.com/baines-ai/voice-service/pkg/env"
	"github.com/baines-ai/voice-service/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init("error", "development")
	os.Exit(m.Run())
}

type captureRunner struct {
	cfg Config
	err error
}

func (r *captureRunner) Run(_ context.Context, _ *websocket.Conn, cfg Config) error {
	r.cfg = cfg
	return r.err
}

func testStore(t *testing.T) *persona.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "personas.json")
	doc := `{"personas": [{"id": "vet_care_assistant", "display_name": "Vet Care Assistant"}], "global_rules": {"no_diagnosis": true}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return persona.NewStore(path)
}

// runSession upgrades a test connection, feeds it the given client
// events and returns the runner alongside the launcher's result.
func runSession(t *testing.T, events []interface{}) (*captureRunner, error) {
	t.Helper()

	runner := &captureRunner{}
	launcher := NewLauncher(&env.Config{
		TwilioAccountSID: "ACxxxx",
		TwilioAuthToken:  "secret",
	}, testStore(t), runner)

	upgrader := websocket.Upgrader{}
	result := make(chan error, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		result <- launcher.Handle(context.Background(), conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer client.Close()

	for _, ev := range events {
		require.NoError(t, client.WriteJSON(ev))
	}

	return runner, <-result
}

func connectedEvent() Event {
	return Event{Event: "connected", Protocol: "Call", Version: "1.0.0"}
}

func startEvent(params map[string]string) Event {
	return Event{
		Event: "start",
		Start: &StartPayload{
			StreamSid:        "MZ123",
			CallSid:          "CA123",
			AccountSid:       "ACxxxx",
			CustomParameters: params,
		},
	}
}

func TestHandle_Success(t *testing.T) {
	runner, err := runSession(t, []interface{}{
		connectedEvent(),
		startEvent(map[string]string{
			"persona_id":  "vet_care_assistant",
			"to_number":   "+14155551234",
			"from_number": "+14155550000",
		}),
	})

	require.NoError(t, err)
	assert.Equal(t, "vet_care_assistant", runner.cfg.PersonaID)
	assert.Equal(t, "CA123", runner.cfg.CallSid)
	assert.Equal(t, "MZ123", runner.cfg.StreamSid)
	assert.Equal(t, "+14155551234", runner.cfg.To)
	assert.Equal(t, "+14155550000", runner.cfg.From)
	assert.Equal(t, "ACxxxx", runner.cfg.AccountSID)
	assert.Equal(t, "secret", runner.cfg.AuthToken)
	assert.Contains(t, runner.cfg.SystemPrompt, "You are acting as the Vet Care Assistant.")
	assert.Contains(t, runner.cfg.SystemPrompt, "- Never diagnose medical conditions.")
}

func TestHandle_MissingPersonaID(t *testing.T) {
	// The webhook path falls back to a default persona; the stream
	// handshake does not.
	runner, err := runSession(t, []interface{}{
		connectedEvent(),
		startEvent(map[string]string{"to_number": "+14155551234"}),
	})

	assert.ErrorIs(t, err, ErrMissingPersonaID)
	assert.Empty(t, runner.cfg.PersonaID)
}

func TestHandle_UnknownPersona(t *testing.T) {
	_, err := runSession(t, []interface{}{
		connectedEvent(),
		startEvent(map[string]string{"persona_id": "nope"}),
	})

	var unknown *persona.ErrUnknownPersona
	assert.ErrorAs(t, err, &unknown)
}

func TestHandle_UnsupportedTransport(t *testing.T) {
	t.Run("wrong protocol", func(t *testing.T) {
		_, err := runSession(t, []interface{}{
			Event{Event: "connected", Protocol: "SIP"},
		})
		assert.ErrorIs(t, err, ErrUnsupportedTransport)
	})

	t.Run("unexpected first event", func(t *testing.T) {
		_, err := runSession(t, []interface{}{
			Event{Event: "media", Media: &MediaPayload{Payload: "AAAA"}},
		})
		assert.ErrorIs(t, err, ErrUnsupportedTransport)
	})
}

func TestHandle_RunnerErrorPropagates(t *testing.T) {
	runner := &captureRunner{err: context.DeadlineExceeded}
	launcher := NewLauncher(&env.Config{}, testStore(t), runner)

	upgrader := websocket.Upgrader{}
	result := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		result <- launcher.Handle(context.Background(), conn)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.WriteJSON(connectedEvent()))
	require.NoError(t, client.WriteJSON(startEvent(map[string]string{"persona_id": "vet_care_assistant"})))

	assert.ErrorIs(t, <-result, context.DeadlineExceeded)
}
