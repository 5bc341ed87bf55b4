package call

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/baines-ai/voice-service/internal/persona"
	"github.com/baines-ai/voice-service/pkg/env"
	"github.com/baines-ai/voice-service/pkg/logger"
	"github.com/baines-ai/voice-service/pkg/metrics"
	"github.com/baines-ai/voice-service/pkg/twilio"
	"github.com/baines-ai/voice-service/pkg/validation"
)

// Configuration errors. These indicate a deployment problem, not a bad
// request, and map to a 5xx at the API layer.
var (
	ErrMissingCredentials = errors.New("telephony credentials are not configured")
	ErrMissingConfig      = errors.New("public domain or caller number is not configured")
)

// InvalidPhoneError reports a phone number that failed validation.
type InvalidPhoneError struct {
	Reason string
}

func (e *InvalidPhoneError) Error() string {
	return "invalid phone number: " + e.Reason
}

// ProviderError wraps a failure from the telephony provider API.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return "call provider request failed: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a successfully initiated outbound call.
type Result struct {
	CallSid  string `json:"call_sid"`
	Status   string `json:"status"`
	ToNumber string `json:"to_number"`
}

// Dialer places outbound calls. Satisfied by *twilio.Client.
type Dialer interface {
	CreateCall(ctx context.Context, req twilio.CreateCallRequest) (*twilio.CreateCallResponse, error)
}

// Service initiates outbound calls. Validation happens in a fixed
// order: persona, phone number, credentials, config. The first failure
// wins, so a request with several problems reports the most actionable
// one.
type Service struct {
	cfg   *env.Config
	store *persona.Store

	dialerOnce sync.Once
	dialer     Dialer
}

// NewService creates a call service. The provider client is built
// lazily on the first call so the server can boot without credentials.
func NewService(cfg *env.Config, store *persona.Store) *Service {
	return &Service{cfg: cfg, store: store}
}

// NewServiceWithDialer creates a call service with an explicit dialer.
func NewServiceWithDialer(cfg *env.Config, store *persona.Store, dialer Dialer) *Service {
	s := NewService(cfg, store)
	s.dialer = dialer
	return s
}

// Initiate validates the request and places an outbound call that will
// fetch connection instructions from {domain}/twiml?persona_id={id}
// when answered.
func (s *Service) Initiate(ctx context.Context, personaID, toNumber string) (*Result, error) {
	p, err := s.store.Resolve(personaID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve persona: %w", err)
	}
	if p == nil {
		return nil, &persona.ErrUnknownPersona{PersonaID: personaID}
	}

	if err := validation.ValidatePhone(toNumber); err != nil {
		return nil, &InvalidPhoneError{Reason: err.Error()}
	}

	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" {
		return nil, ErrMissingCredentials
	}
	if s.cfg.Domain == "" || s.cfg.TwilioPhoneNumber == "" {
		return nil, ErrMissingConfig
	}

	callbackURL := s.cfg.Domain + "/twiml?persona_id=" + url.QueryEscape(personaID)

	s.dialerOnce.Do(func() {
		if s.dialer == nil {
			s.dialer = twilio.NewClient(s.cfg.TwilioAccountSID, s.cfg.TwilioAuthToken)
		}
	})

	resp, err := s.dialer.CreateCall(ctx, twilio.CreateCallRequest{
		To:             toNumber,
		From:           s.cfg.TwilioPhoneNumber,
		CallbackURL:    callbackURL,
		CallbackMethod: "POST",
	})
	if err != nil {
		metrics.RecordCallFailed()
		logger.Log.Error("outbound call failed",
			zap.String("persona_id", personaID),
			logger.MaskPhone("to_number", toNumber),
			zap.Error(err))
		return nil, &ProviderError{Err: err}
	}

	metrics.RecordCallInitiated()
	logger.Log.Info("outbound call initiated",
		zap.String("persona_id", personaID),
		zap.String("call_sid", resp.Sid),
		logger.MaskPhone("to_number", toNumber))

	return &Result{
		CallSid:  resp.Sid,
		Status:   "call_initiated",
		ToNumber: toNumber,
	}, nil
}
