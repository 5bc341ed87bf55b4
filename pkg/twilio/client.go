package twilio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const apiBase = "https://api.twilio.com/2010-04-01"

// Client is a minimal Twilio Voice REST client. Only the call-creation
// endpoint is wrapped; everything else this service needs from Twilio
// happens over the media-stream WebSocket.
type Client struct {
	accountSID string
	authToken  string
	httpClient *http.Client
}

func NewClient(accountSID, authToken string) *Client {
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateCallRequest describes an outbound call. CallbackURL is fetched by
// Twilio (with CallbackMethod) once the call connects and must return TwiML.
type CreateCallRequest struct {
	To             string
	From           string
	CallbackURL    string
	CallbackMethod string
}

// CreateCallResponse is the subset of Twilio's call resource we consume.
type CreateCallResponse struct {
	Sid       string `json:"sid"`
	Status    string `json:"status"`
	Direction string `json:"direction"`
	To        string `json:"to"`
	From      string `json:"from"`
}

// CreateCall requests an outbound call. It returns as soon as Twilio has
// queued the call; it does not wait for the call to connect.
func (c *Client) CreateCall(ctx context.Context, req CreateCallRequest) (*CreateCallResponse, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", apiBase, c.accountSID)

	method := req.CallbackMethod
	if method == "" {
		method = http.MethodPost
	}

	data := url.Values{}
	data.Set("To", req.To)
	data.Set("From", req.From)
	data.Set("Url", req.CallbackURL)
	data.Set("Method", method)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.SetBasicAuth(c.accountSID, c.authToken)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("twilio API error: %s (status %d)", string(body), resp.StatusCode)
	}

	var result CreateCallResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &result, nil
}
