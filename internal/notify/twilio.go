package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soyeahso/agentbridge/internal/logging"
)

const defaultTwilioBaseURL = "https://api.twilio.com"

// TwilioClient sends SMS via the Twilio Messages API.
type TwilioClient struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
	log        *logging.Logger
}

// TwilioOption configures a TwilioClient.
type TwilioOption func(*TwilioClient)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) TwilioOption {
	return func(c *TwilioClient) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// NewTwilioClient creates an SMS client. Credentials come from
// configuration or a secret store; they are never hardcoded.
func NewTwilioClient(accountSID, authToken, from string, log *logging.Logger, opts ...TwilioOption) *TwilioClient {
	c := &TwilioClient{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    defaultTwilioBaseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		log:        log.Sub("twilio"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// twilioMessage is the subset of the Messages API response we consume.
type twilioMessage struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send posts one message to the Messages API and returns its SID.
func (c *TwilioClient) Send(ctx context.Context, msg Message) (string, error) {
	form := url.Values{}
	form.Set("To", msg.To)
	form.Set("From", c.from)
	form.Set("Body", msg.Body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result twilioMessage
	if err := json.Unmarshal(respBody, &result); err != nil {
		if resp.StatusCode >= 300 {
			return "", fmt.Errorf("provider error (%d)", resp.StatusCode)
		}
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("provider error (%d): %s", resp.StatusCode, result.Message)
	}

	c.log.Info().
		Str("messageSid", result.SID).
		Str("status", result.Status).
		Msg("SMS sent")
	return result.SID, nil
}
