// Package sms submits outbound SMS messages via the Twilio REST API.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vipoffers/consent-api/internal/utils/httpclient"
)

// Config holds Twilio API credentials and the sending number.
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	// BaseURL overrides the Twilio API host, used by tests. Defaults to
	// https://api.twilio.com when empty.
	BaseURL string
}

// Message represents an accepted SMS submission.
type Message struct {
	SID    string
	To     string
	From   string
	Body   string
	Status string
}

// Client communicates with the Twilio Messages API.
type Client struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	pool       *httpclient.Pool
}

// NewClient creates a Twilio client with the given credentials.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		baseURL:    baseURL + "/2010-04-01/Accounts/" + cfg.AccountSID,
		pool:       httpclient.GetGlobalPool(),
	}
}

// SendMessage submits a message for delivery to the given number.
// Success means Twilio accepted the submission, not that the message
// was delivered.
func (c *Client) SendMessage(ctx context.Context, to, body string) (*Message, error) {
	u := c.baseURL + "/Messages.json"

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.fromNumber)
	form.Set("Body", body)

	respBody, err := c.doPost(ctx, u, form)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	var resp messageResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("send message: unmarshal: %w", err)
	}

	return &Message{
		SID:    resp.SID,
		To:     resp.To,
		From:   resp.From,
		Body:   resp.Body,
		Status: resp.Status,
	}, nil
}

func (c *Client) doPost(ctx context.Context, u string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	client := c.pool.Get()
	defer c.pool.Put(client)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return nil, &Error{
				StatusCode: resp.StatusCode,
				Code:       apiErr.Code,
				Message:    apiErr.Message,
			}
		}
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	return body, nil
}

// Error represents a Twilio API error.
type Error struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("twilio: %s (code %d, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("twilio: %s (status %d)", e.Message, e.StatusCode)
}

// json wire types for API responses

type messageResponse struct {
	SID    string `json:"sid"`
	To     string `json:"to"`
	From   string `json:"from"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

type apiErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}
