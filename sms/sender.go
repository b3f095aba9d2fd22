package sms

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the transactional SMS gateway. Delivery is best effort
// throughout the app: callers use SendBestEffort and move on.
type Client struct {
	http   *resty.Client
	sender string
}

// NewClientFromEnv builds the gateway client. With SMS_GATEWAY_URL unset a
// nil client is returned and every send becomes a logged no-op, which keeps
// local development quiet.
func NewClientFromEnv() *Client {
	gateway := os.Getenv("SMS_GATEWAY_URL")
	if gateway == "" {
		return nil
	}

	http := resty.New().
		SetBaseURL(gateway).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(os.Getenv("SMS_API_KEY"))

	return &Client{
		http:   http,
		sender: os.Getenv("SMS_SENDER_ID"),
	}
}

// Send posts one message to the gateway. Non-2xx replies are errors.
func (c *Client) Send(recipient, message string) error {
	if c == nil {
		return fmt.Errorf("sms gateway not configured")
	}

	resp, err := c.http.R().
		SetBody(map[string]string{
			"to":      recipient,
			"from":    c.sender,
			"message": message,
		}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("sms send failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway returned %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// SendBestEffort logs a failed send and swallows it.
func (c *Client) SendBestEffort(recipient, message string) {
	if c == nil {
		log.Printf("sms disabled, skipping message to %s", recipient)
		return
	}
	if err := c.Send(recipient, message); err != nil {
		log.Printf("sms to %s failed: %v", recipient, err)
	}
}
