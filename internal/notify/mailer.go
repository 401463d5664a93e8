// Package notify composes and best-effort delivers transactional email for
// domain events. Dispatch failures are logged and counted, never propagated:
// the business operation has already committed by the time this runs.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/inmogo/inmogo/pkg/logger"
)

// Message is a fully-rendered outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer is the external email-sending boundary. Failure is an opaque
// error; no delivery receipts are tracked.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// HTTPMailer sends mail through a transactional provider's JSON API.
type HTTPMailer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPMailer creates a mailer posting to the given provider endpoint.
func NewHTTPMailer(endpoint, apiKey string, timeout time.Duration) *HTTPMailer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPMailer{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type sendPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// Send posts the message to the provider.
func (m *HTTPMailer) Send(ctx context.Context, msg *Message) error {
	body, err := json.Marshal(sendPayload{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used in
// development deployments without a mail provider.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs the message.
func (m *LogMailer) Send(_ context.Context, msg *Message) error {
	m.log.Info("mail (not sent, no provider configured)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
