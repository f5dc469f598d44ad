// Package mail delivers email confirmation codes.
package mail

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const sendURL = "https://api.sendgrid.com/v3/mail/send"

// CodeSender delivers a one-time confirmation code to an address.
type CodeSender interface {
	Send(ctx context.Context, recipient, code string) error
}

// NewCode returns a fresh 8-character hex confirmation code.
func NewCode() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the platform entropy source is broken
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// HTTPSender sends codes through the SendGrid v3 mail API.
type HTTPSender struct {
	key    string
	from   string
	url    string
	client *http.Client
}

// NewHTTPSender creates a sender using the given API key and from address.
func NewHTTPSender(key, from string) *HTTPSender {
	return &HTTPSender{
		key:  key,
		from: from,
		url:  sendURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (h *HTTPSender) Send(ctx context.Context, recipient, code string) error {
	body, err := json.Marshal(sendRequest{
		Personalizations: []personalization{{To: []address{{Email: recipient}}}},
		From:             address{Email: h.from},
		Subject:          "Blackjack Game Email Confirmation Code",
		Content:          []content{{Type: "text/html", Value: code}},
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.key)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("send confirmation code: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LogSender logs codes instead of mailing them. Useful for development and
// tests, where no mail provider is configured.
type LogSender struct {
	logger *log.Logger
}

// NewLogSender creates a sender that writes codes to the logger.
func NewLogSender(logger *log.Logger) *LogSender {
	return &LogSender{logger: logger.WithPrefix("mail")}
}

func (l *LogSender) Send(ctx context.Context, recipient, code string) error {
	l.logger.Info("confirmation code issued", "to", recipient, "code", code)
	return nil
}
