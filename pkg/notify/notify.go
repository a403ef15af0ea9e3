// Package notify delivers confirmation messages to patients. The HTTP sender
// publishes to a QStash-style message endpoint; the log sender only records
// the message, which is the default for local runs.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Method is the delivery channel inferred from the recipient contact.
type Method string

const (
	MethodEmail Method = "email"
	MethodSMS   Method = "sms"
)

// MethodFor infers the delivery channel: contacts containing '@' are email,
// everything else is treated as a phone number.
func MethodFor(contact string) Method {
	if strings.Contains(contact, "@") {
		return MethodEmail
	}
	return MethodSMS
}

type Message struct {
	Recipient string `json:"recipient"`
	Method    Method `json:"method"`
	Body      string `json:"body"`
}

type Receipt struct {
	Sent   bool      `json:"sent"`
	SentAt time.Time `json:"sent_at"`
}

// Sender dispatches a confirmation message.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

type Config struct {
	URL     string        `split_words:"true"`
	Token   string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

// HTTPSender publishes messages to a REST endpoint.
type HTTPSender struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPSender(cfg Config) (*HTTPSender, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("notify url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (s *HTTPSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return Receipt{}, fmt.Errorf("marshal notify message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return Receipt{}, fmt.Errorf("build notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("send notify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Receipt{}, fmt.Errorf("notify endpoint returned status %d", resp.StatusCode)
	}

	return Receipt{Sent: true, SentAt: time.Now()}, nil
}

// LogSender records the message instead of delivering it.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) (Receipt, error) {
	log.Info().
		Str("method", string(msg.Method)).
		Str("recipient", msg.Recipient).
		Str("body", msg.Body).
		Msg("confirmation sent")
	return Receipt{Sent: true, SentAt: time.Now()}, nil
}
