package infrastructures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Mailer sends transactional email. Implementations must be safe for
// concurrent use; callers invoke Send fire-and-forget.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type MailerConfig struct {
	BaseURL string
	APIKey  string
	From    string
}

// HTTPMailer delivers mail through the hosted mail API.
type HTTPMailer struct {
	HTTPClient *http.Client
	Config     MailerConfig
}

func NewMailer() Mailer {
	if Config.MAIL_API_URL == "" {
		logrus.Warn("MAIL_API_URL not set, using no-op mailer")
		return &NoopMailer{}
	}

	return &HTTPMailer{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Config: MailerConfig{
			BaseURL: Config.MAIL_API_URL,
			APIKey:  Config.MAIL_API_KEY,
			From:    Config.MAIL_FROM,
		},
	}
}

type mailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (m *HTTPMailer) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(mailRequest{
		From:    m.Config.From,
		To:      to,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Config.BaseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.Config.APIKey)

	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail api returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopMailer discards all mail. Used in development and tests.
type NoopMailer struct{}

func (m *NoopMailer) Send(ctx context.Context, to, subject, body string) error {
	logrus.Infof("noop mailer: dropping mail to %s (%s)", to, subject)
	return nil
}
