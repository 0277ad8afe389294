package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	config "github.com/anjiri1684/mindcare/configs"
	"go.uber.org/zap"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoMailer sends transactional email through the Brevo HTTP API.
type BrevoMailer struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Endpoint    string
	Client      *http.Client
	Log         *zap.Logger
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// NewBrevoMailer returns nil when the sender is not configured; callers
// then skip email and keep in-app notifications only.
func NewBrevoMailer(cfg config.Config, log *zap.Logger) *BrevoMailer {
	if cfg.BrevoAPIKey == "" || cfg.EmailSender == "" {
		log.Warn("Email service not configured, BREVO_API_KEY or EMAIL_SENDER missing")
		return nil
	}
	name := cfg.EmailSenderName
	if name == "" {
		name = "MindCare"
	}
	log.Info("Email service initialized", zap.String("sender", cfg.EmailSender))
	return &BrevoMailer{
		APIKey:      cfg.BrevoAPIKey,
		SenderEmail: cfg.EmailSender,
		SenderName:  name,
		Endpoint:    brevoEndpoint,
		Client:      &http.Client{Timeout: 10 * time.Second},
		Log:         log,
	}
}

func (m *BrevoMailer) Send(ctx context.Context, toName, toEmail, subject, htmlContent string) error {
	at := strings.Index(toEmail, "@")
	if at <= 0 {
		return fmt.Errorf("invalid recipient email: %q", toEmail)
	}
	if toName == "" {
		toName = toEmail[:at]
	}

	body, err := json.Marshal(brevoPayload{
		Sender:      map[string]string{"name": m.SenderName, "email": m.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": toName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", m.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	m.Log.Debug("Email sent", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}
