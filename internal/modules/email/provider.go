package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ateliernoor.nl/app/internal/config"
)

// MailtrapProvider talks to the Mailtrap sending API. Credentials come from
// the config struct built at startup; nothing here reads the environment.
type MailtrapProvider struct {
	cfg    config.MailConfig
	client *http.Client
}

type mailtrapPayload struct {
	From     personInfo   `json:"from"`
	To       []personInfo `json:"to"`
	Subject  string       `json:"subject"`
	Text     string       `json:"text,omitempty"`
	HTML     string       `json:"html,omitempty"`
	Category string       `json:"category,omitempty"`
}

type personInfo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func NewMailtrapProvider(cfg config.MailConfig) *MailtrapProvider {
	return &MailtrapProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *MailtrapProvider) SendEmail(to string, toName string, subject string, htmlBody string, textBody string) error {
	if m.cfg.APIURL == "" || m.cfg.APIToken == "" {
		return fmt.Errorf("mail credentials not configured")
	}

	payload := mailtrapPayload{
		From: personInfo{
			Email: m.cfg.FromEmail,
			Name:  m.cfg.FromName,
		},
		To: []personInfo{
			{Email: to, Name: toName},
		},
		Subject:  subject,
		HTML:     htmlBody,
		Text:     textBody,
		Category: "Transactional",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.cfg.APIURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Add("Authorization", "Bearer "+m.cfg.APIToken)
	req.Header.Add("Content-Type", "application/json")

	res, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return fmt.Errorf("mail API error: %d", res.StatusCode)
	}

	return nil
}
