package email

import "sync"

type SentMail struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
}

type Mock struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

func (m *Mock) SendEmail(to string, toName string, subject string, htmlBody string, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: to, ToName: toName, Subject: subject, HTMLBody: htmlBody, TextBody: textBody})
	return nil
}
