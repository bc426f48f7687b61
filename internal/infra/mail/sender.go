package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/prospexa-sync/internal/infra/queue"
)

func NewEmailSender(host string, port int, user, password, from, alertTo string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		AlertTo:  alertTo,
	}
}

// SendPositiveReplyAlert implementa queue.AlertSender: avisa a caixa do time
// que um lead respondeu positivo.
func (s *EmailSender) SendPositiveReplyAlert(payload queue.PositiveReplyPayload) error {
	data := PositiveReplyAlertData{
		LeadName:   payload.LeadName,
		LeadEmail:  payload.LeadEmail,
		CampaignID: payload.CampaignID,
		Provider:   payload.Provider,
		Subject:    payload.Subject,
	}

	tmplPath := filepath.Join("templates", "positive_reply.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.AlertTo)
	m.SetHeader("Subject", fmt.Sprintf("🔥 Resposta positiva: %s", payload.LeadEmail))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
