package email

import (
	"fmt"

	"college_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	cfg config.EmailConfig
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(cfg config.EmailConfig) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(msg *Message) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(p.cfg.FromEmail, p.cfg.FromName))
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	if msg.HTMLBody != "" {
		m.SetBody("text/html", msg.HTMLBody)
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	dialer := gomail.NewDialer(p.cfg.SMTPHost, p.cfg.SMTPPort, p.cfg.SMTPUsername, p.cfg.SMTPPassword)
	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerificationCode отправляет код подтверждения на адрес
func (p *SMTPProvider) SendVerificationCode(to, code string) error {
	return p.Send(&Message{
		To:      []string{to},
		Subject: "Код подтверждения",
		Body:    fmt.Sprintf("Ваш код подтверждения: %s\nКод действителен 15 минут.", code),
	})
}

// Validate проверяет конфигурацию SMTP
func (p *SMTPProvider) Validate() error {
	if p.cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.cfg.SMTPPort <= 0 || p.cfg.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.cfg.SMTPPort)
	}
	if p.cfg.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}
