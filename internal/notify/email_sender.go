package notify

import (
	"errors"
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"
)

const dialTimeout = 10 * time.Second

// EmailConfig holds SMTP configuration for sending emails.
type EmailConfig struct {
	SMTPServer   string
	SMTPPort     int
	FallbackPort int
	SMTPUser     string
	SMTPPass     string
	FromEmail    string
	ToEmail      string
	Enabled      bool
}

// Sender delivers a rendered message.
type Sender interface {
	Send(msg *RenderedMessage) error
}

// EmailSender delivers messages via SMTP. It tries SMTPPort first (implicit
// TLS on 465) and then FallbackPort with mandatory STARTTLS.
type EmailSender struct {
	cfg EmailConfig
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg EmailConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

// Send delivers an email with HTML body and plain text fallback.
func (s *EmailSender) Send(msg *RenderedMessage) error {
	if !s.cfg.Enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" && msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
	} else {
		m.SetBody("text/plain", msg.Text)
	}

	err := s.dialer(s.cfg.SMTPPort).DialAndSend(m)
	if err == nil {
		return nil
	}

	if s.cfg.FallbackPort == 0 || s.cfg.FallbackPort == s.cfg.SMTPPort {
		return fmt.Errorf("failed to send to %s via %s:%d: %w", s.cfg.ToEmail, s.cfg.SMTPServer, s.cfg.SMTPPort, err)
	}

	if fbErr := s.dialer(s.cfg.FallbackPort).DialAndSend(m); fbErr != nil {
		return fmt.Errorf("failed to send to %s via %s:%d and :%d: %w",
			s.cfg.ToEmail, s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.FallbackPort, errors.Join(err, fbErr))
	}

	return nil
}

func (s *EmailSender) dialer(port int) *gomail.Dialer {
	d := gomail.NewDialer(s.cfg.SMTPServer, port, s.cfg.SMTPUser, s.cfg.SMTPPass)
	d.Timeout = dialTimeout
	if !d.SSL {
		d.StartTLSPolicy = gomail.MandatoryStartTLS
	}
	return d
}
