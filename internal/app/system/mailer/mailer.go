// internal/app/system/mailer/mailer.go

// Package mailer sends account emails over SMTP. Delivery is
// fire-and-forget: a failed mail is logged, never surfaced to the
// request that triggered it.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is one outbound message. TextBody and HTMLBody are combined
// into a multipart/alternative payload when both are set.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Mailer struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Enabled reports whether an SMTP host is configured. Without one,
// sends become logged no-ops so local dev works without a mail server.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// Send delivers one email synchronously.
func (m *Mailer) Send(e Email) error {
	if !m.Enabled() {
		m.logger.Info("mailer disabled; dropping email",
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := m.build(e)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{e.To}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", e.To, err)
	}
	return nil
}

// SendAsync delivers one email in the background and logs the outcome.
func (m *Mailer) SendAsync(e Email) {
	go func() {
		if err := m.Send(e); err != nil {
			m.logger.Error("email delivery failed",
				zap.String("to", e.To),
				zap.String("subject", e.Subject),
				zap.Error(err))
			return
		}
		m.logger.Info("email sent",
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
	}()
}

const boundary = "scopehub-alt-boundary"

func (m *Mailer) build(e Email) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case e.HTMLBody != "" && e.TextBody != "":
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, e.TextBody)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, e.HTMLBody)
		fmt.Fprintf(&b, "--%s--\r\n", boundary)
	case e.HTMLBody != "":
		fmt.Fprintf(&b, "Content-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", e.HTMLBody)
	default:
		fmt.Fprintf(&b, "Content-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", e.TextBody)
	}
	return []byte(b.String())
}
