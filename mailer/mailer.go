// Package mailer delivers verification codes to admins.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/otc"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type SMTP struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTP) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := buildMessage(m.cfg.From, to, subject, body)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// Log writes mails to the logger instead of sending them. Development only.
type Log struct {
	Logger *slog.Logger
}

func (m Log) Send(ctx context.Context, to, subject, body string) error {
	m.Logger.InfoContext(ctx, "mail", "to", to, "subject", subject, "body", body)
	return nil
}

// CodeMessage returns the subject and body of a verification code mail.
func CodeMessage(l lang.Lang, p otc.Purpose, code string) (string, string) {
	if l == lang.Arabic {
		if p == otc.PurposeReset {
			return "إعادة تعيين كلمة المرور", "رمز إعادة تعيين كلمة المرور الخاص بك هو: " + code
		}
		return "رمز التحقق", "رمز التحقق الخاص بك هو: " + code
	}
	if p == otc.PurposeReset {
		return "Password reset", "Your password reset code is: " + code
	}
	return "Verification code", "Your verification code is: " + code
}
