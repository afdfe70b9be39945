package emailservice

import (
	"fmt"
	"net/smtp"
	"strings"

	"evmarket.io/marketplace-api/config/environment_variables"
)

type Sender interface {
	SendEmail(to string, subject string, body string) error
}

type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender() *SMTPSender {
	envs := environment_variables.EnvironmentVariables
	return &SMTPSender{
		host:     envs.SMTP_HOST,
		port:     envs.SMTP_PORT,
		username: envs.SMTP_USERNAME,
		password: envs.SMTP_PASSWORD,
		from:     envs.SMTP_SENDER_EMAIL,
		send:     smtp.SendMail,
	}
}

// Enabled reports whether an SMTP host is configured.
func (s *SMTPSender) Enabled() bool {
	return s != nil && s.host != ""
}

func (s *SMTPSender) SendEmail(to string, subject string, body string) error {
	if !s.Enabled() {
		return nil
	}
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	return s.send(fmt.Sprintf("%s:%d", s.host, s.port), auth, s.from, []string{to}, buildMessage(s.from, to, subject, body))
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
