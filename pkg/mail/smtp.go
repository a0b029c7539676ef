// Package mail submits rendered pitch emails to an SMTP relay.
package mail

import (
	"fmt"
	"net/smtp"
)

// Config holds the outbound relay settings.
type Config struct {
	SMTPHost  string
	SMTPPort  string
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Addr returns the relay host:port.
func (c Config) Addr() string {
	return c.SMTPHost + ":" + c.SMTPPort
}

// BuildMessage assembles the raw message for one HTML email.
func BuildMessage(cfg Config, toEmail, subject, htmlBody string) []byte {
	msg := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		cfg.FromName, cfg.FromEmail,
		toEmail,
		subject,
		htmlBody,
	)
	return []byte(msg)
}

// Send submits one HTML email to a single recipient. One attempt, no retries;
// retry policy lives in the delivery engine.
func Send(cfg Config, toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPHost)

	return smtp.SendMail(
		cfg.Addr(),
		auth,
		cfg.FromEmail,
		[]string{toEmail},
		BuildMessage(cfg, toEmail, subject, htmlBody),
	)
}
