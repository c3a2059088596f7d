package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
)

// SMTPSender sends plain-text mail over SMTP with STARTTLS.
type SMTPSender struct {
	host     string
	port     string
	from     string
	password string
}

func NewSMTPSender(host, port, from, password string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		from:     from,
		password: password,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", s.from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"\r\n" +
			body,
	)

	addr := s.host + ":" + s.port

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer client.Quit()

	if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
		return fmt.Errorf("smtp starttls: %w", err)
	}

	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}

	return nil
}
