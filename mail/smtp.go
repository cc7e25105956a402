// Package mail delivers the engine's templated messages over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"

	"github.com/kannan-innovates/zenCode"
)

// Config holds SMTP connection settings. From defaults to Username when
// empty. Port 465 uses implicit TLS; any other port upgrades with STARTTLS.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTP sends rendered templates through a single SMTP account. A fresh
// connection is opened per message.
type SMTP struct {
	config Config
}

func NewSMTP(cfg Config) *SMTP {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTP{config: cfg}
}

// Send renders tmpl with data and delivers it to the recipient.
func (s *SMTP) Send(ctx context.Context, to string, tmpl zencode.Template, data map[string]string) error {
	subject, body, err := render(tmpl, data)
	if err != nil {
		return err
	}

	msg := []byte(
		fmt.Sprintf("From: %s\r\n", s.config.From) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	client, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer client.Quit()

	// Unauthenticated relays (local dev catchers) take no AUTH at all.
	if s.authEnabled() {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.config.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
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

func (s *SMTP) authEnabled() bool {
	return s.config.Username != ""
}

func (s *SMTP) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(s.config.Host, s.config.Port)
	tlsConfig := &tls.Config{ServerName: s.config.Host}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	if s.config.Port == "465" {
		conn = tls.Client(conn, tlsConfig)
		return smtp.NewClient(conn, s.config.Host)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
