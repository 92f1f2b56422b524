// Package email delivers notifications via SMTP.
package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/statusdash/statusdash/internal/notifications"
)

// Config holds the SMTP relay configuration. The from-address and
// message texts are admin-managed settings and arrive with each send.
type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	BatchSize int
}

// Sender implements notifications.EmailSender over SMTP with STARTTLS.
type Sender struct {
	config Config
	auth   smtp.Auth
}

// NewSender creates a new SMTP sender.
func NewSender(config Config) (*Sender, error) {
	if config.Host == "" {
		return nil, errors.New("email sender: SMTP host is required")
	}
	if config.Port == 0 {
		config.Port = 587
	}
	if config.BatchSize == 0 {
		config.BatchSize = 50
	}

	var auth smtp.Auth
	if config.User != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.User, config.Password, config.Host)
	}

	slog.Info("email sender configured",
		"smtp_host", config.Host,
		"smtp_port", config.Port,
		"batch_size", config.BatchSize,
	)

	return &Sender{config: config, auth: auth}, nil
}

// Send delivers the email, splitting recipients into batches to
// respect relay limits. A retryable failure is attempted once more.
func (s *Sender) Send(ctx context.Context, email notifications.Email) error {
	if len(email.Recipients) == 0 {
		return nil
	}

	msg := buildMessage(email)

	var lastErr error
	for i := 0; i < len(email.Recipients); i += s.config.BatchSize {
		end := min(i+s.config.BatchSize, len(email.Recipients))
		batch := email.Recipients[i:end]

		err := s.sendBatch(ctx, email.From, batch, msg)
		if err != nil && IsRetryable(err) {
			err = s.sendBatch(ctx, email.From, batch, msg)
		}
		if err != nil {
			slog.Error("failed to send email batch",
				"batch_start", i,
				"batch_size", len(batch),
				"error", err,
			)
			lastErr = err
		}
	}

	return lastErr
}

// buildMessage constructs the message with headers. Recipients stay in
// the envelope so the list is not disclosed.
func buildMessage(email notifications.Email) []byte {
	contentType := "text/plain"
	if email.HTML {
		contentType = "text/html"
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", email.From))
	msg.WriteString("To: undisclosed-recipients:;\r\n")
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"utf-8\"\r\n", contentType))
	msg.WriteString("\r\n")
	msg.WriteString(email.Body)

	return []byte(msg.String())
}

// sendBatch delivers one envelope over STARTTLS (port 587).
func (s *Sender) sendBatch(ctx context.Context, from string, recipients []string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if s.auth != nil {
		if err := client.Auth(s.auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := client.Mail(extractEmail(from)); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}

	var addedRecipients int
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			slog.Warn("failed to add recipient", "error", err)
			continue
		}
		addedRecipients++
	}
	if addedRecipients == 0 {
		return errors.New("no valid recipients")
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return client.Quit()
}

// extractEmail extracts the address from formats like "Name <a@b.c>".
func extractEmail(address string) string {
	if idx := strings.Index(address, "<"); idx != -1 {
		end := strings.Index(address, ">")
		if end > idx {
			return address[idx+1 : end]
		}
	}
	return address
}

// IsRetryable determines if a send error is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	errStr := err.Error()

	// SMTP 4xx codes are temporary failures.
	if strings.Contains(errStr, "421") ||
		strings.Contains(errStr, "450") ||
		strings.Contains(errStr, "451") ||
		strings.Contains(errStr, "452") {
		return true
	}

	return false
}
