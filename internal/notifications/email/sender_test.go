package email

import (
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusdash/statusdash/internal/notifications"
)

func TestNewSenderValidation(t *testing.T) {
	sender, err := NewSender(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP host is required")
	assert.Nil(t, sender)
}

func TestNewSenderDefaults(t *testing.T) {
	sender, err := NewSender(Config{Host: "smtp.example.com"})
	require.NoError(t, err)

	assert.Equal(t, 587, sender.config.Port)
	assert.Equal(t, 50, sender.config.BatchSize)
	assert.Nil(t, sender.auth, "no auth without credentials")
}

func TestNewSenderAuth(t *testing.T) {
	sender, err := NewSender(Config{
		Host:     "smtp.example.com",
		User:     "mailer",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.NotNil(t, sender.auth)
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage(notifications.Email{
		From:    "Status <status@example.com>",
		Subject: "[Incident] Database down",
		Body:    "We are on it.",
	}))

	assert.True(t, strings.HasPrefix(msg, "From: Status <status@example.com>\r\n"))
	assert.Contains(t, msg, "To: undisclosed-recipients:;\r\n")
	assert.Contains(t, msg, "Subject: [Incident] Database down\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=\"utf-8\"\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\nWe are on it."))
}

func TestBuildMessageHTML(t *testing.T) {
	msg := string(buildMessage(notifications.Email{
		From:    "status@example.com",
		Subject: "s",
		Body:    "<html><body><p>hi</p></body></html>",
		HTML:    true,
	}))

	assert.Contains(t, msg, "Content-Type: text/html; charset=\"utf-8\"\r\n")
}

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"status@example.com", "status@example.com"},
		{"Status <status@example.com>", "status@example.com"},
		{"Broken <status@example.com", "Broken <status@example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractEmail(tt.address))
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"temporary smtp code", errors.New("421 service not available"), true},
		{"insufficient storage", errors.New("452 insufficient storage"), true},
		{"permanent smtp code", errors.New("550 mailbox not found"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
