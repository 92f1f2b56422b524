package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusdash/statusdash/internal/domain"
)

type mockSender struct {
	sent    []Email
	sendErr error
}

func (m *mockSender) Send(_ context.Context, email Email) error {
	m.sent = append(m.sent, email)
	return m.sendErr
}

type stubDispatchSettings struct {
	email     domain.EmailSettings
	systemURL string
	emailErr  error
}

func (s *stubDispatchSettings) Email(context.Context) (domain.EmailSettings, error) {
	return s.email, s.emailErr
}

func (s *stubDispatchSettings) SystemURL(context.Context) (domain.SystemURLSettings, error) {
	return domain.SystemURLSettings{URL: s.systemURL, Enabled: s.systemURL != ""}, nil
}

type stubRecipients struct {
	recipients []domain.Recipient
	listErr    error
}

func (s *stubRecipients) ListRecipients(context.Context) ([]domain.Recipient, error) {
	return s.recipients, s.listErr
}

func (s *stubRecipients) CreateRecipient(context.Context, *domain.Recipient) error { return nil }
func (s *stubRecipients) DeleteRecipient(context.Context, int64) error             { return nil }

type stubDirectory struct {
	services []domain.Service
}

func (s *stubDirectory) ListServices(context.Context) ([]domain.Service, error) {
	return s.services, nil
}

func enabledSettings() domain.EmailSettings {
	return domain.EmailSettings{
		Enabled:          true,
		FromAddress:      "Status <status@example.com>",
		IncidentGreeting: "We are aware of a problem.",
		IncidentUpdate:   "An update on an ongoing incident.",
		Footer:           "The Operations Team",
	}
}

func testIncident() *domain.Event {
	return &domain.Event{
		ID:          7,
		Type:        domain.EventTypeIncident,
		Status:      domain.EventStatusOpen,
		Description: "Database connectivity issues",
		Start:       time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
		ServiceIDs:  []int64{1, 3},
	}
}

func newTestDispatcher(t *testing.T, settings *stubDispatchSettings, repo *stubRecipients) (*Dispatcher, *mockSender) {
	t.Helper()

	renderer, err := NewRenderer()
	require.NoError(t, err)

	sender := &mockSender{}
	directory := &stubDirectory{services: []domain.Service{
		{ID: 1, Name: "API Gateway"},
		{ID: 2, Name: "Billing"},
		{ID: 3, Name: "User Service"},
	}}

	return NewDispatcher(renderer, sender, settings, repo, directory), sender
}

func TestDispatcherSkipsWhenDisabled(t *testing.T) {
	settings := &stubDispatchSettings{email: domain.EmailSettings{Enabled: false}}
	repo := &stubRecipients{recipients: []domain.Recipient{{Email: "ops@example.com"}}}
	d, sender := newTestDispatcher(t, settings, repo)

	d.EventCreated(context.Background(), testIncident())

	assert.Empty(t, sender.sent)
}

func TestDispatcherSkipsOnSettingsError(t *testing.T) {
	settings := &stubDispatchSettings{emailErr: errors.New("boom")}
	d, sender := newTestDispatcher(t, settings, &stubRecipients{})

	d.EventCreated(context.Background(), testIncident())

	assert.Empty(t, sender.sent)
}

func TestDispatcherEventCreated(t *testing.T) {
	settings := &stubDispatchSettings{email: enabledSettings(), systemURL: "https://status.example.com"}
	repo := &stubRecipients{recipients: []domain.Recipient{
		{Email: "a@example.com"},
		{Email: "b@example.com"},
	}}
	d, sender := newTestDispatcher(t, settings, repo)

	d.EventCreated(context.Background(), testIncident())

	require.Len(t, sender.sent, 1)
	email := sender.sent[0]
	assert.Equal(t, "Status <status@example.com>", email.From)
	assert.Equal(t, "[Incident] Database connectivity issues", email.Subject)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, email.Recipients)
	assert.False(t, email.HTML)
	assert.Contains(t, email.Body, "We are aware of a problem.")
	assert.Contains(t, email.Body, "API Gateway, User Service")
	assert.NotContains(t, email.Body, "Billing")
	assert.Contains(t, email.Body, "https://status.example.com")
	assert.Contains(t, email.Body, "The Operations Team")
}

func TestDispatcherHTMLFormat(t *testing.T) {
	emailSettings := enabledSettings()
	emailSettings.HTMLFormat = true
	settings := &stubDispatchSettings{email: emailSettings}
	repo := &stubRecipients{recipients: []domain.Recipient{{Email: "a@example.com"}}}
	d, sender := newTestDispatcher(t, settings, repo)

	d.EventCreated(context.Background(), testIncident())

	require.Len(t, sender.sent, 1)
	assert.True(t, sender.sent[0].HTML)
	assert.Contains(t, sender.sent[0].Body, "<br>")
}

func TestDispatcherPagesOnEvents(t *testing.T) {
	emailSettings := enabledSettings()
	emailSettings.TextPager = "5551234@pager.example.com"
	settings := &stubDispatchSettings{email: emailSettings}
	repo := &stubRecipients{recipients: []domain.Recipient{{Email: "a@example.com"}}}
	d, sender := newTestDispatcher(t, settings, repo)

	d.EventCreated(context.Background(), testIncident())

	require.Len(t, sender.sent, 2)
	page := sender.sent[1]
	assert.Equal(t, []string{"5551234@pager.example.com"}, page.Recipients)
	assert.False(t, page.HTML)
	assert.Contains(t, page.Body, "INCIDENT OPEN:")
	assert.NotContains(t, page.Body, "\n")
}

func TestDispatcherPagesEvenWithoutRecipients(t *testing.T) {
	emailSettings := enabledSettings()
	emailSettings.TextPager = "5551234@pager.example.com"
	settings := &stubDispatchSettings{email: emailSettings}
	d, sender := newTestDispatcher(t, settings, &stubRecipients{})

	d.EventCreated(context.Background(), testIncident())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"5551234@pager.example.com"}, sender.sent[0].Recipients)
}

func TestDispatcherEventUpdatedGreetingAndNote(t *testing.T) {
	settings := &stubDispatchSettings{email: enabledSettings()}
	repo := &stubRecipients{recipients: []domain.Recipient{{Email: "a@example.com"}}}
	d, sender := newTestDispatcher(t, settings, repo)

	d.EventUpdated(context.Background(), testIncident(), "Failover completed.")

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Body, "An update on an ongoing incident.")
	assert.Contains(t, sender.sent[0].Body, "Failover completed.")
}

func TestDispatcherReportSubmittedSkipsPager(t *testing.T) {
	emailSettings := enabledSettings()
	emailSettings.TextPager = "5551234@pager.example.com"
	settings := &stubDispatchSettings{email: emailSettings}
	repo := &stubRecipients{recipients: []domain.Recipient{{Email: "a@example.com"}}}
	d, sender := newTestDispatcher(t, settings, repo)

	d.ReportSubmitted(context.Background(), &domain.Report{
		Date:   time.Now(),
		Name:   "Jordan",
		Email:  "jordan@example.com",
		Detail: "Blank page",
	})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "[User Report] Blank page", sender.sent[0].Subject)
	assert.Equal(t, []string{"a@example.com"}, sender.sent[0].Recipients)
}
