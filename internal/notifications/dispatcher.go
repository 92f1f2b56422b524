package notifications

import (
	"context"
	"log/slog"

	"github.com/statusdash/statusdash/internal/domain"
)

// Email is a rendered message handed to the sender. Recipients go into
// the envelope only, so broadcasts do not leak the list.
type Email struct {
	From       string
	Subject    string
	Body       string
	HTML       bool
	Recipients []string
}

// EmailSender delivers a rendered email. Implemented by the SMTP
// sender in the email subpackage.
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// SettingsProvider supplies the admin-managed notification settings.
// Implemented by the settings service.
type SettingsProvider interface {
	Email(ctx context.Context) (domain.EmailSettings, error)
	SystemURL(ctx context.Context) (domain.SystemURLSettings, error)
}

// ServiceDirectory resolves service names for broadcast bodies.
// Implemented by the catalog service.
type ServiceDirectory interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
}

// Dispatcher renders and delivers broadcasts for event changes and
// user reports. Every method is best-effort: failures are logged and
// never surfaced to the caller.
type Dispatcher struct {
	renderer  *Renderer
	sender    EmailSender
	settings  SettingsProvider
	repo      Repository
	directory ServiceDirectory
}

// NewDispatcher creates a new notification dispatcher.
func NewDispatcher(renderer *Renderer, sender EmailSender, settings SettingsProvider, repo Repository, directory ServiceDirectory) *Dispatcher {
	return &Dispatcher{
		renderer:  renderer,
		sender:    sender,
		settings:  settings,
		repo:      repo,
		directory: directory,
	}
}

// EventCreated broadcasts a freshly created event.
func (d *Dispatcher) EventCreated(ctx context.Context, event *domain.Event) {
	d.dispatchEvent(ctx, MessageTypeEventCreated, event, "")
}

// EventUpdated broadcasts an event change, optionally with the latest
// progress note.
func (d *Dispatcher) EventUpdated(ctx context.Context, event *domain.Event, note string) {
	d.dispatchEvent(ctx, MessageTypeEventUpdated, event, note)
}

// ReportSubmitted forwards a user report to the admin recipients. No
// page is sent for reports.
func (d *Dispatcher) ReportSubmitted(ctx context.Context, report *domain.Report) {
	settings, err := d.settings.Email(ctx)
	if err != nil {
		slog.Error("failed to load email settings", "error", err)
		return
	}
	if !settings.Enabled {
		return
	}

	payload := NewReportPayload(report)
	d.sendEmail(ctx, settings, payload)
}

func (d *Dispatcher) dispatchEvent(ctx context.Context, messageType MessageType, event *domain.Event, note string) {
	settings, err := d.settings.Email(ctx)
	if err != nil {
		slog.Error("failed to load email settings", "error", err)
		return
	}
	if !settings.Enabled {
		return
	}

	payload := NewEventPayload(messageType, event, d.serviceNames(ctx, event), note)
	payload.Greeting = greetingFor(settings, messageType, event.Type)
	payload.Footer = settings.Footer

	if url, err := d.settings.SystemURL(ctx); err == nil && url.Enabled {
		payload.SystemURL = url.URL
	}

	d.sendEmail(ctx, settings, payload)
	d.sendPage(ctx, settings, payload)
}

// sendEmail delivers the email rendition to the recipient list.
func (d *Dispatcher) sendEmail(ctx context.Context, settings domain.EmailSettings, payload Payload) {
	recipients, err := d.repo.ListRecipients(ctx)
	if err != nil {
		slog.Error("failed to list recipients", "error", err)
		return
	}
	if len(recipients) == 0 {
		return
	}

	subject, body, err := d.renderer.Render(ChannelEmail, payload)
	if err != nil {
		slog.Error("failed to render email", "message_type", payload.MessageType, "error", err)
		return
	}

	email := Email{
		From:    settings.FromAddress,
		Subject: subject,
		Body:    body,
	}
	if settings.HTMLFormat {
		email.Body = d.renderer.HTMLBody(body)
		email.HTML = true
	}
	for _, r := range recipients {
		email.Recipients = append(email.Recipients, r.Email)
	}

	if err := d.sender.Send(ctx, email); err != nil {
		slog.Error("failed to send broadcast",
			"message_type", payload.MessageType,
			"recipient_count", len(email.Recipients),
			"error", err,
		)
		return
	}

	slog.Info("broadcast sent",
		"message_type", payload.MessageType,
		"recipient_count", len(email.Recipients),
	)
}

// sendPage delivers the short rendition to the text pager gateway.
func (d *Dispatcher) sendPage(ctx context.Context, settings domain.EmailSettings, payload Payload) {
	if settings.TextPager == "" {
		return
	}

	subject, body, err := d.renderer.Render(ChannelPager, payload)
	if err != nil {
		slog.Error("failed to render page", "message_type", payload.MessageType, "error", err)
		return
	}

	email := Email{
		From:       settings.FromAddress,
		Subject:    subject,
		Body:       body,
		Recipients: []string{settings.TextPager},
	}

	if err := d.sender.Send(ctx, email); err != nil {
		slog.Error("failed to send page", "message_type", payload.MessageType, "error", err)
	}
}

// serviceNames maps the event's service IDs to display names. Missing
// names are not fatal; the broadcast goes out without them.
func (d *Dispatcher) serviceNames(ctx context.Context, event *domain.Event) []string {
	if len(event.ServiceIDs) == 0 {
		return nil
	}

	services, err := d.directory.ListServices(ctx)
	if err != nil {
		slog.Warn("failed to resolve service names", "error", err)
		return nil
	}

	byID := make(map[int64]string, len(services))
	for _, s := range services {
		byID[s.ID] = s.Name
	}

	var names []string
	for _, id := range event.ServiceIDs {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

func greetingFor(settings domain.EmailSettings, messageType MessageType, eventType domain.EventType) string {
	if eventType == domain.EventTypeIncident {
		if messageType == MessageTypeEventCreated {
			return settings.IncidentGreeting
		}
		return settings.IncidentUpdate
	}
	if messageType == MessageTypeEventCreated {
		return settings.MaintenanceGreeting
	}
	return settings.MaintenanceUpdate
}
