package notifications

import (
	"time"

	"github.com/statusdash/statusdash/internal/domain"
)

// MessageType defines the kind of notification being rendered.
type MessageType string

// Message types.
const (
	MessageTypeEventCreated    MessageType = "event_created"
	MessageTypeEventUpdated    MessageType = "event_updated"
	MessageTypeReportSubmitted MessageType = "report_submitted"
)

// Channel selects the template family a message is rendered for.
type Channel string

// Channels. Pager messages are short single-line texts delivered
// through an email-to-SMS gateway.
const (
	ChannelEmail Channel = "email"
	ChannelPager Channel = "pager"
)

// Payload contains data for rendering a notification.
type Payload struct {
	MessageType MessageType
	Greeting    string
	Footer      string
	SystemURL   string
	Event       *domain.Event
	Services    []string
	Note        string
	Report      *domain.Report
	GeneratedAt time.Time
}

// NewEventPayload creates a payload for an event broadcast. Note is
// empty for freshly created events.
func NewEventPayload(messageType MessageType, event *domain.Event, services []string, note string) Payload {
	return Payload{
		MessageType: messageType,
		Event:       event,
		Services:    services,
		Note:        note,
		GeneratedAt: time.Now(),
	}
}

// NewReportPayload creates a payload for a submitted user report.
func NewReportPayload(report *domain.Report) Payload {
	return Payload{
		MessageType: MessageTypeReportSubmitted,
		Report:      report,
		GeneratedAt: time.Now(),
	}
}
