package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/statusdash/statusdash/internal/domain"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// channelMessages lists which message types each channel carries.
// Pagers only receive event broadcasts.
var channelMessages = map[Channel][]MessageType{
	ChannelEmail: {MessageTypeEventCreated, MessageTypeEventUpdated, MessageTypeReportSubmitted},
	ChannelPager: {MessageTypeEventCreated, MessageTypeEventUpdated},
}

// Renderer renders notifications from templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer creates a new renderer and loads all templates.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"title":      titleCase,
		"upper":      upperCase,
		"lower":      lowerCase,
		"join":       strings.Join,
		"formatTime": formatTime,
	}

	r := &Renderer{templates: make(map[string]*template.Template)}

	for channel, messages := range channelMessages {
		for _, msg := range messages {
			name := fmt.Sprintf("%s_%s", channel, msg)
			filename := fmt.Sprintf("templates/%s.tmpl", name)

			content, err := templatesFS.ReadFile(filename)
			if err != nil {
				return nil, fmt.Errorf("read template %s: %w", filename, err)
			}

			tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
			if err != nil {
				return nil, fmt.Errorf("parse template %s: %w", name, err)
			}

			r.templates[name] = tmpl
		}
	}

	return r, nil
}

// Render renders a notification payload for the specified channel.
// Returns subject and body.
func (r *Renderer) Render(channel Channel, payload Payload) (subject, body string, err error) {
	subject = r.renderSubject(payload)

	templateName := fmt.Sprintf("%s_%s", channel, payload.MessageType)
	tmpl, ok := r.templates[templateName]
	if !ok {
		return "", "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, payload); err != nil {
		return "", "", fmt.Errorf("execute template %s: %w", templateName, err)
	}

	body = strings.TrimSpace(buf.String())
	return subject, body, nil
}

// HTMLBody wraps a rendered plain-text body for HTML delivery.
func (r *Renderer) HTMLBody(body string) string {
	escaped := html.EscapeString(body)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
	return "<html><body><p>" + escaped + "</p></body></html>"
}

// renderSubject generates the notification subject line.
func (r *Renderer) renderSubject(payload Payload) string {
	switch payload.MessageType {
	case MessageTypeEventCreated:
		prefix := "Scheduled Maintenance"
		if payload.Event != nil && payload.Event.Type == domain.EventTypeIncident {
			prefix = "Incident"
		}
		return fmt.Sprintf("[%s] %s", prefix, truncate(payload.Event.Description, 80))
	case MessageTypeEventUpdated:
		return fmt.Sprintf("[Update] %s", truncate(payload.Event.Description, 80))
	case MessageTypeReportSubmitted:
		return fmt.Sprintf("[User Report] %s", truncate(payload.Report.Detail, 80))
	default:
		return "[Notification]"
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

// Template functions. They take any so named string types like
// domain.EventType pass through without conversion in templates.

var titleCaser = cases.Title(language.English)

func titleCase(v any) string {
	return titleCaser.String(fmt.Sprint(v))
}

func upperCase(v any) string {
	return strings.ToUpper(fmt.Sprint(v))
}

func lowerCase(v any) string {
	return strings.ToLower(fmt.Sprint(v))
}

func formatTime(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format("Jan 2, 2006 15:04 UTC")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.UTC().Format("Jan 2, 2006 15:04 UTC")
	}
	return ""
}
