package settings

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a settings section was never saved.
// Callers fall back to defaults.
var ErrNotFound = errors.New("settings section not found")

// Section keys as stored in the database and the cache.
const (
	SectionMessages   = "messages"
	SectionLogo       = "logo"
	SectionSystemURL  = "systemurl"
	SectionEmail      = "email_config"
	SectionEscalation = "escalation_config"
	SectionReport     = "report_config"
)

// Repository defines storage operations for settings sections. Each
// section is persisted as one JSON document under its key.
type Repository interface {
	Load(ctx context.Context, section string, dest any) error
	Save(ctx context.Context, section string, value any) error
}
