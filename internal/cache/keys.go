package cache

import (
	"fmt"
	"time"
)

// Well-known cache keys. Mutators invalidate these by name; derived
// per-range keys are invalidated in bulk through their namespace token.
const (
	KeyTimeline   = "timeline"
	KeyServices   = "services"
	KeyMessages   = "messages"
	KeyLogo       = "logo"
	KeySystemURL  = "systemurl"
	KeyEmail      = "email_config"
	KeyEscalation = "escalation_config"
	KeyReport     = "report_config"

	// Namespace families seeding the derived per-range keys.
	FamilyEvents     = "events_ns"
	FamilyEventCount = "event_count_ns"
)

// EventsKey derives the cache key for the dashboard grid's event-range
// query. The namespace token versions the whole family; the timezone
// abbreviation keeps ranges with different day boundaries apart.
func EventsKey(token string, from, to time.Time) string {
	return fmt.Sprintf("events_%s_%s_%s", token, from.Format("20060102MST"), to.Format("20060102MST"))
}

// EventCountKey derives the cache key for the trend counter's range query.
func EventCountKey(token string, back, forward time.Time) string {
	return fmt.Sprintf("event_count_%s_%s_%s", token, back.Format("20060102MST"), forward.Format("20060102MST"))
}
