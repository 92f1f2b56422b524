package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/statusdash/statusdash/internal/cache"
	"github.com/statusdash/statusdash/internal/domain"
)

// gridDays is the width of the status grid, reference day included.
const gridDays = 7

// dateLayout is the calendar-date format used in grid and trend output.
const dateLayout = "2006-01-02"

// GridCell is one event shown in a date cell of a service row.
type GridCell struct {
	EventID     int64              `json:"event_id"`
	Type        domain.EventType   `json:"type"`
	Status      domain.EventStatus `json:"status"`
	Description string             `json:"description"`
	Start       time.Time          `json:"start"`
	End         *time.Time         `json:"end"`
}

// GridRow is one service row: its overall status marker and one cell
// slice per date. An empty cell slice renders as green.
type GridRow struct {
	Service ServiceRef       `json:"service"`
	Status  domain.RowStatus `json:"status"`
	Cells   [][]GridCell     `json:"cells"`
}

// Grid is the 7-day per-service status grid ending on the reference day.
type Grid struct {
	Dates []string  `json:"dates"`
	Rows  []GridRow `json:"rows"`
}

// BuildGrid assembles the status grid for the 7 calendar days ending on
// ref, with day boundaries taken in loc. Multi-day events appear only
// in their start-date cell.
func (s *Service) BuildGrid(ctx context.Context, ref time.Time, loc *time.Location) (*Grid, error) {
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
	from := refDay.AddDate(0, 0, -(gridDays - 1))
	to := refDay.Add(24*time.Hour - time.Second)

	dates := make([]string, gridDays)
	dateIndex := make(map[string]int, gridDays)
	for i := 0; i < gridDays; i++ {
		d := from.AddDate(0, 0, i).Format(dateLayout)
		dates[i] = d
		dateIndex[d] = i
	}

	services, err := s.listServices(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.rangeEvents(ctx, from, to)
	if err != nil {
		return nil, err
	}

	timeline, err := s.GetTimeline(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]GridRow, 0, len(services))
	for _, svc := range services {
		row := GridRow{
			Service: ServiceRef{ID: svc.ID, Name: svc.Name},
			Status:  rowStatus(timeline, svc.ID),
			Cells:   make([][]GridCell, gridDays),
		}
		for i := range row.Cells {
			row.Cells[i] = make([]GridCell, 0)
		}

		for _, ev := range events {
			if !impacts(ev, svc.ID) {
				continue
			}
			idx, ok := dateIndex[ev.Start.In(loc).Format(dateLayout)]
			if !ok {
				continue
			}
			row.Cells[idx] = append(row.Cells[idx], GridCell{
				EventID:     ev.ID,
				Type:        ev.Type,
				Status:      ev.Status,
				Description: ev.Description,
				Start:       ev.Start,
				End:         ev.End,
			})
		}

		rows = append(rows, row)
	}

	return &Grid{Dates: dates, Rows: rows}, nil
}

// rangeEvents returns the non-planning events starting within
// [from, to], read-through cached under a namespace-derived range key.
func (s *Service) rangeEvents(ctx context.Context, from, to time.Time) ([]RangeEvent, error) {
	token := s.cache.Namespace(ctx, cache.FamilyEvents)
	key := cache.EventsKey(token, from, to)

	var events []RangeEvent
	if s.cache.Get(ctx, key, &events) {
		return events, nil
	}

	events, err := s.repo.ListEventsInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events in range: %w", err)
	}

	s.cache.Set(ctx, key, events, 0)
	return events, nil
}

// rowStatus derives the overall marker for a service row from the
// currently active events. An active incident dominates an active
// maintenance.
func rowStatus(timeline *Timeline, serviceID int64) domain.RowStatus {
	if timeline.Impacted(domain.EventTypeIncident, serviceID) {
		return domain.RowStatusActiveIncident
	}
	if timeline.Impacted(domain.EventTypeMaintenance, serviceID) {
		return domain.RowStatusActiveMaintenance
	}
	return domain.RowStatusGreen
}

func impacts(ev RangeEvent, serviceID int64) bool {
	for _, svc := range ev.Services {
		if svc.ID == serviceID {
			return true
		}
	}
	return false
}
