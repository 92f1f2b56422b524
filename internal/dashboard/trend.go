package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/statusdash/statusdash/internal/cache"
	"github.com/statusdash/statusdash/internal/domain"
)

// trendReach is how many days the trend window extends on each side of
// the reference day.
const trendReach = 15

// TrendPoint is one day in the trend series: how many incidents and
// maintenances started on that date.
type TrendPoint struct {
	Date         string `json:"date"`
	Incidents    int    `json:"incidents"`
	Maintenances int    `json:"maintenances"`
}

// Trend is the 31-day event frequency series centered on the reference
// day. Show stays false only while every count in the window is zero.
type Trend struct {
	Points []TrendPoint `json:"points"`
	Show   bool         `json:"show"`
}

// BuildTrend assembles the trend series for the 31 calendar days
// centered on ref, with day boundaries taken in loc.
func (s *Service) BuildTrend(ctx context.Context, ref time.Time, loc *time.Location) (*Trend, error) {
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
	back := refDay.AddDate(0, 0, -trendReach)
	forward := refDay.Add(24*time.Hour - time.Second).AddDate(0, 0, trendReach)

	starts, err := s.eventStarts(ctx, back, forward)
	if err != nil {
		return nil, err
	}

	days := 2*trendReach + 1
	points := make([]TrendPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := back.AddDate(0, 0, i).Format(dateLayout)
		points[i] = TrendPoint{Date: d}
		index[d] = i
	}

	show := false
	for _, ev := range starts {
		i, ok := index[ev.Start.In(loc).Format(dateLayout)]
		if !ok {
			continue
		}
		switch ev.Type {
		case domain.EventTypeIncident:
			points[i].Incidents++
		case domain.EventTypeMaintenance:
			points[i].Maintenances++
		default:
			continue
		}
		show = true
	}

	return &Trend{Points: points, Show: show}, nil
}

// eventStarts returns the (type, start) pairs of non-planning events
// starting within [back, forward], read-through cached under a
// namespace-derived range key.
func (s *Service) eventStarts(ctx context.Context, back, forward time.Time) ([]EventStart, error) {
	token := s.cache.Namespace(ctx, cache.FamilyEventCount)
	key := cache.EventCountKey(token, back, forward)

	var starts []EventStart
	if s.cache.Get(ctx, key, &starts) {
		return starts, nil
	}

	starts, err := s.repo.ListEventStarts(ctx, back, forward)
	if err != nil {
		return nil, fmt.Errorf("list event starts: %w", err)
	}

	s.cache.Set(ctx, key, starts, 0)
	return starts, nil
}
