package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusdash/statusdash/internal/domain"
)

// stubMessages implements MessagesProvider for testing.
type stubMessages struct {
	messages domain.MessagesSettings
}

func (s *stubMessages) Messages(_ context.Context) (domain.MessagesSettings, error) {
	return s.messages, nil
}

func newTestRouter(t *testing.T, repo Repository) *chi.Mux {
	t.Helper()
	h := NewHandler(newTestService(t, repo), &stubMessages{
		messages: domain.MessagesSettings{Main: "all good", MainEnabled: true},
	})
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestGetDashboardRejectsMalformedRef(t *testing.T) {
	router := newTestRouter(t, &mockRepository{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard?ref=not-a-date", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDashboardRejectsUnknownTimezone(t *testing.T) {
	router := newTestRouter(t, &mockRepository{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard?tz=Nowhere/Nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDashboard(t *testing.T) {
	end := date(2024, 1, 8)
	repo := &mockRepository{
		services: []domain.Service{{ID: 10, Name: "api"}},
		active: []*ActiveEvent{
			{ID: 2, Type: domain.EventTypeIncident, Description: "api down", Start: date(2024, 1, 10), Services: []ServiceRef{{ID: 10, Name: "api"}}},
		},
		ranged: []RangeEvent{
			{ID: 1, Type: domain.EventTypeMaintenance, Status: domain.EventStatusCompleted, Start: date(2024, 1, 6), End: &end, Services: []ServiceRef{{ID: 10, Name: "api"}}},
			{ID: 2, Type: domain.EventTypeIncident, Status: domain.EventStatusOpen, Start: date(2024, 1, 10), Services: []ServiceRef{{ID: 10, Name: "api"}}},
		},
		starts: []EventStart{
			{Type: domain.EventTypeIncident, Start: date(2024, 1, 10)},
		},
	}
	router := newTestRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?ref=2024-01-10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data DashboardResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	resp := body.Data
	assert.Equal(t, "2024-01-10", resp.Ref)
	assert.Equal(t, "2024-01-03", resp.Previous)
	assert.Equal(t, "2024-01-17", resp.Next)
	assert.True(t, resp.ShowTrend)
	assert.Len(t, resp.Trend, 31)
	assert.Equal(t, "all good", resp.Messages.Main)

	require.Len(t, resp.Grid.Rows, 1)
	row := resp.Grid.Rows[0]
	assert.Equal(t, domain.RowStatusActiveIncident, row.Status)
	assert.Len(t, row.Cells[2], 1, "completed maintenance in the Jan 6 cell")
	assert.Len(t, row.Cells[6], 1, "open incident in the reference cell")

	require.Contains(t, resp.Timeline.Events[domain.EventTypeIncident], int64(2))
}

func TestGetDashboardRespectsTimezoneDayBoundary(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 23:30 UTC on Jan 9 is already Jan 10 in Tokyo.
	start := time.Date(2024, 1, 9, 23, 30, 0, 0, time.UTC)
	repo := &mockRepository{
		services: []domain.Service{{ID: 10, Name: "api"}},
		ranged: []RangeEvent{
			{ID: 1, Type: domain.EventTypeIncident, Status: domain.EventStatusOpen, Start: start, Services: []ServiceRef{{ID: 10, Name: "api"}}},
		},
	}
	svc := newTestService(t, repo)

	grid, err := svc.BuildGrid(context.Background(), time.Date(2024, 1, 10, 0, 0, 0, 0, loc), loc)
	require.NoError(t, err)

	require.Len(t, grid.Rows, 1)
	assert.Len(t, grid.Rows[0].Cells[6], 1)
	assert.Empty(t, grid.Rows[0].Cells[5])
}
