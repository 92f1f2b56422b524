//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/statusdash/statusdash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardPayload struct {
	Data struct {
		Ref      string `json:"ref"`
		Previous string `json:"previous"`
		Next     string `json:"next"`
		Grid     struct {
			Dates []string `json:"dates"`
			Rows  []struct {
				Service struct {
					ID   int64  `json:"id"`
					Name string `json:"name"`
				} `json:"service"`
				Status int `json:"status"`
				Cells  [][]struct {
					EventID     int64  `json:"event_id"`
					Type        string `json:"type"`
					Description string `json:"description"`
				} `json:"cells"`
			} `json:"rows"`
		} `json:"grid"`
		Timeline struct {
			Events map[string]map[string]struct {
				Description string `json:"description"`
				Services    []struct {
					ID   int64  `json:"id"`
					Name string `json:"name"`
				} `json:"services"`
				Updates []struct {
					Text string `json:"text"`
				} `json:"updates"`
			} `json:"events"`
			Lookup map[string]map[string]string `json:"lookup"`
		} `json:"timeline"`
		Trend []struct {
			Date         string `json:"date"`
			Incidents    int    `json:"incidents"`
			Maintenances int    `json:"maintenances"`
		} `json:"trend"`
		ShowTrend bool `json:"show_trend"`
	} `json:"data"`
}

func getDashboard(t *testing.T, client *testutil.Client, query string) dashboardPayload {
	t.Helper()

	resp, err := client.GET("/api/v1/dashboard" + query)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload dashboardPayload
	testutil.DecodeJSON(t, resp, &payload)
	return payload
}

func TestDashboard_ActiveIncidentMarksRow(t *testing.T) {
	client := adminClient(t)

	serviceName := uniqueName("Gateway")
	serviceID := createTestService(t, client, serviceName)
	description := uniqueName("gateway-unreachable")
	eventID := createTestEvent(t, client, map[string]interface{}{
		"description": description,
		"service_ids": []int64{serviceID},
	})

	payload := getDashboard(t, client, "")

	require.Len(t, payload.Data.Grid.Dates, 7)
	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, today, payload.Data.Grid.Dates[6])
	assert.Equal(t, today, payload.Data.Ref)

	var row *struct {
		Service struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"service"`
		Status int `json:"status"`
		Cells  [][]struct {
			EventID     int64  `json:"event_id"`
			Type        string `json:"type"`
			Description string `json:"description"`
		} `json:"cells"`
	}
	for i := range payload.Data.Grid.Rows {
		if payload.Data.Grid.Rows[i].Service.ID == serviceID {
			row = &payload.Data.Grid.Rows[i]
		}
	}
	require.NotNil(t, row, "service row missing from grid")
	assert.Equal(t, serviceName, row.Service.Name)
	assert.Equal(t, 1, row.Status, "open incident should mark the row")

	require.Len(t, row.Cells, 7)
	todayCell := row.Cells[6]
	require.Len(t, todayCell, 1)
	assert.Equal(t, eventID, todayCell[0].EventID)
	assert.Equal(t, "incident", todayCell[0].Type)

	// The incident also appears in the timeline with its service resolved.
	entry, ok := payload.Data.Timeline.Events["incident"][fmt.Sprint(eventID)]
	require.True(t, ok, "incident missing from timeline")
	assert.Equal(t, description, entry.Description)
	require.Len(t, entry.Services, 1)
	assert.Equal(t, serviceName, entry.Services[0].Name)

	name, ok := payload.Data.Timeline.Lookup["incident"][fmt.Sprint(serviceID)]
	require.True(t, ok, "service missing from timeline lookup")
	assert.Equal(t, serviceName, name)

	assert.True(t, payload.Data.ShowTrend)
}

func TestDashboard_ClosingIncidentClearsTimeline(t *testing.T) {
	client := adminClient(t)

	serviceID := createTestService(t, client, uniqueName("Billing"))
	description := uniqueName("billing-incident")
	eventID := createTestEvent(t, client, map[string]interface{}{
		"description": description,
		"service_ids": []int64{serviceID},
	})

	payload := getDashboard(t, client, "")
	_, ok := payload.Data.Timeline.Events["incident"][fmt.Sprint(eventID)]
	require.True(t, ok)

	resp, err := client.PATCH(fmt.Sprintf("/api/v1/events/%d", eventID), map[string]interface{}{
		"status":      "closed",
		"description": description,
		"start":       time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	payload = getDashboard(t, client, "")
	_, ok = payload.Data.Timeline.Events["incident"][fmt.Sprint(eventID)]
	assert.False(t, ok, "closed incident must leave the timeline")

	// The grid keeps the history.
	found := false
	for _, row := range payload.Data.Grid.Rows {
		if row.Service.ID != serviceID {
			continue
		}
		assert.Equal(t, 0, row.Status, "closed incident should not mark the row")
		for _, cell := range row.Cells {
			for _, e := range cell {
				if e.EventID == eventID {
					found = true
				}
			}
		}
	}
	assert.True(t, found, "closed incident should stay in the grid")
}

func TestDashboard_RefPaging(t *testing.T) {
	client := adminClient(t)

	payload := getDashboard(t, client, "?ref=2026-03-10")
	assert.Equal(t, "2026-03-10", payload.Data.Ref)
	assert.Equal(t, "2026-03-03", payload.Data.Previous)
	assert.Equal(t, "2026-03-17", payload.Data.Next)
	assert.Equal(t, "2026-03-04", payload.Data.Grid.Dates[0])
	assert.Equal(t, "2026-03-10", payload.Data.Grid.Dates[6])
}

func TestDashboard_TrendCountsStarts(t *testing.T) {
	client := adminClient(t)

	// Park the events on a quiet date far from other tests.
	day := "2026-02-14"
	createTestEvent(t, client, map[string]interface{}{
		"description": uniqueName("trend-incident"),
		"start":       day + "T08:00:00Z",
	})
	createTestEvent(t, client, map[string]interface{}{
		"type":        "maintenance",
		"status":      "planning",
		"description": uniqueName("trend-maintenance"),
		"start":       day + "T22:00:00Z",
	})

	payload := getDashboard(t, client, "?ref="+day)
	require.Len(t, payload.Data.Trend, 31)

	var point *struct {
		Date         string `json:"date"`
		Incidents    int    `json:"incidents"`
		Maintenances int    `json:"maintenances"`
	}
	for i := range payload.Data.Trend {
		if payload.Data.Trend[i].Date == day {
			point = &payload.Data.Trend[i]
		}
	}
	require.NotNil(t, point)
	assert.GreaterOrEqual(t, point.Incidents, 1)
	assert.GreaterOrEqual(t, point.Maintenances, 1)
}

func TestDashboard_BadInputs(t *testing.T) {
	client := newTestClientWithoutValidation()

	resp, err := client.GET("/api/v1/dashboard?tz=Mars/Olympus")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.GET("/api/v1/dashboard?ref=not-a-date")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
