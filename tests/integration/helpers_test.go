//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/statusdash/statusdash/internal/testutil"
	"github.com/stretchr/testify/require"
)

var nameSeq atomic.Int64

// uniqueName appends a process-unique suffix so tests sharing the
// database never collide on unique columns.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, nameSeq.Add(1))
}

// adminClient returns a validated client logged in as the bootstrap admin.
func adminClient(t *testing.T) *testutil.Client {
	t.Helper()
	client := newTestClient(t)
	client.LoginAs(t, adminUsername, adminPassword)
	return client
}

// createTestService creates a service and registers cleanup.
func createTestService(t *testing.T, client *testutil.Client, name string) int64 {
	t.Helper()

	resp, err := client.POST("/api/v1/services", map[string]string{"name": name})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)

	id := result.Data.ID
	t.Cleanup(func() {
		resp, err := client.DELETE(fmt.Sprintf("/api/v1/services/%d?force=true", id))
		if err == nil {
			_ = resp.Body.Close()
		}
	})
	return id
}

// createTestEvent creates an event and registers cleanup. Extra fields
// in payload override the defaults.
func createTestEvent(t *testing.T, client *testutil.Client, payload map[string]interface{}) int64 {
	t.Helper()

	body := map[string]interface{}{
		"type":        "incident",
		"status":      "open",
		"description": uniqueName("test incident"),
		"start":       time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range payload {
		body[k] = v
	}

	resp, err := client.POST("/api/v1/events", body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)

	id := result.Data.ID
	t.Cleanup(func() {
		resp, err := client.DELETE(fmt.Sprintf("/api/v1/events/%d", id))
		if err == nil {
			_ = resp.Body.Close()
		}
	})
	return id
}

// enableReportIntake turns the public report form on for the duration
// of the test, restoring the disabled default afterwards.
func enableReportIntake(t *testing.T, client *testutil.Client, emailEnabled bool) {
	t.Helper()

	putReportSettings(t, client, map[string]interface{}{
		"enabled":        true,
		"email_enabled":  emailEnabled,
		"upload_enabled": true,
		"max_file_size":  1 << 20,
	})
	t.Cleanup(func() {
		putReportSettings(t, client, map[string]interface{}{"enabled": false})
	})
}

func putReportSettings(t *testing.T, client *testutil.Client, body map[string]interface{}) {
	t.Helper()

	resp, err := client.PUT("/api/v1/settings/report", body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

// enableEmailBroadcasts switches outbound email on and restores the
// disabled default afterwards.
func enableEmailBroadcasts(t *testing.T, client *testutil.Client, body map[string]interface{}) {
	t.Helper()

	settings := map[string]interface{}{
		"enabled":      true,
		"from_address": "status@example.com",
	}
	for k, v := range body {
		settings[k] = v
	}

	resp, err := client.PUT("/api/v1/settings/email", settings)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	t.Cleanup(func() {
		resp, err := client.PUT("/api/v1/settings/email", map[string]interface{}{"enabled": false})
		if err == nil {
			_ = resp.Body.Close()
		}
		require.NoError(t, err)
		require.NoError(t, mailpitClient.DeleteAllMessages())
	})
}

// addRecipient registers a broadcast recipient and removes it afterwards.
func addRecipient(t *testing.T, client *testutil.Client, email string) {
	t.Helper()

	resp, err := client.POST("/api/v1/recipients", map[string]string{"email": email})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)

	id := result.Data.ID
	t.Cleanup(func() {
		resp, err := client.DELETE(fmt.Sprintf("/api/v1/recipients/%d", id))
		if err == nil {
			_ = resp.Body.Close()
		}
	})
}
