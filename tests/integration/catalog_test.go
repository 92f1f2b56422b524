//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/statusdash/statusdash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_CreateRenameDelete(t *testing.T) {
	client := adminClient(t)

	name := uniqueName("Payments")
	serviceID := createTestService(t, client, name)

	resp, err := client.GET(fmt.Sprintf("/api/v1/services/%d", serviceID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &got)
	assert.Equal(t, name, got.Data.Name)

	renamed := uniqueName("Payments-EU")
	resp, err = client.PATCH(fmt.Sprintf("/api/v1/services/%d", serviceID), map[string]string{
		"name": renamed,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &got)
	assert.Equal(t, renamed, got.Data.Name)

	resp, err = client.GET("/api/v1/services")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Data []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &list)
	found := false
	for _, s := range list.Data {
		if s.ID == serviceID {
			found = true
			assert.Equal(t, renamed, s.Name)
		}
	}
	assert.True(t, found, "renamed service missing from list")

	resp, err = client.DELETE(fmt.Sprintf("/api/v1/services/%d", serviceID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.WithoutValidation().GET(fmt.Sprintf("/api/v1/services/%d", serviceID))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCatalog_DuplicateName(t *testing.T) {
	client := adminClient(t)

	name := uniqueName("Search")
	createTestService(t, client, name)

	resp, err := client.WithoutValidation().POST("/api/v1/services", map[string]string{"name": name})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCatalog_DeleteWithEventsRefused(t *testing.T) {
	client := adminClient(t)

	serviceID := createTestService(t, client, uniqueName("Ledger"))
	createTestEvent(t, client, map[string]interface{}{
		"description": uniqueName("ledger-incident"),
		"service_ids": []int64{serviceID},
	})

	resp, err := client.WithoutValidation().DELETE(fmt.Sprintf("/api/v1/services/%d", serviceID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()

	// Force detaches the event associations first.
	resp, err = client.DELETE(fmt.Sprintf("/api/v1/services/%d?force=true", serviceID))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCatalog_PublicListNeedsNoToken(t *testing.T) {
	admin := adminClient(t)
	serviceID := createTestService(t, admin, uniqueName("Public"))

	anon := newTestClient(t)
	resp, err := anon.GET("/api/v1/services")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &list)
	found := false
	for _, s := range list.Data {
		if s.ID == serviceID {
			found = true
		}
	}
	assert.True(t, found)

	resp, err = anon.WithoutValidation().POST("/api/v1/services", map[string]string{"name": "nope"})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
