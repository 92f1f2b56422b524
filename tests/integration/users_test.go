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

func TestUsers_CreateAndDelete(t *testing.T) {
	client := adminClient(t)

	username := uniqueName("operator")
	resp, err := client.POST("/api/v1/users", map[string]string{
		"username":   username,
		"password":   "operator-secret",
		"first_name": "Dana",
		"last_name":  "Ops",
		"role":       "staff",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &created)
	assert.Equal(t, username, created.Data.Username)
	assert.Equal(t, "staff", created.Data.Role)

	resp, err = client.GET("/api/v1/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Data []struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &list)
	found := false
	for _, u := range list.Data {
		if u.Username == username {
			found = true
		}
	}
	assert.True(t, found, "created user missing from list")

	resp, err = client.DELETE(fmt.Sprintf("/api/v1/users/%d", created.Data.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	newClient := newTestClientWithoutValidation()
	loginResp, err := newClient.POST("/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "operator-secret",
	})
	require.NoError(t, err)
	defer func() { _ = loginResp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, loginResp.StatusCode)
}

func TestUsers_DuplicateUsername(t *testing.T) {
	client := adminClient(t)

	username := uniqueName("dup")
	body := map[string]string{
		"username": username,
		"password": "dup-secret-1",
		"role":     "viewer",
	}

	resp, err := client.POST("/api/v1/users", body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.POST("/api/v1/users", body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUsers_ResetPassword(t *testing.T) {
	client := adminClient(t)

	username := uniqueName("rotate")
	resp, err := client.POST("/api/v1/users", map[string]string{
		"username": username,
		"password": "initial-secret",
		"role":     "staff",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &created)

	resp, err = client.POST(fmt.Sprintf("/api/v1/users/%d/password", created.Data.ID), map[string]string{
		"password": "rotated-secret",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	rotated := newTestClient(t)
	rotated.LoginAs(t, username, "rotated-secret")

	old := newTestClientWithoutValidation()
	loginResp, err := old.POST("/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "initial-secret",
	})
	require.NoError(t, err)
	defer func() { _ = loginResp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, loginResp.StatusCode)
}

func TestUsers_LastAdminCannotBeDeleted(t *testing.T) {
	client := adminClient(t)

	resp, err := client.GET("/api/v1/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Data []struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &list)

	admins := 0
	var adminID int64
	for _, u := range list.Data {
		if u.Role == "admin" {
			admins++
			adminID = u.ID
		}
	}
	if admins != 1 {
		t.Skipf("expected exactly one admin, found %d", admins)
	}

	resp, err = client.DELETE(fmt.Sprintf("/api/v1/users/%d", adminID))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
