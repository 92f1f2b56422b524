//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/statusdash/statusdash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_Login(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/api/v1/auth/login", map[string]string{
		"username": adminUsername,
		"password": adminPassword,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				Username string `json:"username"`
				Role     string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.NotEmpty(t, result.Data.Token)
	assert.Equal(t, adminUsername, result.Data.User.Username)
	assert.Equal(t, "admin", result.Data.User.Role)
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/api/v1/auth/login", map[string]string{
		"username": adminUsername,
		"password": "not-the-password",
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_Me(t *testing.T) {
	client := adminClient(t)

	resp, err := client.GET("/api/v1/me")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, adminUsername, result.Data.Username)
}

func TestAuth_MissingTokenRejected(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/v1/me")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_GarbageTokenRejected(t *testing.T) {
	client := newTestClient(t)
	client.Token = "not-a-jwt"

	resp, err := client.GET("/api/v1/me")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_ViewerCannotManageEvents(t *testing.T) {
	admin := adminClient(t)

	username := uniqueName("viewer")
	resp, err := admin.POST("/api/v1/users", map[string]string{
		"username": username,
		"password": "viewer-secret",
		"role":     "viewer",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	viewer := newTestClient(t)
	viewer.LoginAs(t, username, "viewer-secret")

	resp, err = viewer.POST("/api/v1/events", map[string]interface{}{
		"type":        "incident",
		"status":      "open",
		"description": "should be refused",
		"start":       "2026-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuth_StaffCannotManageUsers(t *testing.T) {
	admin := adminClient(t)

	username := uniqueName("staff")
	resp, err := admin.POST("/api/v1/users", map[string]string{
		"username": username,
		"password": "staff-secret",
		"role":     "staff",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	staff := newTestClient(t)
	staff.LoginAs(t, username, "staff-secret")

	resp, err = staff.GET("/api/v1/users")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
