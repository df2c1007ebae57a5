package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/selhaddad/sakanalert/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListAlerts(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListAlerts(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
}

func TestClient_ListAlerts(t *testing.T) {
	t.Parallel()

	alerts := []domain.Alert{
		{ID: "a1", Name: "Casablanca apartments"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/alerts", r.URL.Path)
		assert.Equal(t, "user-1", r.URL.Query().Get("user_id"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(alerts)
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.ListAlerts(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "a1", result[0].ID)
}

func TestClient_CreateAlert(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var a domain.Alert
		err := json.NewDecoder(r.Body).Decode(&a)
		assert.NoError(t, err)
		a.ID = "a-created"

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(a)
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.CreateAlert(context.Background(), &domain.Alert{
		UserID:   "user-1",
		Name:     "Rabat rentals",
		Filters:  domain.DefaultFilters(),
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "a-created", result.ID)
	assert.Equal(t, "Rabat rentals", result.Name)
}

func TestClient_SetAlertActive(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/alerts/a1/active", r.URL.Path)

		var body map[string]bool
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.False(t, body["active"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "updated"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.SetAlertActive(context.Background(), "a1", false))
}

func TestClient_TriggerMatchRun(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/match/run", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":                 true,
			"message":                 "matching run completed",
			"alerts_processed":        5,
			"notifications_generated": 2,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.TriggerMatchRun(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 5, result.AlertsProcessed)
	assert.Equal(t, 2, result.NotificationsGenerated)
}

func TestClient_ListMatchRuns(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/runs", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"runs": []map[string]any{{"id": "run-1", "status": "succeeded"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	runs, err := c.ListMatchRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
}
