package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClient_ActiveSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/session/active", r.URL.Path)
		assert.Equal(t, "Bearer device-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"data": map[string]any{
				"session": map[string]any{
					"id":            "abc",
					"date":          "2025-01-15",
					"start_time":    "2025-01-15T09:00:00Z",
					"scheduled_end": "17:00",
					"photo_count":   2,
				},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "device-token")
	sess, err := c.ActiveSession(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "abc", sess.ID)
	assert.Equal(t, "17:00", *sess.ScheduledEnd)
	assert.Equal(t, 2, sess.PhotoCount)

	started, err := sess.StartedAt()
	assert.NoError(t, err)
	assert.Equal(t, 9, started.Hour())
}

func TestClient_ActiveSession_NoneOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"ok":   true,
			"data": map[string]any{"session": nil},
		})
	}))
	defer srv.Close()

	sess, err := New(srv.URL, "t").ActiveSession(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestClient_EndSession_ConflictSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"ok": false,
			"error": map[string]any{
				"code":    "CONFLICT",
				"message": "The work session has already been closed",
			},
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "t").EndSession(context.Background(), EndSessionRequest{
		SessionID: "abc", Latitude: 1, Longitude: 2,
	})

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestClient_SendEmail_PostsSessionID(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/email/send", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "data": map[string]any{"queued": true}})
	}))
	defer srv.Close()

	err := New(srv.URL, "t").SendEmail(context.Background(), "abc")
	assert.NoError(t, err)
	assert.Equal(t, "abc", got["session_id"])
}
