// Package client is the agent's typed HTTP client for the collaborator
// API. Every response carries the {ok, data, error} envelope; errors
// surface as *APIError with the server's code and message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// APIError is a non-2xx envelope response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s (%d): %s", e.Code, e.Status, e.Message)
}

type Session struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	EndTime         *string `json:"end_time"`
	ScheduledStart  *string `json:"scheduled_start"`
	ScheduledEnd    *string `json:"scheduled_end"`
	OvertimeMinutes *int    `json:"overtime_minutes"`
	EmailSent       bool    `json:"email_sent"`
	PhotoCount      int     `json:"photo_count"`
	Duration        string  `json:"duration"`
}

// StartedAt parses the session's start timestamp.
func (s *Session) StartedAt() (time.Time, error) {
	return time.Parse(time.RFC3339, s.StartTime)
}

type WorkLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    int     `json:"radius"`
}

type Settings struct {
	ReminderIntervalMinutes  int           `json:"reminder_interval_minutes"`
	ReminderDurationSeconds  int           `json:"reminder_duration_seconds"`
	EndOfDayReminderMinutes  int           `json:"end_of_day_reminder_minutes"`
	OvertimeThresholdMinutes int           `json:"overtime_threshold_minutes"`
	GeofenceRadiusMeters     int           `json:"geofence_radius_meters"`
	AutoSendEmailOnGeofence  bool          `json:"auto_send_email_on_geofence"`
	WorkLocation             *WorkLocation `json:"work_location"`
	RecipientEmail           string        `json:"recipient_email"`
}

type StartSessionRequest struct {
	Date           string    `json:"date"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	StartTimestamp time.Time `json:"start_timestamp"`
}

type EndSessionRequest struct {
	SessionID string  `json:"session_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AttachPhotoRequest struct {
	SessionID   string `json:"session_id"`
	PhotoBase64 string `json:"photo_base64"`
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response from %s %s: %w", method, path, err)
	}
	if !env.Ok {
		apiErr := &APIError{Status: resp.StatusCode, Code: "INTERNAL_ERROR", Message: "unknown error"}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// ActiveSession returns nil without error when no session is open.
func (c *Client) ActiveSession(ctx context.Context) (*Session, error) {
	var data struct {
		Session *Session `json:"session"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/session/active", nil, &data); err != nil {
		return nil, err
	}
	return data.Session, nil
}

func (c *Client) StartSession(ctx context.Context, req StartSessionRequest) (*Session, error) {
	var data struct {
		Session *Session `json:"session"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/session/start", req, &data); err != nil {
		return nil, err
	}
	return data.Session, nil
}

func (c *Client) EndSession(ctx context.Context, req EndSessionRequest) (*Session, error) {
	var data struct {
		Session *Session `json:"session"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/session/end", req, &data); err != nil {
		return nil, err
	}
	return data.Session, nil
}

func (c *Client) AttachPhoto(ctx context.Context, req AttachPhotoRequest) (int, error) {
	var data struct {
		PhotoCount int `json:"photo_count"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/session/photo", req, &data); err != nil {
		return 0, err
	}
	return data.PhotoCount, nil
}

func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	var data struct {
		Settings *Settings `json:"settings"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &data); err != nil {
		return nil, err
	}
	return data.Settings, nil
}

func (c *Client) SendEmail(ctx context.Context, sessionID string) error {
	body := map[string]string{"session_id": sessionID}
	return c.do(ctx, http.MethodPost, "/api/email/send", body, nil)
}
