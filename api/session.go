package api

import (
	"context"
	"net/http"

	"shuryan/models"
)

// StartSession asks the backend to open a consultation session for the
// appointment. The backend rejects the call when the doctor already
// has another InProgress session.
func (c *Client) StartSession(ctx context.Context, appointmentID string) (*models.SessionPayload, error) {
	body := map[string]string{"appointmentId": appointmentID}
	var payload models.SessionPayload
	if err := c.do(ctx, http.MethodPost, "/api/sessions/start", nil, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetActiveSession fetches whatever session currently exists for the
// appointment. A (nil, nil) return means no session exists; that is an
// expected outcome, not an error.
func (c *Client) GetActiveSession(ctx context.Context, appointmentID string) (*models.SessionPayload, error) {
	var payload models.SessionPayload
	if err := c.do(ctx, http.MethodGet, "/api/sessions/active/"+appointmentID, nil, nil, &payload); err != nil {
		return nil, err
	}
	if payload.SessionID == "" && payload.AppointmentID == "" {
		return nil, nil
	}
	return &payload, nil
}

// EndSession terminates the session keyed by the appointment.
func (c *Client) EndSession(ctx context.Context, appointmentID string) error {
	body := map[string]string{"appointmentId": appointmentID}
	return c.do(ctx, http.MethodPut, "/api/sessions/end", nil, body, nil)
}
