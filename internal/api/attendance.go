package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"gymctl/internal/models"
)

// RecordAttendance checks a member in for today
func (c *Client) RecordAttendance(ctx context.Context, id string) (*models.AttendanceReceipt, error) {
	payload := map[string]string{"id": id}

	body, err := c.sendJSON(ctx, "record attendance", http.MethodPost, "/api/attendance/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, err
	}

	var response struct {
		Success bool                     `json:"success"`
		Message string                   `json:"message"`
		Data    models.AttendanceReceipt `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error parsing attendance response: %w", err)
	}

	if !response.Success {
		return nil, &Error{
			Op:         "record attendance",
			StatusCode: http.StatusOK,
			Message:    response.Message,
			Body:       string(body),
		}
	}

	return &response.Data, nil
}

// ListAttendance returns who attended on date (YYYY-MM-DD).
// A body that is not a JSON array yields an empty list.
func (c *Client) ListAttendance(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	path := "/api/attendance?" + url.Values{"date": {date}}.Encode()

	body, err := c.sendJSON(ctx, "list attendance", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var records []models.AttendanceRecord
	if err := json.Unmarshal(body, &records); err != nil || records == nil {
		return []models.AttendanceRecord{}, nil
	}
	return records, nil
}
