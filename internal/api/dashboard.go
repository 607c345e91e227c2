package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// GetDashboardAttendance returns the dashboard attendance summary as the server sent it
func (c *Client) GetDashboardAttendance(ctx context.Context) (json.RawMessage, error) {
	body, err := c.sendJSON(ctx, "dashboard attendance", http.MethodGet, "/api/dashboard/attendanceData", nil)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("error parsing dashboard response: invalid JSON")
	}
	return json.RawMessage(body), nil
}

// FetchImage downloads an image served by the API, such as a profile picture.
// Absolute URLs are fetched as given, without the bearer token unless they point at
// the API server; paths are resolved against BaseURL.
func (c *Client) FetchImage(ctx context.Context, ref string) ([]byte, string, error) {
	if ref == "" {
		return nil, "", fmt.Errorf("empty image reference")
	}

	target := ref
	if !strings.Contains(ref, "://") {
		if !strings.HasPrefix(ref, "/") {
			ref = "/" + ref
		}
		target = c.url(ref)
	}

	req, err := c.newRequestURL(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "image/*")

	body, err := c.do(req, "fetch image")
	if err != nil {
		return nil, "", err
	}

	return body, http.DetectContentType(body), nil
}
