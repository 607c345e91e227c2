package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"gymctl/internal/models"

	"go.uber.org/zap"
)

// envelope is the wrapper most endpoints put around their payload
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ListMembers returns every record the members endpoint serves, admins included.
// Role filtering is left to the caller.
func (c *Client) ListMembers(ctx context.Context) ([]models.Member, error) {
	body, err := c.sendJSON(ctx, "list members", http.MethodGet, "/api/members", nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Data struct {
			Users []models.Member `json:"users"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error parsing members response: %w", err)
	}

	if response.Data.Users == nil {
		return []models.Member{}, nil
	}
	return response.Data.Users, nil
}

// GetMember fetches a single member
func (c *Client) GetMember(ctx context.Context, id string) (*models.Member, error) {
	body, err := c.sendJSON(ctx, "get member", http.MethodGet, "/api/members/"+url.PathEscape(id), nil)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrMemberNotFound, id)
		}
		return nil, err
	}

	member, err := decodeMember(body)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrMemberNotFound, id)
	}
	return member, nil
}

// UpdateStatus sends a status change for one member.
// The returned member is nil when the server did not echo the updated record,
// including when a successful response body is not JSON.
func (c *Client) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Member, error) {
	path := fmt.Sprintf("/api/memberManagement/%s/status", url.PathEscape(id))
	body, err := c.sendJSON(ctx, "update status", http.MethodPut, path, update)
	if err != nil {
		return nil, err
	}

	member, err := decodeMember(body)
	if err != nil {
		c.logger.Debug("ignoring unparseable status update body",
			zap.String("member_id", id),
			zap.Error(err),
		)
		return nil, nil
	}
	return member, nil
}

// DeleteMember removes a member on the server
func (c *Client) DeleteMember(ctx context.Context, id string) error {
	_, err := c.sendJSON(ctx, "delete member", http.MethodDelete, "/api/members/"+url.PathEscape(id), nil)
	return err
}

// RegisterMember posts the sign-up form as multipart, with the profile picture as a file part
func (c *Client) RegisterMember(ctx context.Context, reg *models.Registration) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, field := range reg.Fields() {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return fmt.Errorf("error writing form field %s: %w", field[0], err)
		}
	}

	f, err := os.Open(reg.ProfileImagePath)
	if err != nil {
		return fmt.Errorf("error opening profile image: %w", err)
	}

	part, err := writer.CreateFormFile("profileImage", filepath.Base(reg.ProfileImagePath))
	if err != nil {
		if cerr := f.Close(); cerr != nil {
			return fmt.Errorf("error closing file %s: %w", reg.ProfileImagePath, cerr)
		}
		return err
	}

	if _, err := io.Copy(part, f); err != nil {
		if cerr := f.Close(); cerr != nil {
			return fmt.Errorf("error closing file %s: %w", reg.ProfileImagePath, cerr)
		}
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing file %s: %w", reg.ProfileImagePath, err)
	}

	if err := writer.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/members", body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if _, err := c.do(req, "register member"); err != nil {
		return err
	}
	return nil
}

// decodeMember accepts a member under data.user, under data, or at the top level.
// It returns nil without error when the body holds no member.
func decodeMember(body []byte) (*models.Member, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("error parsing member response: %w", err)
	}

	candidates := make([]json.RawMessage, 0, 3)
	if len(env.Data) > 0 {
		var inner struct {
			User json.RawMessage `json:"user"`
		}
		if err := json.Unmarshal(env.Data, &inner); err == nil && len(inner.User) > 0 {
			candidates = append(candidates, inner.User)
		}
		candidates = append(candidates, env.Data)
	}
	candidates = append(candidates, body)

	for _, raw := range candidates {
		var m models.Member
		if err := json.Unmarshal(raw, &m); err == nil && m.ID != "" {
			return &m, nil
		}
	}
	return nil, nil
}
