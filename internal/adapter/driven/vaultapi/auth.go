package vaultapi

import (
	"context"
	"net/http"
	"time"

	"github.com/frozpass/vaultpanel/internal/domain/model"
)

// loginResponse is the backend's user login body.
type loginResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// adminLoginResponse is the backend's admin login body. The token field is
// named differently from the user flow.
type adminLoginResponse struct {
	ID            string `json:"id"`
	AdminUsername string `json:"admin_username"`
	AdminToken    string `json:"admin_token"`
	Role          string `json:"role"`
	ExpiresAt     string `json:"expires_at"`
}

// meResponse is the backend's identity body.
type meResponse struct {
	Username string `json:"username"`
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	return c.do(ctx, http.MethodPost, "/api/auth/register", "", body, nil)
}

// Login authenticates a user and returns the resulting session.
func (c *Client) Login(ctx context.Context, username, password string) (model.Session, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &resp); err != nil {
		return model.Session{}, err
	}

	return model.Session{
		Token:     resp.Token,
		Username:  resp.Username,
		Kind:      model.SessionKindUser,
		ExpiresAt: parseExpiry(resp.ExpiresAt),
	}, nil
}

// LoginAdmin authenticates an administrator and returns the resulting session.
func (c *Client) LoginAdmin(ctx context.Context, username, password string) (model.Session, error) {
	body := struct {
		AdminUsername string `json:"admin_username"`
		AdminPassword string `json:"admin_password"`
	}{username, password}

	var resp adminLoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/auth/login", "", body, &resp); err != nil {
		return model.Session{}, err
	}

	return model.Session{
		Token:     resp.AdminToken,
		Username:  resp.AdminUsername,
		Kind:      model.SessionKindAdmin,
		ExpiresAt: parseExpiry(resp.ExpiresAt),
	}, nil
}

// Me resolves the username behind the given token.
func (c *Client) Me(ctx context.Context, token string) (string, error) {
	var resp meResponse
	if err := c.do(ctx, http.MethodPost, "/api/secure/me", token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Username, nil
}

// parseExpiry parses the backend's RFC 3339 expiry. A zero time is returned
// for unparseable values; expiry is enforced server-side either way.
func parseExpiry(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
