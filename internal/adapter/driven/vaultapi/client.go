// Package vaultapi implements the VaultClient and AdminClient ports against
// the vault backend's REST/JSON contract.
package vaultapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/frozpass/vaultpanel/internal/domain/model"
	"github.com/frozpass/vaultpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.VaultClient = (*Client)(nil)
	_ driven.AdminClient = (*Client)(nil)
)

// Client talks to the vault backend. Each call issues exactly one request;
// there is no retry or backoff, matching the backend's expectation that
// reads are cheap and idempotent.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a backend client with an httpcache memory transport so
// conditional requests are served from cache when the backend allows it.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: httpcache.NewMemoryCacheTransport(),
			Timeout:   15 * time.Second,
		},
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// errorBody is the backend's standard error response shape.
type errorBody struct {
	Error string `json:"error"`
}

// do issues one request and decodes a success body into out (when non-nil).
// Non-success statuses map to the port error taxonomy: 401 to
// ErrUnauthorized, 404 to ErrNotFound, anything else to *APIError carrying
// the backend's message verbatim when the body had one.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request for %s: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response from %s: %w", path, err)
	}

	slog.Debug("vault api call", "method", method, "path", path, "status", resp.StatusCode)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", path, err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, driven.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, driven.ErrNotFound)
	default:
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return &driven.APIError{StatusCode: resp.StatusCode, Message: eb.Error}
	}
}

// list fetches a JSON list endpoint. The backend occasionally returns a bare
// object instead of a one-element array; decodeList wraps it.
func list[T any](ctx context.Context, c *Client, path, token string, body any) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, path, token, body, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw, path)
}

// decodeList coerces a payload into a list: arrays decode directly, a single
// object is wrapped into a one-element list.
func decodeList[T any](data []byte, path string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var one T
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("decode item from %s: %w", path, err)
		}
		return []T{one}, nil
	}

	var items []T
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list from %s: %w", path, err)
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// usernameBody scopes a listing to a username.
type usernameBody struct {
	Username string `json:"username"`
}

// groupBody scopes a listing to a group name.
type groupBody struct {
	GroupName string `json:"group_name"`
}

// idBody identifies a record for deletion.
type idBody struct {
	ID string `json:"id"`
}

// Accounts lists the user's own accounts.
func (c *Client) Accounts(ctx context.Context, token, username string) ([]model.Account, error) {
	return list[model.Account](ctx, c, "/api/secure/get/account", token, usernameBody{Username: username})
}

// APIKeys lists the user's own API keys.
func (c *Client) APIKeys(ctx context.Context, token, username string) ([]model.APIKey, error) {
	return list[model.APIKey](ctx, c, "/api/secure/get/api-key", token, usernameBody{Username: username})
}

// Groups lists the groups the user belongs to.
func (c *Client) Groups(ctx context.Context, token, username string) ([]model.Group, error) {
	return list[model.Group](ctx, c, "/api/secure/get/groups-by-name", token, usernameBody{Username: username})
}

// GroupAccounts lists the accounts shared within a group.
func (c *Client) GroupAccounts(ctx context.Context, token, groupName string) ([]model.GroupAccount, error) {
	return list[model.GroupAccount](ctx, c, "/api/secure/get/account/groups", token, groupBody{GroupName: groupName})
}

// GroupAPIKeys lists the API keys shared within a group.
func (c *Client) GroupAPIKeys(ctx context.Context, token, groupName string) ([]model.GroupAPIKey, error) {
	return list[model.GroupAPIKey](ctx, c, "/api/secure/get/api-key/groups", token, groupBody{GroupName: groupName})
}

// AddAccount creates a user-owned account record.
func (c *Client) AddAccount(ctx context.Context, token string, acct model.NewAccount) error {
	body := struct {
		Username        string `json:"username"`
		UserAccount     string `json:"user_account"`
		PasswordAccount string `json:"password_account"`
		Title           string `json:"title"`
		URL             string `json:"url"`
	}{acct.Username, acct.UserAccount, acct.PasswordAccount, acct.Title, acct.URL}

	return c.do(ctx, http.MethodPost, "/api/secure/add/account", token, body, nil)
}

// AddAPIKey creates a user-owned API key record.
func (c *Client) AddAPIKey(ctx context.Context, token string, key model.NewAPIKey) error {
	body := struct {
		Username string `json:"username"`
		APIKey   string `json:"api_key"`
		Title    string `json:"title"`
	}{key.Username, key.Key, key.Title}

	return c.do(ctx, http.MethodPost, "/api/secure/add/api-key", token, body, nil)
}

// AddGroupAccount creates an account shared within a group.
func (c *Client) AddGroupAccount(ctx context.Context, token string, acct model.NewGroupAccount) error {
	body := struct {
		GroupName       string `json:"group_name"`
		UserAccount     string `json:"user_account"`
		PasswordAccount string `json:"password_account"`
		Title           string `json:"title"`
		URL             string `json:"url"`
	}{acct.GroupName, acct.UserAccount, acct.PasswordAccount, acct.Title, acct.URL}

	return c.do(ctx, http.MethodPost, "/api/secure/add/account/groups", token, body, nil)
}

// AddGroupAPIKey creates an API key shared within a group.
func (c *Client) AddGroupAPIKey(ctx context.Context, token string, key model.NewGroupAPIKey) error {
	body := struct {
		GroupName string `json:"group_name"`
		APIKey    string `json:"api_key"`
		Title     string `json:"title"`
	}{key.GroupName, key.Key, key.Title}

	return c.do(ctx, http.MethodPost, "/api/secure/add/api-key/groups", token, body, nil)
}

// DeleteAccount removes a user-owned account by ID.
func (c *Client) DeleteAccount(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/secure/delete/account", token, idBody{ID: id}, nil)
}

// DeleteAPIKey removes a user-owned API key by ID.
func (c *Client) DeleteAPIKey(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/secure/delete/api-key", token, idBody{ID: id}, nil)
}
