package vaultapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frozpass/vaultpanel/internal/domain/model"
)

// messageResponse is the backend's confirmation body for admin mutations.
type messageResponse struct {
	Message string `json:"message"`
}

// Users lists all registered users.
func (c *Client) Users(ctx context.Context, token string) ([]model.User, error) {
	return list[model.User](ctx, c, "/api/admin/secure/get/users", token, nil)
}

// AdminGroups lists all groups with member counts. This is the one listing
// the backend serves over GET.
func (c *Client) AdminGroups(ctx context.Context, token string) ([]model.Group, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/admin/secure/get/groups", token, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[model.Group](raw, "/api/admin/secure/get/groups")
}

// CreateGroup creates a group with an initial member list.
func (c *Client) CreateGroup(ctx context.Context, token, groupName string, usernames []string) (string, error) {
	if usernames == nil {
		usernames = []string{}
	}
	body := struct {
		GroupName string   `json:"group_name"`
		Usernames []string `json:"usernames"`
	}{groupName, usernames}

	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/secure/create/groups", token, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// AddGroupMember adds one user to an existing group.
func (c *Client) AddGroupMember(ctx context.Context, token, username, groupName string) (string, error) {
	body := struct {
		Username  string `json:"username"`
		GroupName string `json:"group_name"`
	}{username, groupName}

	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/secure/add/groups", token, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DeleteUser removes a user by ID along with their vault items.
func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/secure/delete/user", token, idBody{ID: id}, nil)
}

// DeleteGroup removes a group by name, unassigning its members.
func (c *Client) DeleteGroup(ctx context.Context, token, groupName string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/secure/delete/groups", token, groupBody{GroupName: groupName}, nil)
}
