package application

import (
	"context"

	"github.com/frozpass/vaultpanel/internal/domain/model"
	"github.com/frozpass/vaultpanel/internal/domain/port/driven"
)

// adminOwner keys the admin-wide snapshots. Admin listings are global, not
// scoped to a username, so a single fixed owner is used.
const adminOwner = "admin"

const (
	resUsers       = "users"
	resAdminGroups = "admin-groups"
)

// AdminService orchestrates the administrator flows. It follows the same
// discipline as VaultService: every mutation is followed by a re-fetch of
// the affected list rather than a local patch, so the user and group tables
// always reflect what the backend actually holds.
type AdminService struct {
	client driven.AdminClient

	users  *Resource[model.User]
	groups *Resource[model.Group]
}

// NewAdminService creates an AdminService over the given client and
// snapshot store.
func NewAdminService(client driven.AdminClient, snaps driven.SnapshotStore) *AdminService {
	return &AdminService{
		client: client,
		users: NewResource(resUsers, snaps, func(ctx context.Context, token, _ string) ([]model.User, error) {
			return client.Users(ctx, token)
		}),
		groups: NewResource(resAdminGroups, snaps, func(ctx context.Context, token, _ string) ([]model.Group, error) {
			return client.AdminGroups(ctx, token)
		}),
	}
}

// Login authenticates an administrator.
func (s *AdminService) Login(ctx context.Context, username, password string) (model.Session, error) {
	if err := requireFields(
		field{"username", username},
		field{"password", password},
	); err != nil {
		return model.Session{}, err
	}
	return s.client.LoginAdmin(ctx, username, password)
}

// FetchUsers refreshes the registered user list.
func (s *AdminService) FetchUsers(ctx context.Context, token string) (Result[model.User], error) {
	return s.users.Refresh(ctx, token, adminOwner)
}

// FetchGroups refreshes the group list.
func (s *AdminService) FetchGroups(ctx context.Context, token string) (Result[model.Group], error) {
	return s.groups.Refresh(ctx, token, adminOwner)
}

// Stats holds the admin overview tile numbers, sourced from snapshot
// counts.
type Stats struct {
	Users  int
	Groups int
}

// Stats returns the overview tile counts.
func (s *AdminService) Stats(ctx context.Context) Stats {
	return Stats{
		Users:  s.users.Count(ctx, adminOwner),
		Groups: s.groups.Count(ctx, adminOwner),
	}
}

// CreateGroup validates, creates the group with its initial members, and
// re-fetches the group list. The backend's confirmation message is
// returned for display.
func (s *AdminService) CreateGroup(ctx context.Context, token, groupName string, usernames []string) (string, Result[model.Group], error) {
	if err := requireFields(field{"group_name", groupName}); err != nil {
		return "", Result[model.Group]{}, err
	}

	msg, err := s.client.CreateGroup(ctx, token, groupName, usernames)
	if err != nil {
		return "", Result[model.Group]{}, err
	}

	groups, err := s.FetchGroups(ctx, token)
	return msg, groups, err
}

// AddGroupMember validates, adds the user to the group, and re-fetches the
// group list so the member count is authoritative.
func (s *AdminService) AddGroupMember(ctx context.Context, token, username, groupName string) (string, Result[model.Group], error) {
	if err := requireFields(
		field{"username", username},
		field{"group_name", groupName},
	); err != nil {
		return "", Result[model.Group]{}, err
	}

	msg, err := s.client.AddGroupMember(ctx, token, username, groupName)
	if err != nil {
		return "", Result[model.Group]{}, err
	}

	groups, err := s.FetchGroups(ctx, token)
	return msg, groups, err
}

// DeleteUser deletes one user and re-fetches the user list.
func (s *AdminService) DeleteUser(ctx context.Context, token, id string) (Result[model.User], error) {
	if err := s.client.DeleteUser(ctx, token, id); err != nil {
		return Result[model.User]{}, err
	}
	return s.FetchUsers(ctx, token)
}

// DeleteGroup deletes one group and re-fetches the group list.
func (s *AdminService) DeleteGroup(ctx context.Context, token, groupName string) (Result[model.Group], error) {
	if err := s.client.DeleteGroup(ctx, token, groupName); err != nil {
		return Result[model.Group]{}, err
	}
	return s.FetchGroups(ctx, token)
}
