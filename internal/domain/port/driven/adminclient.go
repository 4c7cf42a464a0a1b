package driven

import (
	"context"

	"github.com/frozpass/vaultpanel/internal/domain/model"
)

// AdminClient is the port for admin-scoped operations. Admin tokens are
// issued by a separate login endpoint and are not valid for user routes.
type AdminClient interface {
	// LoginAdmin authenticates an administrator and returns an admin session.
	LoginAdmin(ctx context.Context, username, password string) (model.Session, error)

	// Users lists all registered users. Returns ErrNotFound when none exist.
	Users(ctx context.Context, token string) ([]model.User, error)

	// AdminGroups lists all groups with member counts.
	AdminGroups(ctx context.Context, token string) ([]model.Group, error)

	// CreateGroup creates a group with an initial member list and returns the
	// backend's confirmation message.
	CreateGroup(ctx context.Context, token, groupName string, usernames []string) (string, error)

	// AddGroupMember adds one user to an existing group and returns the
	// backend's confirmation message.
	AddGroupMember(ctx context.Context, token, username, groupName string) (string, error)

	// DeleteUser removes a user by ID along with their vault items.
	DeleteUser(ctx context.Context, token, id string) error

	// DeleteGroup removes a group by name. Members are unassigned; their
	// individual accounts and keys survive.
	DeleteGroup(ctx context.Context, token, groupName string) error
}
