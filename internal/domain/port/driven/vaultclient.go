// Package driven defines the port interfaces implemented by driven adapters.
package driven

import (
	"context"
	"errors"
	"fmt"

	"github.com/frozpass/vaultpanel/internal/domain/model"
)

// ErrUnauthorized is returned when the backend rejects the bearer token.
// Callers must tear down the session and redirect to the login view.
var ErrUnauthorized = errors.New("vault: unauthorized")

// ErrNotFound is returned for 404 responses. On list endpoints the backend
// uses 404 to mean "no items", so callers treat it as a valid empty result.
var ErrNotFound = errors.New("vault: not found")

// APIError carries a non-success backend response. Message holds the
// server's error string verbatim when the body contained one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("vault: backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("vault: %s (status %d)", e.Message, e.StatusCode)
}

// VaultClient is the port for user-scoped operations against the vault
// backend. Every call issues exactly one request; there is no retry.
type VaultClient interface {
	// Register creates a new user account. No session is returned; the
	// caller logs in separately.
	Register(ctx context.Context, username, password string) error

	// Login authenticates and returns a user session.
	Login(ctx context.Context, username, password string) (model.Session, error)

	// Me resolves the username behind the given token.
	Me(ctx context.Context, token string) (string, error)

	// Accounts lists the user's own accounts. Returns ErrNotFound when the
	// user has none.
	Accounts(ctx context.Context, token, username string) ([]model.Account, error)

	// APIKeys lists the user's own API keys. Returns ErrNotFound when the
	// user has none.
	APIKeys(ctx context.Context, token, username string) ([]model.APIKey, error)

	// Groups lists the groups the user belongs to. Returns ErrNotFound when
	// the user belongs to none.
	Groups(ctx context.Context, token, username string) ([]model.Group, error)

	// GroupAccounts lists the accounts shared within a group.
	GroupAccounts(ctx context.Context, token, groupName string) ([]model.GroupAccount, error)

	// GroupAPIKeys lists the API keys shared within a group.
	GroupAPIKeys(ctx context.Context, token, groupName string) ([]model.GroupAPIKey, error)

	AddAccount(ctx context.Context, token string, acct model.NewAccount) error
	AddAPIKey(ctx context.Context, token string, key model.NewAPIKey) error
	AddGroupAccount(ctx context.Context, token string, acct model.NewGroupAccount) error
	AddGroupAPIKey(ctx context.Context, token string, key model.NewGroupAPIKey) error

	DeleteAccount(ctx context.Context, token, id string) error
	DeleteAPIKey(ctx context.Context, token, id string) error
}
